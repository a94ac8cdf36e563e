package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/matrooslabs/shadow-world/internal/config"
	"github.com/matrooslabs/shadow-world/internal/llm"
	"github.com/matrooslabs/shadow-world/internal/models"
	"github.com/matrooslabs/shadow-world/pkg/logger"
)

// scriptedModel answers each stage by its instructions and counts calls.
type scriptedModel struct {
	respond func(instructions string) (string, error)
	calls   int
}

func (m *scriptedModel) Generate(ctx context.Context, instructions string, messages []llm.Message) (string, error) {
	m.calls++
	return m.respond(instructions)
}

func testContent() *models.RawContent {
	return &models.RawContent{
		Bio: "Builder of small tools",
		Posts: []models.Post{
			{Text: "Just shipped a new release, feels great"},
			{Text: "Coffee first, code second"},
		},
	}
}

func newTestPipeline(model llm.ChatModel) *Pipeline {
	return NewPipeline(model, config.ExtractionConfig{StageTimeout: "5s"}, logger.New("test", ""))
}

func TestPipelineFullRun(t *testing.T) {
	model := &scriptedModel{respond: func(instructions string) (string, error) {
		switch instructions {
		case traitsInstructions:
			return `["optimistic", "driven"]`, nil
		case interestsInstructions:
			return `["software", "coffee"]`, nil
		case styleInstructions:
			return "Short, upbeat sentences.", nil
		case valuesInstructions:
			return `["craftsmanship"]`, nil
		case samplesInstructions:
			return `["Coffee first, code second"]`, nil
		case summaryInstructions:
			return "An upbeat builder who ships.", nil
		}
		return "", errors.New("unexpected instructions")
	}}

	var stages []string
	var progress []int
	profile, err := newTestPipeline(model).Run(context.Background(), testContent(), func(stage string, pct int) {
		stages = append(stages, stage)
		progress = append(progress, pct)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(profile.Traits) != 2 || profile.Traits[0] != "optimistic" {
		t.Errorf("Traits = %v", profile.Traits)
	}
	if profile.CommunicationStyle != "Short, upbeat sentences." {
		t.Errorf("CommunicationStyle = %q", profile.CommunicationStyle)
	}
	if profile.Summary != "An upbeat builder who ships." {
		t.Errorf("Summary = %q", profile.Summary)
	}
	if len(profile.SampleExpressions) != 1 {
		t.Errorf("SampleExpressions = %v", profile.SampleExpressions)
	}

	wantStages := []string{"normalize", "traits", "interests", "communication_style", "values", "sample_expressions", "summary"}
	if len(stages) != len(wantStages) {
		t.Fatalf("stages = %v, want %v", stages, wantStages)
	}
	for i, s := range wantStages {
		if stages[i] != s {
			t.Errorf("stage %d = %q, want %q", i, stages[i], s)
		}
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] <= progress[i-1] {
			t.Errorf("progress not increasing: %v", progress)
		}
	}
	if progress[len(progress)-1] != 100 {
		t.Errorf("final progress = %d, want 100", progress[len(progress)-1])
	}
}

func TestPipelineMalformedListDegrades(t *testing.T) {
	model := &scriptedModel{respond: func(instructions string) (string, error) {
		if instructions == traitsInstructions {
			return "I think this person is very nice", nil
		}
		return `[]`, nil
	}}

	profile, err := newTestPipeline(model).Run(context.Background(), testContent(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if profile.Traits == nil || len(profile.Traits) != 0 {
		t.Errorf("Traits = %v, want empty non-nil slice", profile.Traits)
	}
}

func TestPipelineModelErrorAborts(t *testing.T) {
	wantErr := errors.New("model unavailable")
	model := &scriptedModel{respond: func(instructions string) (string, error) {
		if instructions == interestsInstructions {
			return "", wantErr
		}
		return `[]`, nil
	}}

	_, err := newTestPipeline(model).Run(context.Background(), testContent(), nil)
	if err == nil {
		t.Fatal("Run() expected error, got none")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("Run() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestPipelineEmptyCorpusSkipsModel(t *testing.T) {
	model := &scriptedModel{respond: func(string) (string, error) {
		return "", errors.New("should not be called")
	}}

	profile, err := newTestPipeline(model).Run(context.Background(), &models.RawContent{}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if model.calls != 0 {
		t.Errorf("model called %d times for empty corpus, want 0", model.calls)
	}
	if len(profile.Traits) != 0 || len(profile.Interests) != 0 || len(profile.Values) != 0 ||
		len(profile.SampleExpressions) != 0 || profile.CommunicationStyle != "" || profile.Summary != "" {
		t.Errorf("profile not empty: %+v", profile)
	}
}

func TestPipelineNonVerbatimSamplesKept(t *testing.T) {
	model := &scriptedModel{respond: func(instructions string) (string, error) {
		if instructions == samplesInstructions {
			return `["this sentence appears nowhere in the corpus"]`, nil
		}
		if instructions == styleInstructions || instructions == summaryInstructions {
			return "fine", nil
		}
		return `[]`, nil
	}}

	profile, err := newTestPipeline(model).Run(context.Background(), testContent(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(profile.SampleExpressions) != 1 {
		t.Errorf("SampleExpressions = %v, want the non-verbatim sample kept", profile.SampleExpressions)
	}
}
