package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matrooslabs/shadow-world/internal/config"
	"github.com/matrooslabs/shadow-world/internal/llm"
	"github.com/matrooslabs/shadow-world/internal/models"
	"github.com/matrooslabs/shadow-world/pkg/logger"
)

// State is the pipeline's working memory: the normalized corpus plus each
// profile facet as its stage fills it in. It is created empty at the start of
// a run, threaded through the stages in fixed order, and converted into the
// final profile at the end.
type State struct {
	Corpus             string
	Traits             []string
	Interests          []string
	CommunicationStyle string
	Values             []string
	SampleExpressions  []string
	Summary            string
	Progress           int
}

// ProgressFunc observes stage completion. Progress values only ever increase
// within a run; they carry no control-flow meaning.
type ProgressFunc func(stage string, progress int)

// Pipeline extracts a PersonalityProfile from raw social content by running a
// fixed sequence of model-backed stages. List-shaped stages degrade to empty
// results when the model response cannot be parsed; a failed model call
// aborts the whole run. The summary context is capped tighter than the stage
// corpus because it also carries the already-extracted facets.
type Pipeline struct {
	model          llm.ChatModel
	maxCorpusChars int
	stageTimeout   time.Duration
	log            *logger.Logger
}

const summaryCorpusChars = 4000

// NewPipeline creates an extraction pipeline bound to one chat model.
func NewPipeline(model llm.ChatModel, cfg config.ExtractionConfig, log *logger.Logger) *Pipeline {
	maxChars := cfg.MaxCorpusChars
	if maxChars <= 0 {
		maxChars = config.DefaultMaxCorpusChars
	}
	return &Pipeline{
		model:          model,
		maxCorpusChars: maxChars,
		stageTimeout:   cfg.StageTimeoutDuration(),
		log:            log,
	}
}

type stage struct {
	name     string
	progress int
	run      func(ctx context.Context, st *State) error
}

// Run executes the full pipeline over the given content. onProgress may be
// nil. The returned profile is complete (every field set, possibly to its
// empty default); a non-nil error means no profile was produced at all.
func (p *Pipeline) Run(ctx context.Context, content *models.RawContent, onProgress ProgressFunc) (*models.PersonalityProfile, error) {
	report := func(name string, progress int) {
		if onProgress != nil {
			onProgress(name, progress)
		}
	}

	st := &State{Corpus: Normalize(content)}
	st.Progress = 20
	report("normalize", st.Progress)

	stages := []stage{
		{"traits", 40, p.extractTraits},
		{"interests", 60, p.extractInterests},
		{"communication_style", 75, p.extractCommunicationStyle},
		{"values", 80, p.extractValues},
		{"sample_expressions", 90, p.selectSampleExpressions},
		{"summary", 100, p.generateSummary},
	}

	for _, s := range stages {
		if err := s.run(ctx, st); err != nil {
			return nil, fmt.Errorf("extraction stage %s failed: %w", s.name, err)
		}
		st.Progress = s.progress
		report(s.name, st.Progress)
	}

	return profileFromState(st), nil
}

func (p *Pipeline) extractTraits(ctx context.Context, st *State) error {
	items, err := p.extractList(ctx, traitsInstructions, st, "traits")
	if err != nil {
		return err
	}
	st.Traits = items
	return nil
}

func (p *Pipeline) extractInterests(ctx context.Context, st *State) error {
	items, err := p.extractList(ctx, interestsInstructions, st, "interests")
	if err != nil {
		return err
	}
	st.Interests = items
	return nil
}

func (p *Pipeline) extractCommunicationStyle(ctx context.Context, st *State) error {
	if st.Corpus == "" {
		return nil
	}
	raw, err := p.generate(ctx, styleInstructions, truncate(st.Corpus, p.maxCorpusChars))
	if err != nil {
		return err
	}
	st.CommunicationStyle = strings.TrimSpace(raw)
	return nil
}

func (p *Pipeline) extractValues(ctx context.Context, st *State) error {
	items, err := p.extractList(ctx, valuesInstructions, st, "values")
	if err != nil {
		return err
	}
	st.Values = items
	return nil
}

// selectSampleExpressions asks the model for verbatim excerpts. The verbatim
// contract is best-effort: a paraphrased sample is logged and kept rather
// than rejected, since a slightly reworded sample still anchors tone.
func (p *Pipeline) selectSampleExpressions(ctx context.Context, st *State) error {
	items, err := p.extractList(ctx, samplesInstructions, st, "sample_expressions")
	if err != nil {
		return err
	}
	for _, sample := range items {
		if !strings.Contains(st.Corpus, sample) {
			p.log.WithField("stage", "sample_expressions").Warn("model returned a non-verbatim sample expression")
		}
	}
	st.SampleExpressions = items
	return nil
}

func (p *Pipeline) generateSummary(ctx context.Context, st *State) error {
	if st.Corpus == "" {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Traits: %s\n", strings.Join(st.Traits, ", "))
	fmt.Fprintf(&sb, "Interests: %s\n", strings.Join(st.Interests, ", "))
	fmt.Fprintf(&sb, "Values: %s\n", strings.Join(st.Values, ", "))
	fmt.Fprintf(&sb, "Communication Style: %s\n\n", st.CommunicationStyle)
	fmt.Fprintf(&sb, "Sample content:\n%s", truncate(st.Corpus, summaryCorpusChars))

	raw, err := p.generate(ctx, summaryInstructions, sb.String())
	if err != nil {
		return err
	}
	st.Summary = strings.TrimSpace(raw)
	return nil
}

// extractList runs one list-shaped stage. A model-call failure propagates and
// aborts the pipeline; a malformed response degrades to an empty list so the
// remaining stages still run.
func (p *Pipeline) extractList(ctx context.Context, instructions string, st *State, stageName string) ([]string, error) {
	if st.Corpus == "" {
		return nil, nil
	}

	raw, err := p.generate(ctx, instructions, truncate(st.Corpus, p.maxCorpusChars))
	if err != nil {
		return nil, err
	}

	items, err := parseStringList(raw)
	if err != nil {
		p.log.WithField("stage", stageName).Warn(fmt.Sprintf("discarding malformed model response: %v", err))
		return []string{}, nil
	}
	return items, nil
}

func (p *Pipeline) generate(ctx context.Context, instructions, input string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()
	return p.model.Generate(ctx, instructions, []llm.Message{{Role: models.RoleUser, Content: input}})
}

// profileFromState converts the terminal state into a total profile: nil
// slices become empty ones so the result is always renderable.
func profileFromState(st *State) *models.PersonalityProfile {
	return &models.PersonalityProfile{
		Traits:             orEmpty(st.Traits),
		Interests:          orEmpty(st.Interests),
		CommunicationStyle: st.CommunicationStyle,
		Values:             orEmpty(st.Values),
		SampleExpressions:  orEmpty(st.SampleExpressions),
		Summary:            st.Summary,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
