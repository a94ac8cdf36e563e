package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matrooslabs/shadow-world/internal/config"
	"github.com/matrooslabs/shadow-world/internal/knowledge"
	"github.com/matrooslabs/shadow-world/internal/knowledge/vectorstore"
	"github.com/matrooslabs/shadow-world/internal/llm"
	"github.com/matrooslabs/shadow-world/internal/models"
	"github.com/matrooslabs/shadow-world/pkg/logger"
)

// captureModel records the prompt it was handed and answers with a canned
// reply.
type captureModel struct {
	instructions string
	messages     []llm.Message
	reply        string
}

func (m *captureModel) Generate(ctx context.Context, instructions string, messages []llm.Message) (string, error) {
	m.instructions = instructions
	m.messages = messages
	return m.reply, nil
}

type staticEmbedder struct{}

func (staticEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 4)
	for i, r := range text {
		vec[i%4] += float32(r)
	}
	return vec, nil
}

func (e staticEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = e.Embed(ctx, t)
	}
	return out, nil
}

func testChatConfig() config.ChatConfig {
	return config.ChatConfig{HistoryLimit: 10, RetrievalTopK: 5, Timeout: "5s"}
}

func testProfile() *models.PersonalityProfile {
	return &models.PersonalityProfile{
		Traits:             []string{"wry", "curious"},
		Interests:          []string{"cycling"},
		CommunicationStyle: "Dry one-liners",
		Values:             []string{"honesty"},
		SampleExpressions:  []string{"well, that happened"},
		Summary:            "A dry-witted cyclist.",
	}
}

func TestRespondWithoutKnowledgeIndex(t *testing.T) {
	model := &captureModel{reply: "sure thing"}
	r := NewResponder(model, nil, testChatConfig(), logger.New("test", ""))

	reply, err := r.Respond(context.Background(), "p1", "Alex", testProfile(), nil, "hey")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply != "sure thing" {
		t.Errorf("Respond() = %q, want the model reply verbatim", reply)
	}
	if strings.Contains(model.instructions, "KNOWLEDGE BASE") {
		t.Error("prompt contains a knowledge section without an index")
	}
	for _, want := range []string{"Alex", "wry, curious", "Dry one-liners", "well, that happened"} {
		if !strings.Contains(model.instructions, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestRespondNilProfileFallbacks(t *testing.T) {
	model := &captureModel{reply: "ok"}
	r := NewResponder(model, nil, testChatConfig(), logger.New("test", ""))

	if _, err := r.Respond(context.Background(), "p1", "", nil, nil, "hey"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	for _, want := range []string{"this persona", "Not specified", "Natural and conversational", "No samples available"} {
		if !strings.Contains(model.instructions, want) {
			t.Errorf("prompt missing fallback %q", want)
		}
	}
}

func TestRespondIncludesRetrievedKnowledge(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	idx := knowledge.NewIndex(knowledge.NewChunker(200, 20), staticEmbedder{}, store, logger.New("test", ""))
	if _, err := idx.Ingest(context.Background(), "p1", "src-1", "The persona once cycled across Iceland."); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	model := &captureModel{reply: "it was windy"}
	r := NewResponder(model, idx, testChatConfig(), logger.New("test", ""))

	if _, err := r.Respond(context.Background(), "p1", "Alex", testProfile(), nil, "tell me about Iceland"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if !strings.Contains(model.instructions, "KNOWLEDGE BASE") {
		t.Error("prompt missing knowledge section")
	}
	if !strings.Contains(model.instructions, "cycled across Iceland") {
		t.Error("prompt missing retrieved chunk text")
	}
}

func TestRespondHistoryBounded(t *testing.T) {
	model := &captureModel{reply: "ok"}
	r := NewResponder(model, nil, testChatConfig(), logger.New("test", ""))

	history := make([]models.ChatMessage, 25)
	for i := range history {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		history[i] = models.ChatMessage{Role: role, Content: fmt.Sprintf("turn %d", i)}
	}

	if _, err := r.Respond(context.Background(), "p1", "Alex", testProfile(), history, "latest"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if len(model.messages) != 11 {
		t.Fatalf("model received %d messages, want 10 history + 1 user", len(model.messages))
	}
	if model.messages[0].Content != "turn 15" {
		t.Errorf("oldest kept turn = %q, want the most recent window", model.messages[0].Content)
	}
	last := model.messages[len(model.messages)-1]
	if last.Role != models.RoleUser || last.Content != "latest" {
		t.Errorf("final message = %+v, want the new user turn", last)
	}
}
