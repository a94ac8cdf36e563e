package llm

import (
	"context"
	"fmt"

	"github.com/matrooslabs/shadow-world/internal/config"
	"github.com/matrooslabs/shadow-world/internal/models"
)

// Message is one conversational turn handed to a chat model.
type Message struct {
	Role    models.MessageRole
	Content string
}

// ChatModel is the interface every generative-model client implements. The
// instructions string carries the system prompt; messages carry the
// conversation in order, ending with the newest user turn. Implementations
// must honour ctx cancellation so callers can bound a stalled upstream call.
type ChatModel interface {
	Generate(ctx context.Context, instructions string, messages []Message) (string, error)
}

// NewClient is a factory that creates a ChatModel for the configured provider.
func NewClient(ctx context.Context, cfg config.LLMConfig) (ChatModel, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg.Gemini.Model, cfg.Gemini.APIKey)
	case "openai":
		return NewOpenAI(cfg.OpenAI.Model, cfg.OpenAI.APIKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
