package embedding

import (
	"context"
	"fmt"

	"github.com/matrooslabs/shadow-world/internal/config"
)

// Embedding is the interface every embedding-model client implements.
type Embedding interface {
	// Embed generates the vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch generates vectors for a batch of texts, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// NewClient is a factory that creates an Embedding for the configured
// provider.
func NewClient(ctx context.Context, cfg config.EmbeddingConfig) (Embedding, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGoogleModel(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	case "ollama":
		return NewOllamaModel(cfg.Ollama.Model, cfg.Ollama.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
