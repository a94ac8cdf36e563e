package vectorstore

import (
	"context"

	"github.com/matrooslabs/shadow-world/internal/knowledge/schema"
)

// VectorStore stores chunks with their embeddings and answers nearest-
// neighbor queries. All personas share one physical store; isolation is
// enforced by the personaID filter on every query, never by separate stores.
type VectorStore interface {
	// Add inserts chunks. Adding an empty slice is a no-op.
	Add(ctx context.Context, chunks []*schema.Chunk) error

	// Query returns up to topK chunks most similar to the embedding, filtered
	// to the given persona. An empty result is a normal outcome.
	Query(ctx context.Context, embedding []float32, topK int, personaID string) ([]*schema.Chunk, error)

	// DeleteBySource removes every chunk of the given source document, across
	// all personas. Deleting an unknown source is a no-op.
	DeleteBySource(ctx context.Context, sourceID string) error
}
