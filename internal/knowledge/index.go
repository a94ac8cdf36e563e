package knowledge

import (
	"context"
	"fmt"

	"github.com/matrooslabs/shadow-world/internal/config"
	"github.com/matrooslabs/shadow-world/internal/embedding"
	"github.com/matrooslabs/shadow-world/internal/knowledge/schema"
	"github.com/matrooslabs/shadow-world/internal/knowledge/vectorstore"
	"github.com/matrooslabs/shadow-world/pkg/logger"
)

// Index is the persona-scoped knowledge base: it chunks documents, embeds the
// chunks, and answers similarity queries against the shared vector store.
type Index struct {
	chunker  *Chunker
	embedder embedding.Embedding
	store    vectorstore.VectorStore
	log      *logger.Logger
}

// NewIndex creates an Index over the given chunker, embedder, and store.
func NewIndex(chunker *Chunker, embedder embedding.Embedding, store vectorstore.VectorStore, log *logger.Logger) *Index {
	return &Index{
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		log:      log,
	}
}

// Ingest chunks the document text, embeds every chunk, and stores them under
// the persona and source ids. Chunk ids take the form "sourceID#i". Returns
// the number of chunks stored; blank text stores nothing and returns 0.
func (idx *Index) Ingest(ctx context.Context, personaID, sourceID, text string) (int, error) {
	pieces := idx.chunker.Split(text)
	if len(pieces) == 0 {
		return 0, nil
	}

	embeddings, err := idx.embedder.EmbedBatch(ctx, pieces)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(pieces) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(pieces))
	}

	chunks := make([]*schema.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = &schema.Chunk{
			ID:         fmt.Sprintf("%s#%d", sourceID, i),
			PersonaID:  personaID,
			SourceID:   sourceID,
			ChunkIndex: i,
			Text:       piece,
			Embedding:  embeddings[i],
		}
	}

	if err := idx.store.Add(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	idx.log.WithPersona(personaID).Info(fmt.Sprintf("Ingested %d chunks for source %s", len(chunks), sourceID))
	return len(chunks), nil
}

// Query embeds the query text and returns the texts of the top-k most
// similar chunks belonging to the persona. An empty result is a normal
// outcome, not an error.
func (idx *Index) Query(ctx context.Context, personaID, queryText string, k int) ([]string, error) {
	if k <= 0 {
		k = config.DefaultRetrievalTopK
	}

	vector, err := idx.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := idx.store.Query(ctx, vector, k, personaID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}

	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Text)
	}
	return texts, nil
}

// Delete removes every chunk of the source document.
func (idx *Index) Delete(ctx context.Context, sourceID string) error {
	if err := idx.store.DeleteBySource(ctx, sourceID); err != nil {
		return fmt.Errorf("failed to delete source %s: %w", sourceID, err)
	}
	return nil
}
