package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/matrooslabs/shadow-world/internal/knowledge/vectorstore"
	"github.com/matrooslabs/shadow-world/pkg/logger"
)

// hashEmbedder produces a deterministic vector per text so similarity ranking
// in tests is stable without a model.
type hashEmbedder struct {
	fail bool
}

func (e *hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.fail {
		return nil, errors.New("embedder down")
	}
	vec := make([]float32, 8)
	for i, r := range text {
		vec[i%8] += float32(r)
	}
	return vec, nil
}

func (e *hashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func newTestIndex() (*Index, *vectorstore.MemoryStore) {
	store := vectorstore.NewMemoryStore()
	idx := NewIndex(NewChunker(50, 10), &hashEmbedder{}, store, logger.New("test", ""))
	return idx, store
}

func TestIngestAndQuery(t *testing.T) {
	idx, _ := newTestIndex()
	ctx := context.Background()

	text := "The persona loves hiking in the mountains. They also bake sourdough bread every weekend. Winters are for reading."
	count, err := idx.Ingest(ctx, "persona-1", "src-1", text)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if count < 2 {
		t.Fatalf("Ingest() count = %d, want multiple chunks", count)
	}

	results, err := idx.Query(ctx, "persona-1", "hiking in the mountains", 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Query() returned no chunks")
	}
	for _, r := range results {
		for _, word := range strings.Fields(r) {
			if !strings.Contains(text, word) {
				t.Errorf("retrieved chunk contains foreign word %q: %q", word, r)
			}
		}
	}
}

func TestIngestChunkIDs(t *testing.T) {
	idx, store := newTestIndex()
	ctx := context.Background()

	count, err := idx.Ingest(ctx, "persona-1", "src-9", "First fact here. Second fact here. Third fact here. Fourth fact arrives now.")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	vec, _ := (&hashEmbedder{}).Embed(ctx, "fact")
	chunks, err := store.Query(ctx, vec, count, "persona-1")
	if err != nil {
		t.Fatalf("store.Query() error = %v", err)
	}
	seen := make(map[string]bool)
	for _, chunk := range chunks {
		wantID := fmt.Sprintf("src-9#%d", chunk.ChunkIndex)
		if chunk.ID != wantID {
			t.Errorf("chunk ID = %q, want %q", chunk.ID, wantID)
		}
		seen[chunk.ID] = true
	}
	if len(seen) != count {
		t.Errorf("got %d distinct chunk IDs, want %d", len(seen), count)
	}
}

func TestIngestBlankText(t *testing.T) {
	idx, _ := newTestIndex()
	count, err := idx.Ingest(context.Background(), "persona-1", "src-1", "   \n ")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Ingest() count = %d, want 0", count)
	}
}

func TestQueryPersonaIsolation(t *testing.T) {
	idx, _ := newTestIndex()
	ctx := context.Background()

	if _, err := idx.Ingest(ctx, "persona-a", "src-a", "Persona A likes jazz."); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if _, err := idx.Ingest(ctx, "persona-b", "src-b", "Persona B likes metal."); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	results, err := idx.Query(ctx, "persona-a", "music taste", 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	for _, r := range results {
		if strings.Contains(r, "Persona B") {
			t.Errorf("query leaked another persona's chunk: %q", r)
		}
	}
}

func TestDeleteBySource(t *testing.T) {
	idx, _ := newTestIndex()
	ctx := context.Background()

	if _, err := idx.Ingest(ctx, "persona-1", "src-keep", "Keep this knowledge."); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if _, err := idx.Ingest(ctx, "persona-1", "src-drop", "Drop this knowledge."); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if err := idx.Delete(ctx, "src-drop"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	results, err := idx.Query(ctx, "persona-1", "knowledge", 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Query() returned %d chunks after delete, want 1", len(results))
	}
	if !strings.Contains(results[0], "Keep") {
		t.Errorf("wrong chunk survived delete: %q", results[0])
	}
}

func TestIngestEmbedderFailure(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	idx := NewIndex(NewChunker(50, 10), &hashEmbedder{fail: true}, store, logger.New("test", ""))

	_, err := idx.Ingest(context.Background(), "persona-1", "src-1", "Some text to embed.")
	if err == nil {
		t.Fatal("Ingest() expected error from failing embedder")
	}
}
