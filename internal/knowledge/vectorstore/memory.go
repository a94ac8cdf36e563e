package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/matrooslabs/shadow-world/internal/knowledge/schema"
)

// MemoryStore is a thread-safe, in-memory VectorStore using brute-force
// cosine similarity. It backs tests and single-node development setups;
// production uses the Milvus store.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]*schema.Chunk
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[string]*schema.Chunk)}
}

// Add inserts chunks, replacing any existing chunk with the same ID.
func (s *MemoryStore) Add(ctx context.Context, chunks []*schema.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		c := *chunk
		s.chunks[c.ID] = &c
	}
	return nil
}

// Query scores every chunk of the persona against the embedding and returns
// the topK by cosine similarity.
func (s *MemoryStore) Query(ctx context.Context, embedding []float32, topK int, personaID string) ([]*schema.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scored []*schema.Chunk
	for _, chunk := range s.chunks {
		if chunk.PersonaID != personaID {
			continue
		}
		c := *chunk
		c.Score = cosineSimilarity(embedding, chunk.Embedding)
		scored = append(scored, &c)
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// DeleteBySource removes every chunk of the given source document.
func (s *MemoryStore) DeleteBySource(ctx context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, chunk := range s.chunks {
		if chunk.SourceID == sourceID {
			delete(s.chunks, id)
		}
	}
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

var _ VectorStore = (*MemoryStore)(nil)
