package vectorstore

import (
	"context"
	"testing"

	"github.com/matrooslabs/shadow-world/internal/knowledge/schema"
)

func seedChunks(t *testing.T, s *MemoryStore) {
	t.Helper()
	err := s.Add(context.Background(), []*schema.Chunk{
		{ID: "a#0", PersonaID: "p1", SourceID: "a", Text: "exact match", Embedding: []float32{1, 0}},
		{ID: "a#1", PersonaID: "p1", SourceID: "a", Text: "near match", Embedding: []float32{0.9, 0.1}},
		{ID: "b#0", PersonaID: "p1", SourceID: "b", Text: "orthogonal", Embedding: []float32{0, 1}},
		{ID: "c#0", PersonaID: "p2", SourceID: "c", Text: "other persona", Embedding: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
}

func TestQueryOrdersByCosine(t *testing.T) {
	s := NewMemoryStore()
	seedChunks(t, s)

	got, err := s.Query(context.Background(), []float32{1, 0}, 3, "p1")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Query() returned %d chunks, want 3", len(got))
	}
	wantOrder := []string{"a#0", "a#1", "b#0"}
	for i, chunk := range got {
		if chunk.ID != wantOrder[i] {
			t.Errorf("result %d = %s, want %s", i, chunk.ID, wantOrder[i])
		}
	}
	if got[0].Score <= got[1].Score || got[1].Score <= got[2].Score {
		t.Errorf("scores not strictly decreasing: %v %v %v", got[0].Score, got[1].Score, got[2].Score)
	}
}

func TestQueryTopKLimit(t *testing.T) {
	s := NewMemoryStore()
	seedChunks(t, s)

	got, err := s.Query(context.Background(), []float32{1, 0}, 1, "p1")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "a#0" {
		t.Errorf("Query(topK=1) = %v", got)
	}
}

func TestQueryFiltersPersona(t *testing.T) {
	s := NewMemoryStore()
	seedChunks(t, s)

	got, err := s.Query(context.Background(), []float32{1, 0}, 10, "p2")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "c#0" {
		t.Errorf("Query(p2) = %v, want only c#0", got)
	}
}

func TestDeleteBySourceRemovesAllChunks(t *testing.T) {
	s := NewMemoryStore()
	seedChunks(t, s)

	if err := s.DeleteBySource(context.Background(), "a"); err != nil {
		t.Fatalf("DeleteBySource() error = %v", err)
	}
	got, err := s.Query(context.Background(), []float32{1, 0}, 10, "p1")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "b#0" {
		t.Errorf("after delete, Query(p1) = %v, want only b#0", got)
	}
}

func TestCosineSimilarityZeroGuard(t *testing.T) {
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Errorf("cosineSimilarity(zero vector) = %v, want 0", got)
	}
	if got := cosineSimilarity([]float32{1}, []float32{1, 0}); got != 0 {
		t.Errorf("cosineSimilarity(length mismatch) = %v, want 0", got)
	}
}
