package schema

// Chunk is the unit of storage and retrieval in a persona's knowledge base:
// one bounded-length segment of a source document together with its vector.
// Chunks are immutable once created; a source document is re-ingested by
// deleting its chunks and ingesting again.
type Chunk struct {
	// ID is unique per chunk, derived from the source document id and the
	// chunk's zero-based position within it.
	ID string

	// PersonaID scopes the chunk to one persona; every query filters on it.
	PersonaID string

	// SourceID identifies the originating document; deletion is by source.
	SourceID string

	// ChunkIndex is the chunk's zero-based position within the source.
	ChunkIndex int

	// Text is the chunk content.
	Text string

	// Embedding is the vector representation of Text.
	Embedding []float32

	// Score is the similarity to the query vector, set on query results only.
	Score float32
}
