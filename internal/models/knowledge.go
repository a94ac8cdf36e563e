package models

import "time"

// KnowledgeSourceType tells the ingestion path how to interpret the content
// field of an add-knowledge request.
type KnowledgeSourceType string

const (
	KnowledgeSourceText KnowledgeSourceType = "text"
	KnowledgeSourceURL  KnowledgeSourceType = "url"
)

// KnowledgeStatus represents the ingestion state of a knowledge entry.
type KnowledgeStatus string

const (
	KnowledgeStatusProcessing KnowledgeStatus = "processing"
	KnowledgeStatusReady      KnowledgeStatus = "ready"
	KnowledgeStatusFailed     KnowledgeStatus = "failed"
)

// KnowledgeEntry is one source document added to a persona's knowledge base.
// Its ID doubles as the sourceID scoping the chunks in the vector store, so
// deleting an entry deletes exactly its chunks.
type KnowledgeEntry struct {
	ID         string              `bson:"_id" json:"id"`
	PersonaID  string              `bson:"persona_id" json:"persona_id"`
	SourceType KnowledgeSourceType `bson:"source_type" json:"source_type"`
	SourceURL  string              `bson:"source_url,omitempty" json:"source_url,omitempty"`
	Title      string              `bson:"title,omitempty" json:"title,omitempty"`
	ChunkCount int                 `bson:"chunk_count" json:"chunk_count"`
	Status     KnowledgeStatus     `bson:"status" json:"status"`
	Error      string              `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`
}
