package models

import "time"

// MessageRole identifies which side of the conversation produced a message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one turn of a persona conversation.
type ChatMessage struct {
	ID        string      `json:"id,omitempty"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
}

// ExtractionProgressEvent is published to Kafka as a pipeline run advances so
// other services can observe extraction without polling the persona store.
type ExtractionProgressEvent struct {
	PersonaID string    `json:"persona_id"`
	Stage     string    `json:"stage"`
	Progress  int       `json:"progress"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}
