package models

import "time"

// PersonaStatus represents the lifecycle state of a persona.
type PersonaStatus string

const (
	PersonaStatusPending    PersonaStatus = "pending"
	PersonaStatusExtracting PersonaStatus = "extracting"
	PersonaStatusReady      PersonaStatus = "ready"
	PersonaStatusFailed     PersonaStatus = "failed"
)

// PersonalityProfile is the structured output of one extraction pipeline run.
// Every field has a zero default so the profile is always renderable even when
// extraction only partially succeeded. A profile is never mutated; re-running
// the pipeline produces a new one that supersedes the old.
type PersonalityProfile struct {
	Traits             []string `bson:"traits" json:"traits"`
	Interests          []string `bson:"interests" json:"interests"`
	CommunicationStyle string   `bson:"communication_style" json:"communication_style"`
	Values             []string `bson:"values" json:"values"`
	SampleExpressions  []string `bson:"sample_expressions" json:"sample_expressions"`
	Summary            string   `bson:"summary" json:"summary"`
}

// Persona is a cloned personality: the owner of one profile and one
// knowledge-base namespace.
type Persona struct {
	ID                 string              `bson:"_id" json:"id"`
	DisplayName        string              `bson:"display_name" json:"display_name"`
	Status             PersonaStatus       `bson:"status" json:"status"`
	Profile            *PersonalityProfile `bson:"profile,omitempty" json:"profile,omitempty"`
	ExtractionProgress int                 `bson:"extraction_progress" json:"extraction_progress"`
	ExtractionError    string              `bson:"extraction_error,omitempty" json:"extraction_error,omitempty"`
	CreatedAt          time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time           `bson:"updated_at" json:"updated_at"`
}
