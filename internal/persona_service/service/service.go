package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matrooslabs/shadow-world/internal/chat"
	"github.com/matrooslabs/shadow-world/internal/database/kafka"
	"github.com/matrooslabs/shadow-world/internal/extraction"
	"github.com/matrooslabs/shadow-world/internal/knowledge"
	"github.com/matrooslabs/shadow-world/internal/knowledge/loaders"
	"github.com/matrooslabs/shadow-world/internal/models"
	"github.com/matrooslabs/shadow-world/internal/persona_service/store"
	"github.com/matrooslabs/shadow-world/pkg/logger"
)

var (
	// ErrExtractionInProgress is returned when an extraction is requested for
	// a persona that already has one running.
	ErrExtractionInProgress = errors.New("extraction already in progress")
	// ErrPersonaNotReady is returned when chat is requested before a persona
	// has a profile.
	ErrPersonaNotReady = errors.New("persona has no extracted profile yet")
	// ErrEmptyContent is returned when an add-knowledge request carries no
	// usable content.
	ErrEmptyContent = errors.New("knowledge content is empty")
)

// PersonaService orchestrates the persona lifecycle: creation, profile
// extraction, knowledge ingestion, and chat.
type PersonaService struct {
	log       *logger.Logger
	personas  *store.PersonaStore
	entries   *store.KnowledgeStore
	sessions  *store.SessionStore
	pipeline  *extraction.Pipeline
	index     *knowledge.Index
	responder *chat.Responder
	webLoader *loaders.WebLoader
	progress  *kafka.ProgressPublisher
}

// NewPersonaService wires the service from its dependencies. progress may be
// nil, in which case extraction events are only written to the persona store.
func NewPersonaService(
	personas *store.PersonaStore,
	entries *store.KnowledgeStore,
	sessions *store.SessionStore,
	pipeline *extraction.Pipeline,
	index *knowledge.Index,
	responder *chat.Responder,
	webLoader *loaders.WebLoader,
	progress *kafka.ProgressPublisher,
	log *logger.Logger,
) *PersonaService {
	return &PersonaService{
		log:       log,
		personas:  personas,
		entries:   entries,
		sessions:  sessions,
		pipeline:  pipeline,
		index:     index,
		responder: responder,
		webLoader: webLoader,
		progress:  progress,
	}
}

// CreatePersona registers a new persona in the pending state.
func (s *PersonaService) CreatePersona(ctx context.Context, displayName string) (*models.Persona, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, errors.New("display name is required")
	}
	persona := &models.Persona{
		ID:          uuid.New().String(),
		DisplayName: displayName,
		Status:      models.PersonaStatusPending,
	}
	if err := s.personas.Create(ctx, persona); err != nil {
		return nil, fmt.Errorf("create persona: %w", err)
	}
	s.log.WithPersona(persona.ID).Info("persona created")
	return persona, nil
}

// GetPersona returns a persona by ID.
func (s *PersonaService) GetPersona(ctx context.Context, id string) (*models.Persona, error) {
	return s.personas.GetByID(ctx, id)
}

// ListPersonas returns all personas.
func (s *PersonaService) ListPersonas(ctx context.Context) ([]*models.Persona, error) {
	return s.personas.List(ctx)
}

// StartExtraction kicks off a profile extraction run in the background and
// returns immediately. Progress is observable through GetPersona and, when a
// publisher is configured, through Kafka events.
func (s *PersonaService) StartExtraction(ctx context.Context, personaID string, content *models.RawContent) error {
	persona, err := s.personas.GetByID(ctx, personaID)
	if err != nil {
		return err
	}
	if persona.Status == models.PersonaStatusExtracting {
		return ErrExtractionInProgress
	}
	if err := s.personas.SetExtractionState(ctx, personaID, models.PersonaStatusExtracting, 0, ""); err != nil {
		return fmt.Errorf("mark persona extracting: %w", err)
	}

	go s.runExtraction(context.Background(), personaID, content)
	return nil
}

func (s *PersonaService) runExtraction(ctx context.Context, personaID string, content *models.RawContent) {
	log := s.log.WithPersona(personaID)

	onProgress := func(stage string, progress int) {
		if err := s.personas.SetExtractionState(ctx, personaID, models.PersonaStatusExtracting, progress, ""); err != nil {
			log.WithField("stage", stage).Warn("failed to record extraction progress: " + err.Error())
		}
		s.publishProgress(ctx, &models.ExtractionProgressEvent{
			PersonaID: personaID,
			Stage:     stage,
			Progress:  progress,
			At:        time.Now().UTC(),
		})
	}

	profile, err := s.pipeline.Run(ctx, content, onProgress)
	if err != nil {
		log.Error("extraction failed: " + err.Error())
		if storeErr := s.personas.SetExtractionState(ctx, personaID, models.PersonaStatusFailed, 0, err.Error()); storeErr != nil {
			log.Error("failed to record extraction failure: " + storeErr.Error())
		}
		s.publishProgress(ctx, &models.ExtractionProgressEvent{
			PersonaID: personaID,
			Stage:     "failed",
			Error:     err.Error(),
			At:        time.Now().UTC(),
		})
		return
	}

	if err := s.personas.SetProfile(ctx, personaID, profile); err != nil {
		log.Error("failed to store extracted profile: " + err.Error())
		return
	}
	log.Info("extraction complete")
	s.publishProgress(ctx, &models.ExtractionProgressEvent{
		PersonaID: personaID,
		Stage:     "complete",
		Progress:  100,
		At:        time.Now().UTC(),
	})
}

// publishProgress sends an event to Kafka on a best-effort basis. A broker
// failure must never fail an extraction run.
func (s *PersonaService) publishProgress(ctx context.Context, event *models.ExtractionProgressEvent) {
	if s.progress == nil {
		return
	}
	if err := s.progress.Publish(ctx, event); err != nil {
		s.log.WithPersona(event.PersonaID).Warn("failed to publish progress event: " + err.Error())
	}
}

// AddKnowledge registers a knowledge entry and ingests it into the vector
// store in the background. URL sources are fetched and stripped to text first.
func (s *PersonaService) AddKnowledge(ctx context.Context, personaID string, sourceType models.KnowledgeSourceType, content, title string) (*models.KnowledgeEntry, error) {
	if _, err := s.personas.GetByID(ctx, personaID); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	switch sourceType {
	case models.KnowledgeSourceText, models.KnowledgeSourceURL:
	default:
		return nil, fmt.Errorf("unsupported source type %q", sourceType)
	}

	entry := &models.KnowledgeEntry{
		ID:         uuid.New().String(),
		PersonaID:  personaID,
		SourceType: sourceType,
		Title:      title,
		Status:     models.KnowledgeStatusProcessing,
	}
	if sourceType == models.KnowledgeSourceURL {
		entry.SourceURL = content
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create knowledge entry: %w", err)
	}

	go s.ingestKnowledge(context.Background(), entry, content)
	return entry, nil
}

func (s *PersonaService) ingestKnowledge(ctx context.Context, entry *models.KnowledgeEntry, content string) {
	log := s.log.WithPersona(entry.PersonaID).WithField("entry_id", entry.ID)

	text := content
	if entry.SourceType == models.KnowledgeSourceURL {
		loaded, err := s.webLoader.Load(ctx, content)
		if err != nil {
			log.Error("failed to load url source: " + err.Error())
			s.failEntry(ctx, entry.ID, err)
			return
		}
		text = loaded
	}

	count, err := s.index.Ingest(ctx, entry.PersonaID, entry.ID, text)
	if err != nil {
		log.Error("knowledge ingestion failed: " + err.Error())
		s.failEntry(ctx, entry.ID, err)
		return
	}
	if err := s.entries.SetStatus(ctx, entry.ID, models.KnowledgeStatusReady, count, ""); err != nil {
		log.Error("failed to record ingestion result: " + err.Error())
		return
	}
	log.WithField("chunks", count).Info("knowledge entry ingested")
}

func (s *PersonaService) failEntry(ctx context.Context, entryID string, cause error) {
	if err := s.entries.SetStatus(ctx, entryID, models.KnowledgeStatusFailed, 0, cause.Error()); err != nil {
		s.log.WithField("entry_id", entryID).Error("failed to record ingestion failure: " + err.Error())
	}
}

// ListKnowledge returns all knowledge entries for a persona.
func (s *PersonaService) ListKnowledge(ctx context.Context, personaID string) ([]*models.KnowledgeEntry, error) {
	if _, err := s.personas.GetByID(ctx, personaID); err != nil {
		return nil, err
	}
	return s.entries.ListByPersona(ctx, personaID)
}

// DeleteKnowledge removes a knowledge entry and every chunk it contributed to
// the vector store.
func (s *PersonaService) DeleteKnowledge(ctx context.Context, personaID, entryID string) error {
	entry, err := s.entries.GetByID(ctx, personaID, entryID)
	if err != nil {
		return err
	}
	if err := s.index.Delete(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete knowledge chunks: %w", err)
	}
	return s.entries.Delete(ctx, personaID, entryID)
}

// Chat runs one conversation turn with a persona on behalf of a visitor. Both
// the visitor's message and the persona's reply are appended to the session.
func (s *PersonaService) Chat(ctx context.Context, personaID, visitorID, message string) (*models.ChatMessage, error) {
	persona, err := s.personas.GetByID(ctx, personaID)
	if err != nil {
		return nil, err
	}
	if persona.Profile == nil {
		return nil, ErrPersonaNotReady
	}

	history, err := s.sessions.History(ctx, personaID, visitorID)
	if err != nil {
		return nil, err
	}

	reply, err := s.responder.Respond(ctx, personaID, persona.DisplayName, persona.Profile, history, message)
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	now := time.Now().UTC()
	userMsg := models.ChatMessage{ID: uuid.New().String(), Role: models.RoleUser, Content: message, CreatedAt: now}
	assistantMsg := models.ChatMessage{ID: uuid.New().String(), Role: models.RoleAssistant, Content: reply, CreatedAt: time.Now().UTC()}
	if err := s.sessions.Append(ctx, personaID, visitorID, userMsg); err != nil {
		return nil, err
	}
	if err := s.sessions.Append(ctx, personaID, visitorID, assistantMsg); err != nil {
		return nil, err
	}
	return &assistantMsg, nil
}

// ChatHistory returns the session history for a persona and visitor.
func (s *PersonaService) ChatHistory(ctx context.Context, personaID, visitorID string) ([]models.ChatMessage, error) {
	if _, err := s.personas.GetByID(ctx, personaID); err != nil {
		return nil, err
	}
	return s.sessions.History(ctx, personaID, visitorID)
}
