package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matrooslabs/shadow-world/internal/models"
	"github.com/matrooslabs/shadow-world/internal/persona_service/service"
	"github.com/matrooslabs/shadow-world/internal/persona_service/store"
	"github.com/matrooslabs/shadow-world/pkg/logger"
)

// API provides HTTP handlers for the persona service.
type API struct {
	service *service.PersonaService
	logger  *logger.Logger
}

// NewAPI creates a new API handler.
func NewAPI(service *service.PersonaService, logger *logger.Logger) *API {
	return &API{service: service, logger: logger}
}

// CreatePersonaHandler registers a new persona.
func (a *API) CreatePersonaHandler(c *gin.Context) {
	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	persona, err := a.service.CreatePersona(c.Request.Context(), payload.DisplayName)
	if err != nil {
		a.logger.Warn("failed to create persona: " + err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, persona)
}

// ListPersonasHandler returns all personas.
func (a *API) ListPersonasHandler(c *gin.Context) {
	personas, err := a.service.ListPersonas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list personas"})
		return
	}
	c.JSON(http.StatusOK, personas)
}

// GetPersonaHandler returns a single persona by ID.
func (a *API) GetPersonaHandler(c *gin.Context) {
	persona, err := a.service.GetPersona(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Failed to retrieve persona")
		return
	}
	c.JSON(http.StatusOK, persona)
}

// ExtractHandler starts a profile extraction run from submitted raw content.
func (a *API) ExtractHandler(c *gin.Context) {
	var payload models.RawContent
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	personaID := c.Param("id")
	if err := a.service.StartExtraction(c.Request.Context(), personaID, &payload); err != nil {
		if errors.Is(err, service.ErrExtractionInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		a.respondError(c, err, "Failed to start extraction")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"persona_id": personaID, "status": models.PersonaStatusExtracting})
}

// StatusHandler reports the extraction state of a persona.
func (a *API) StatusHandler(c *gin.Context) {
	persona, err := a.service.GetPersona(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Failed to retrieve persona")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"persona_id": persona.ID,
		"status":     persona.Status,
		"progress":   persona.ExtractionProgress,
		"error":      persona.ExtractionError,
	})
}

// AddKnowledgeHandler adds a text or URL source to a persona's knowledge base.
func (a *API) AddKnowledgeHandler(c *gin.Context) {
	var payload struct {
		SourceType models.KnowledgeSourceType `json:"source_type"`
		Content    string                     `json:"content"`
		Title      string                     `json:"title"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	entry, err := a.service.AddKnowledge(c.Request.Context(), c.Param("id"), payload.SourceType, payload.Content, payload.Title)
	if err != nil {
		if errors.Is(err, service.ErrEmptyContent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a.respondError(c, err, "Failed to add knowledge")
		return
	}

	c.JSON(http.StatusAccepted, entry)
}

// ListKnowledgeHandler returns a persona's knowledge entries.
func (a *API) ListKnowledgeHandler(c *gin.Context) {
	entries, err := a.service.ListKnowledge(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Failed to list knowledge")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DeleteKnowledgeHandler removes a knowledge entry and its chunks.
func (a *API) DeleteKnowledgeHandler(c *gin.Context) {
	err := a.service.DeleteKnowledge(c.Request.Context(), c.Param("id"), c.Param("entry_id"))
	if err != nil {
		a.respondError(c, err, "Failed to delete knowledge")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ChatHandler runs one conversation turn with a persona.
func (a *API) ChatHandler(c *gin.Context) {
	var payload struct {
		VisitorID string `json:"visitor_id"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if payload.VisitorID == "" {
		payload.VisitorID = "anonymous"
	}

	reply, err := a.service.Chat(c.Request.Context(), c.Param("id"), payload.VisitorID, payload.Message)
	if err != nil {
		if errors.Is(err, service.ErrPersonaNotReady) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		a.respondError(c, err, "Failed to generate reply")
		return
	}

	c.JSON(http.StatusOK, reply)
}

// ChatHistoryHandler returns the chat history for a persona and visitor.
func (a *API) ChatHistoryHandler(c *gin.Context) {
	visitorID := c.DefaultQuery("visitor_id", "anonymous")
	history, err := a.service.ChatHistory(c.Request.Context(), c.Param("id"), visitorID)
	if err != nil {
		a.respondError(c, err, "Failed to load chat history")
		return
	}
	c.JSON(http.StatusOK, history)
}

func (a *API) respondError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Persona or entry not found"})
		return
	}
	a.logger.Error(fallback + ": " + err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
