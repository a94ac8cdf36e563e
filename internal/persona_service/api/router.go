package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all the routes for the persona service.
func RegisterRoutes(router *gin.Engine, api *API) {
	v1 := router.Group("/api/v1")

	personas := v1.Group("/personas")
	{
		personas.POST("", api.CreatePersonaHandler)
		personas.GET("", api.ListPersonasHandler)
		personas.GET("/:id", api.GetPersonaHandler)
		personas.POST("/:id/extract", api.ExtractHandler)
		personas.GET("/:id/status", api.StatusHandler)

		personas.POST("/:id/knowledge", api.AddKnowledgeHandler)
		personas.GET("/:id/knowledge", api.ListKnowledgeHandler)
		personas.DELETE("/:id/knowledge/:entry_id", api.DeleteKnowledgeHandler)

		personas.POST("/:id/chat", api.ChatHandler)
		personas.GET("/:id/chat/history", api.ChatHistoryHandler)
	}
}
