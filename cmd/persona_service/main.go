package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matrooslabs/shadow-world/internal/chat"
	"github.com/matrooslabs/shadow-world/internal/config"
	"github.com/matrooslabs/shadow-world/internal/database/kafka"
	"github.com/matrooslabs/shadow-world/internal/database/milvus"
	"github.com/matrooslabs/shadow-world/internal/database/mongo"
	"github.com/matrooslabs/shadow-world/internal/database/redis"
	"github.com/matrooslabs/shadow-world/internal/embedding"
	"github.com/matrooslabs/shadow-world/internal/extraction"
	"github.com/matrooslabs/shadow-world/internal/knowledge"
	"github.com/matrooslabs/shadow-world/internal/knowledge/loaders"
	"github.com/matrooslabs/shadow-world/internal/knowledge/vectorstore"
	"github.com/matrooslabs/shadow-world/internal/llm"
	"github.com/matrooslabs/shadow-world/internal/persona_service/api"
	"github.com/matrooslabs/shadow-world/internal/persona_service/service"
	"github.com/matrooslabs/shadow-world/internal/persona_service/store"
	"github.com/matrooslabs/shadow-world/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	serviceLogger := logger.New("PersonaService", "")

	ctx := context.Background()

	// Backing stores. Every client is constructed and closed here; nothing is
	// reached through package-level state.
	mongoClient, err := mongo.Connect(ctx, &cfg.Databases.Mongo)
	if err != nil {
		serviceLogger.Fatal("Failed to connect to MongoDB: " + err.Error())
	}
	db := mongoClient.Database(cfg.Databases.Mongo.Database)
	serviceLogger.Info("Connected to MongoDB")

	redisClient, err := redis.Connect(ctx, &cfg.Databases.Redis)
	if err != nil {
		serviceLogger.Fatal("Failed to connect to Redis: " + err.Error())
	}
	serviceLogger.Info("Connected to Redis")

	milvusClient, err := milvus.NewClient(ctx, &cfg.Databases.Milvus)
	if err != nil {
		serviceLogger.Fatal("Failed to connect to Milvus: " + err.Error())
	}
	serviceLogger.Info("Connected to Milvus")

	var progressPublisher *kafka.ProgressPublisher
	if len(cfg.Databases.Kafka.Brokers) > 0 {
		progressPublisher, err = kafka.NewProgressPublisher(&cfg.Databases.Kafka)
		if err != nil {
			serviceLogger.Fatal("Failed to create Kafka publisher: " + err.Error())
		}
		serviceLogger.Info("Kafka progress publisher ready")
	} else {
		serviceLogger.Warn("No Kafka brokers configured, progress events disabled")
	}

	// Model clients.
	chatModel, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		serviceLogger.Fatal("Failed to create chat model client: " + err.Error())
	}
	embedder, err := embedding.NewClient(ctx, cfg.Embedding)
	if err != nil {
		serviceLogger.Fatal("Failed to create embedding client: " + err.Error())
	}

	// Core components.
	milvusStore, err := vectorstore.NewMilvusStore(milvusClient, serviceLogger)
	if err != nil {
		serviceLogger.Fatal("Failed to create vector store: " + err.Error())
	}
	chunker := knowledge.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap)
	index := knowledge.NewIndex(chunker, embedder, milvusStore, serviceLogger)
	pipeline := extraction.NewPipeline(chatModel, cfg.Extraction, serviceLogger)
	responder := chat.NewResponder(chatModel, index, cfg.Chat, serviceLogger)
	webLoader := loaders.NewWebLoader(nil)

	personaStore := store.NewPersonaStore(db)
	knowledgeStore := store.NewKnowledgeStore(db)
	sessionStore := store.NewSessionStore(redisClient, cfg.Chat.SessionTTLDuration())

	personaService := service.NewPersonaService(
		personaStore,
		knowledgeStore,
		sessionStore,
		pipeline,
		index,
		responder,
		webLoader,
		progressPublisher,
		serviceLogger,
	)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	apiHandler := api.NewAPI(personaService, serviceLogger)
	api.RegisterRoutes(router, apiHandler)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		serviceLogger.Info("Starting HTTP server on " + srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serviceLogger.Fatal("HTTP server failed to start: " + err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	serviceLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		serviceLogger.Error("Server forced to shutdown: " + err.Error())
	}

	if progressPublisher != nil {
		if err := progressPublisher.Close(); err != nil {
			serviceLogger.Error("Error closing Kafka publisher: " + err.Error())
		}
	}
	if closer, ok := chatModel.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			serviceLogger.Error("Error closing chat model client: " + err.Error())
		}
	}
	if closer, ok := embedder.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			serviceLogger.Error("Error closing embedding client: " + err.Error())
		}
	}
	milvusClient.Close()
	if err := redisClient.Close(); err != nil {
		serviceLogger.Error("Error closing Redis client: " + err.Error())
	}
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		serviceLogger.Error("Error disconnecting from MongoDB: " + err.Error())
	}

	serviceLogger.Info("Server gracefully stopped")
}
