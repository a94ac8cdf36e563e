package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppInfo holds basic application identity.
type AppInfo struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"` // "development" or "production"
}

// LoggerConfig controls the structured logger.
type LoggerConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// GeminiConfig holds credentials for a Google generative model.
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// OpenAIConfig holds credentials for an OpenAI-compatible model.
type OpenAIConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// OllamaConfig points at a local Ollama server.
type OllamaConfig struct {
	BaseURL string `yaml:"baseURL"`
	Model   string `yaml:"model"`
}

// LLMConfig selects and configures the chat-model provider.
type LLMConfig struct {
	Provider string       `yaml:"provider"` // "gemini" or "openai"
	Gemini   GeminiConfig `yaml:"gemini"`
	OpenAI   OpenAIConfig `yaml:"openai"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider string       `yaml:"provider"` // "gemini" or "ollama"
	Gemini   GeminiConfig `yaml:"gemini"`
	Ollama   OllamaConfig `yaml:"ollama"`
}

// ChunkingConfig bounds the knowledge chunker.
type ChunkingConfig struct {
	ChunkSize int `yaml:"chunkSize"`
	Overlap   int `yaml:"overlap"`
}

// ExtractionConfig bounds one profile-extraction run.
type ExtractionConfig struct {
	MaxCorpusChars int    `yaml:"maxCorpusChars"` // corpus truncation point fed to each stage
	StageTimeout   string `yaml:"stageTimeout"`   // e.g. "60s", per model call
}

// ChatConfig bounds one chat turn.
type ChatConfig struct {
	HistoryLimit  int    `yaml:"historyLimit"`  // most recent turns kept in the prompt
	RetrievalTopK int    `yaml:"retrievalTopK"` // knowledge chunks retrieved per turn
	Timeout       string `yaml:"timeout"`       // per generation call
	Preamble      string `yaml:"preamble"`      // optional static text prepended to every system prompt
	SessionTTL    string `yaml:"sessionTTL"`    // Redis retention for chat sessions
}

// MilvusConfig holds the vector-store connection and collection settings.
type MilvusConfig struct {
	Address    string `yaml:"address"`
	Collection string `yaml:"collection"`
	Dim        int    `yaml:"dim"` // embedding dimension of the collection
}

// MongoConfig holds the document-store connection settings.
type MongoConfig struct {
	Address  string `yaml:"address"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RedisConfig holds the session-cache connection settings.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaConfig holds the event-bus connection settings.
type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	ProgressTopic string   `yaml:"progressTopic"`
}

// DatabaseConfigs groups every backing store.
type DatabaseConfigs struct {
	Milvus MilvusConfig `yaml:"milvus"`
	Mongo  MongoConfig  `yaml:"mongodb"`
	Redis  RedisConfig  `yaml:"redis"`
	Kafka  KafkaConfig  `yaml:"kafka"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App        AppInfo          `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Logger     LoggerConfig     `yaml:"logger"`
	LLM        LLMConfig        `yaml:"llm"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Chat       ChatConfig       `yaml:"chat"`
	Databases  DatabaseConfigs  `yaml:"databases"`
}

// Defaults applied when the corresponding YAML keys are absent. The chunking
// and extraction numbers are the tuned values the rest of the system was
// validated against; changing them changes chunk identity.
const (
	DefaultChunkSize      = 1000
	DefaultOverlap        = 200
	DefaultMaxCorpusChars = 8000
	DefaultHistoryLimit   = 10
	DefaultRetrievalTopK  = 5
	DefaultStageTimeout   = 60 * time.Second
	DefaultChatTimeout    = 60 * time.Second
)

// LoadConfig reads and parses the YAML configuration file at path, filling in
// defaults for absent tunables.
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Chunking.ChunkSize <= 0 {
		c.Chunking.ChunkSize = DefaultChunkSize
	}
	if c.Chunking.Overlap < 0 {
		c.Chunking.Overlap = DefaultOverlap
	}
	if c.Extraction.MaxCorpusChars <= 0 {
		c.Extraction.MaxCorpusChars = DefaultMaxCorpusChars
	}
	if c.Chat.HistoryLimit <= 0 {
		c.Chat.HistoryLimit = DefaultHistoryLimit
	}
	if c.Chat.RetrievalTopK <= 0 {
		c.Chat.RetrievalTopK = DefaultRetrievalTopK
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
}

// StageTimeoutDuration parses the configured per-stage timeout, falling back
// to the default when unset or malformed.
func (c *ExtractionConfig) StageTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.StageTimeout)
	if err != nil || d <= 0 {
		return DefaultStageTimeout
	}
	return d
}

// TimeoutDuration parses the configured chat-turn timeout, falling back to
// the default when unset or malformed.
func (c *ChatConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultChatTimeout
	}
	return d
}

// SessionTTLDuration parses the configured session retention; zero means keep
// sessions until explicitly deleted.
func (c *ChatConfig) SessionTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
