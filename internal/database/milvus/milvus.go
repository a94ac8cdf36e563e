package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/matrooslabs/shadow-world/internal/config"
)

// Collection field names for the knowledge-chunk collection. The filterable
// metadata lives in scalar columns next to the vector so one shared
// collection can serve every persona.
const (
	FieldID         = "id"
	FieldPersonaID  = "persona_id"
	FieldSourceID   = "source_id"
	FieldChunkIndex = "chunk_index"
	FieldText       = "text"
	FieldEmbedding  = "embedding"
)

// Client wraps the Milvus SDK client together with the collection settings.
// It is constructed explicitly at startup and closed at shutdown; nothing in
// the codebase reaches for a process-wide instance.
type Client struct {
	Client client.Client
	Config *config.MilvusConfig
}

// NewClient connects to Milvus, ensures the knowledge-chunk collection and
// its index exist, and loads the collection for querying.
func NewClient(ctx context.Context, cfg *config.MilvusConfig) (*Client, error) {
	c, err := client.NewClient(ctx, client.Config{Address: cfg.Address})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Milvus at %s: %w", cfg.Address, err)
	}

	mc := &Client{Client: c, Config: cfg}
	if err := mc.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return mc, nil
}

// ensureCollection creates the chunk collection and vector index when absent,
// then loads the collection into memory.
func (c *Client) ensureCollection(ctx context.Context) error {
	name := c.Config.Collection

	has, err := c.Client.HasCollection(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection '%s': %w", name, err)
	}

	if !has {
		collSchema := entity.NewSchema().
			WithName(name).
			WithDescription("persona knowledge chunks").
			WithField(entity.NewField().WithName(FieldID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(256).WithIsPrimaryKey(true)).
			WithField(entity.NewField().WithName(FieldPersonaID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(128)).
			WithField(entity.NewField().WithName(FieldSourceID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(128)).
			WithField(entity.NewField().WithName(FieldChunkIndex).WithDataType(entity.FieldTypeInt64)).
			WithField(entity.NewField().WithName(FieldText).WithDataType(entity.FieldTypeVarChar).WithMaxLength(65535)).
			WithField(entity.NewField().WithName(FieldEmbedding).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(c.Config.Dim)))

		if err := c.Client.CreateCollection(ctx, collSchema, 1); err != nil {
			return fmt.Errorf("failed to create collection '%s': %w", name, err)
		}

		idx, err := entity.NewIndexIvfFlat(entity.COSINE, 128)
		if err != nil {
			return fmt.Errorf("failed to build index definition: %w", err)
		}
		if err := c.Client.CreateIndex(ctx, name, FieldEmbedding, idx, false); err != nil {
			return fmt.Errorf("failed to create index on '%s': %w", name, err)
		}
	}

	if err := c.Client.LoadCollection(ctx, name, false); err != nil {
		return fmt.Errorf("failed to load collection '%s': %w", name, err)
	}
	return nil
}

// HealthCheck verifies the connection is alive.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.Client == nil {
		return fmt.Errorf("milvus client is not initialized")
	}
	if _, err := c.Client.ListCollections(ctx); err != nil {
		return fmt.Errorf("milvus health check failed: %w", err)
	}
	return nil
}

// Close releases the connection.
func (c *Client) Close() {
	if c.Client != nil {
		c.Client.Close()
	}
}
