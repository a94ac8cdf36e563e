package vectorstore

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/matrooslabs/shadow-world/internal/database/milvus"
	"github.com/matrooslabs/shadow-world/internal/knowledge/schema"
	"github.com/matrooslabs/shadow-world/pkg/logger"
)

// MilvusStore is the production VectorStore, backed by a shared Milvus
// collection. Persona isolation rides on a filter expression over the
// persona_id scalar column, applied to every search.
type MilvusStore struct {
	log        *logger.Logger
	client     client.Client
	collection string
}

// NewMilvusStore creates a MilvusStore over an already-connected client.
func NewMilvusStore(milvusClient *milvus.Client, log *logger.Logger) (*MilvusStore, error) {
	if milvusClient == nil || milvusClient.Client == nil {
		return nil, fmt.Errorf("milvus client is not initialized")
	}
	return &MilvusStore{
		log:        log,
		client:     milvusClient.Client,
		collection: milvusClient.Config.Collection,
	}, nil
}

// Add inserts chunks as one batch, column per field.
func (s *MilvusStore) Add(ctx context.Context, chunks []*schema.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	personaIDs := make([]string, len(chunks))
	sourceIDs := make([]string, len(chunks))
	chunkIndexes := make([]int64, len(chunks))
	texts := make([]string, len(chunks))
	embeddings := make([][]float32, len(chunks))

	dim := 0
	for i, chunk := range chunks {
		ids[i] = chunk.ID
		personaIDs[i] = chunk.PersonaID
		sourceIDs[i] = chunk.SourceID
		chunkIndexes[i] = int64(chunk.ChunkIndex)
		texts[i] = chunk.Text
		embeddings[i] = chunk.Embedding
		if len(chunk.Embedding) > dim {
			dim = len(chunk.Embedding)
		}
	}

	s.log.Info(fmt.Sprintf("Inserting %d chunks into Milvus collection: %s", len(chunks), s.collection))
	_, err := s.client.Insert(ctx, s.collection, "", /* default partition */
		entity.NewColumnVarChar(milvus.FieldID, ids),
		entity.NewColumnVarChar(milvus.FieldPersonaID, personaIDs),
		entity.NewColumnVarChar(milvus.FieldSourceID, sourceIDs),
		entity.NewColumnInt64(milvus.FieldChunkIndex, chunkIndexes),
		entity.NewColumnVarChar(milvus.FieldText, texts),
		entity.NewColumnFloatVector(milvus.FieldEmbedding, dim, embeddings),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunks into Milvus: %w", err)
	}
	return nil
}

// Query performs a vector search filtered to the given persona.
func (s *MilvusStore) Query(ctx context.Context, embedding []float32, topK int, personaID string) ([]*schema.Chunk, error) {
	filterExpr := fmt.Sprintf(`%s == "%s"`, milvus.FieldPersonaID, personaID)
	outputFields := []string{milvus.FieldID, milvus.FieldPersonaID, milvus.FieldSourceID, milvus.FieldChunkIndex, milvus.FieldText}

	searchParams, _ := entity.NewIndexIvfFlatSearchParam(10)

	searchResults, err := s.client.Search(
		ctx, s.collection, []string{}, filterExpr, outputFields,
		[]entity.Vector{entity.FloatVector(embedding)},
		milvus.FieldEmbedding, entity.COSINE, topK, searchParams,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search in Milvus: %w", err)
	}

	var results []*schema.Chunk
	for _, res := range searchResults {
		idData := varCharData(res.Fields, milvus.FieldID)
		personaData := varCharData(res.Fields, milvus.FieldPersonaID)
		sourceData := varCharData(res.Fields, milvus.FieldSourceID)
		textData := varCharData(res.Fields, milvus.FieldText)
		indexData := int64Data(res.Fields, milvus.FieldChunkIndex)

		if idData == nil {
			s.log.Warn("Search result is missing the id column, skipping.")
			continue
		}

		for i := 0; i < res.ResultCount; i++ {
			chunk := &schema.Chunk{ID: idData[i], Score: res.Scores[i]}
			if personaData != nil {
				chunk.PersonaID = personaData[i]
			}
			if sourceData != nil {
				chunk.SourceID = sourceData[i]
			}
			if textData != nil {
				chunk.Text = textData[i]
			}
			if indexData != nil {
				chunk.ChunkIndex = int(indexData[i])
			}
			results = append(results, chunk)
		}
	}
	return results, nil
}

// DeleteBySource removes every chunk of the source document via a filter
// expression delete.
func (s *MilvusStore) DeleteBySource(ctx context.Context, sourceID string) error {
	expr := fmt.Sprintf(`%s == "%s"`, milvus.FieldSourceID, sourceID)
	if err := s.client.Delete(ctx, s.collection, "", expr); err != nil {
		return fmt.Errorf("failed to delete chunks for source %s: %w", sourceID, err)
	}
	return nil
}

func varCharData(fields []entity.Column, name string) []string {
	for _, field := range fields {
		if field.Name() == name {
			if col, ok := field.(*entity.ColumnVarChar); ok {
				return col.Data()
			}
		}
	}
	return nil
}

func int64Data(fields []entity.Column, name string) []int64 {
	for _, field := range fields {
		if field.Name() == name {
			if col, ok := field.(*entity.ColumnInt64); ok {
				return col.Data()
			}
		}
	}
	return nil
}

var _ VectorStore = (*MilvusStore)(nil)
