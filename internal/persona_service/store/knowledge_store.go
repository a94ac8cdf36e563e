package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matrooslabs/shadow-world/internal/models"
)

// KnowledgeStore persists knowledge entry metadata in MongoDB. The chunk
// vectors themselves live in the vector store; this collection tracks the
// source entries and their ingestion state.
type KnowledgeStore struct {
	collection *mongo.Collection
}

// NewKnowledgeStore creates a KnowledgeStore over the given database.
func NewKnowledgeStore(db *mongo.Database) *KnowledgeStore {
	return &KnowledgeStore{collection: db.Collection("knowledge_entries")}
}

// Create inserts a new knowledge entry record.
func (s *KnowledgeStore) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	_, err := s.collection.InsertOne(ctx, entry)
	return err
}

// GetByID retrieves an entry scoped to a persona.
func (s *KnowledgeStore) GetByID(ctx context.Context, personaID, id string) (*models.KnowledgeEntry, error) {
	var entry models.KnowledgeEntry
	err := s.collection.FindOne(ctx, bson.M{"_id": id, "persona_id": personaID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ListByPersona returns all entries for a persona, newest first.
func (s *KnowledgeStore) ListByPersona(ctx context.Context, personaID string) ([]*models.KnowledgeEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"persona_id": personaID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.KnowledgeEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetStatus records the outcome of an ingestion run for an entry.
func (s *KnowledgeStore) SetStatus(ctx context.Context, id string, status models.KnowledgeStatus, chunkCount int, errMsg string) error {
	update := bson.M{"$set": bson.M{
		"status":      status,
		"chunk_count": chunkCount,
		"error":       errMsg,
		"updated_at":  time.Now().UTC(),
	}}
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry scoped to a persona.
func (s *KnowledgeStore) Delete(ctx context.Context, personaID, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id, "persona_id": personaID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
