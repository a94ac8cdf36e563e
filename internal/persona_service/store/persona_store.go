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

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// PersonaStore persists personas and their extraction lifecycle in MongoDB.
type PersonaStore struct {
	collection *mongo.Collection
}

// NewPersonaStore creates a PersonaStore over the given database.
func NewPersonaStore(db *mongo.Database) *PersonaStore {
	return &PersonaStore{collection: db.Collection("personas")}
}

// Create inserts a new persona record.
func (s *PersonaStore) Create(ctx context.Context, persona *models.Persona) error {
	now := time.Now().UTC()
	persona.CreatedAt = now
	persona.UpdatedAt = now
	_, err := s.collection.InsertOne(ctx, persona)
	return err
}

// GetByID retrieves a persona by its ID.
func (s *PersonaStore) GetByID(ctx context.Context, id string) (*models.Persona, error) {
	var persona models.Persona
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&persona)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &persona, nil
}

// List returns all personas, newest first.
func (s *PersonaStore) List(ctx context.Context) ([]*models.Persona, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var personas []*models.Persona
	if err := cursor.All(ctx, &personas); err != nil {
		return nil, err
	}
	return personas, nil
}

// SetExtractionState updates the persona's status, progress, and error
// message as a pipeline run advances or terminates.
func (s *PersonaStore) SetExtractionState(ctx context.Context, id string, status models.PersonaStatus, progress int, errMsg string) error {
	update := bson.M{"$set": bson.M{
		"status":              status,
		"extraction_progress": progress,
		"extraction_error":    errMsg,
		"updated_at":          time.Now().UTC(),
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

// SetProfile stores a freshly extracted profile and marks the persona ready.
// The previous profile, if any, is superseded wholesale.
func (s *PersonaStore) SetProfile(ctx context.Context, id string, profile *models.PersonalityProfile) error {
	update := bson.M{"$set": bson.M{
		"profile":             profile,
		"status":              models.PersonaStatusReady,
		"extraction_progress": 100,
		"extraction_error":    "",
		"updated_at":          time.Now().UTC(),
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
