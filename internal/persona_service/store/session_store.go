package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/matrooslabs/shadow-world/internal/models"
)

// SessionStore keeps per-visitor chat histories in Redis. Each session is a
// list of JSON-encoded messages keyed by persona and visitor, refreshed with
// a sliding TTL on every append.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore. A zero ttl means sessions never
// expire.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(personaID, visitorID string) string {
	return fmt.Sprintf("chat:session:%s:%s", personaID, visitorID)
}

// Append adds a message to the end of the session history.
func (s *SessionStore) Append(ctx context.Context, personaID, visitorID string, msg models.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal chat message: %w", err)
	}
	key := sessionKey(personaID, visitorID)
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("append chat message: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("refresh session ttl: %w", err)
		}
	}
	return nil
}

// History returns the full session history in chronological order. A missing
// session yields an empty slice.
func (s *SessionStore) History(ctx context.Context, personaID, visitorID string) ([]models.ChatMessage, error) {
	raw, err := s.client.LRange(ctx, sessionKey(personaID, visitorID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	messages := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode chat message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Clear drops the session history for a persona and visitor.
func (s *SessionStore) Clear(ctx context.Context, personaID, visitorID string) error {
	return s.client.Del(ctx, sessionKey(personaID, visitorID)).Err()
}
