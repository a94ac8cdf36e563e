package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/matrooslabs/shadow-world/internal/config"
	"github.com/matrooslabs/shadow-world/internal/models"
)

// DefaultProgressTopic is used when the config leaves the topic unset.
const DefaultProgressTopic = "extraction_progress"

// ProgressPublisher emits extraction progress events, keyed by persona so
// consumers see each persona's events in order.
type ProgressPublisher struct {
	writer *kafka.Writer
}

// NewProgressPublisher creates a publisher for the configured progress topic.
func NewProgressPublisher(cfg *config.KafkaConfig) (*ProgressPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	topic := cfg.ProgressTopic
	if topic == "" {
		topic = DefaultProgressTopic
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		BatchSize:              100,
		AllowAutoTopicCreation: true,
	}
	return &ProgressPublisher{writer: writer}, nil
}

// Publish serializes the event as JSON and writes it to the topic.
func (p *ProgressPublisher) Publish(ctx context.Context, event *models.ExtractionProgressEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal progress event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.PersonaID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to write progress event to kafka: %w", err)
	}
	return nil
}

// Close shuts down the underlying writer.
func (p *ProgressPublisher) Close() error {
	return p.writer.Close()
}
