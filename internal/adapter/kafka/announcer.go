// Package kafka publishes dataset-ready announcements so downstream
// ingestion can pick up finished extractions without polling the filesystem.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/geosift/s2extract/internal/domain"
)

// Announcer produces run manifests to a Kafka topic.
// It implements domain.Announcer.
type Announcer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAnnouncer creates a Kafka producer for the announcement topic.
func NewAnnouncer(brokers []string, topic string, logger *slog.Logger) *Announcer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Announcer{writer: w, logger: logger}
}

// Announce publishes the manifest keyed by scene ID.
func (a *Announcer) Announce(ctx context.Context, m domain.RunManifest) error {
	msg, err := manifestMessage(m)
	if err != nil {
		return err
	}
	if err := a.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("announce dataset: %w", err)
	}
	a.logger.Info("dataset announced", "scene_id", m.SceneID, "topic", a.writer.Topic)
	return nil
}

func (a *Announcer) Close() error {
	return a.writer.Close()
}

// manifestMessage marshals a run manifest into a Kafka message.
func manifestMessage(m domain.RunManifest) (kafkago.Message, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize run manifest: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(m.SceneID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "collection", Value: []byte(m.Collection)},
			{Key: "generated_at", Value: []byte(m.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
