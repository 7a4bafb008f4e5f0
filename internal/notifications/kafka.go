package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/jredh-dev/foodshare/pkg/models"
)

// DefaultTopic is where notifications are mirrored for downstream delivery.
const DefaultTopic = "foodshare-notifications"

// KafkaMirror writes every notification as JSON to a Kafka topic, keyed by
// user ID so one user's notifications stay ordered within a partition.
type KafkaMirror struct {
	writer *kafka.Writer
}

// NewKafkaMirror creates a mirror for the given brokers and topic.
func NewKafkaMirror(brokers []string, topic string) *KafkaMirror {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaMirror{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

// Publish writes n to the topic.
func (m *KafkaMirror) Publish(ctx context.Context, n models.Notification) error {
	msg, err := encodeMessage(n)
	if err != nil {
		return err
	}
	if err := m.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", m.writer.Topic, err)
	}
	return nil
}

// Close flushes and releases the writer.
func (m *KafkaMirror) Close() error {
	return m.writer.Close()
}

func encodeMessage(n models.Notification) (kafka.Message, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal notification: %w", err)
	}
	return kafka.Message{
		Key:   []byte(n.UserID),
		Value: body,
		Time:  n.CreatedAt,
	}, nil
}
