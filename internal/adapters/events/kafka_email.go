package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

// EmailRequestedEvent is the payload published for the notification service.
const EmailRequestedEvent = "auth.email.requested"

// DefaultEmailTopic is used when no topic is configured.
const DefaultEmailTopic = "auth.notifications.email"

type emailRequest struct {
	EventType   string    `json:"event_type"`
	Recipient   string    `json:"recipient"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	RequestedAt time.Time `json:"requested_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEmailClient hands email delivery to a downstream notification service
// by publishing one message per email, keyed by recipient.
type KafkaEmailClient struct {
	writer messageWriter
	topic  string
	nowFn  func() time.Time
}

func NewKafkaEmailClient(brokers []string, topic string) (*KafkaEmailClient, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka email client requires at least one broker")
	}
	return newKafkaEmailClient(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.Hash{},
	}, topic), nil
}

func newKafkaEmailClient(writer messageWriter, topic string) *KafkaEmailClient {
	if topic == "" {
		topic = DefaultEmailTopic
	}
	return &KafkaEmailClient{
		writer: writer,
		topic:  topic,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (c *KafkaEmailClient) Send(ctx context.Context, recipient domain.Email, subject string, body string) error {
	now := c.nowFn()
	payload, err := json.Marshal(emailRequest{
		EventType:   EmailRequestedEvent,
		Recipient:   recipient.String(),
		Subject:     subject,
		Body:        body,
		RequestedAt: now,
	})
	if err != nil {
		return fmt.Errorf("encode email request: %w", err)
	}
	if err := c.writer.WriteMessages(ctx, kafka.Message{
		Topic: c.topic,
		Key:   []byte(recipient.String()),
		Value: payload,
		Time:  now,
	}); err != nil {
		return fmt.Errorf("publish email request: %w", err)
	}
	return nil
}

func (c *KafkaEmailClient) Close() error {
	return c.writer.Close()
}
