package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func recipient(t *testing.T) domain.Email {
	t.Helper()
	email, err := domain.ParseEmail("ada@example.com")
	require.NoError(t, err)
	return email
}

func TestKafkaEmailClient_PublishesKeyedRequest(t *testing.T) {
	t.Parallel()
	writer := &fakeWriter{}
	client := newKafkaEmailClient(writer, "")

	require.NoError(t, client.Send(context.Background(), recipient(t), "2FA Code", "123456"))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, DefaultEmailTopic, msg.Topic)
	assert.Equal(t, "ada@example.com", string(msg.Key))

	var got emailRequest
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, EmailRequestedEvent, got.EventType)
	assert.Equal(t, "ada@example.com", got.Recipient)
	assert.Equal(t, "2FA Code", got.Subject)
	assert.Equal(t, "123456", got.Body)

	require.NoError(t, client.Close())
	assert.True(t, writer.closed)
}

func TestKafkaEmailClient_WrapsWriterFailure(t *testing.T) {
	t.Parallel()
	broker := errors.New("broker down")
	client := newKafkaEmailClient(&fakeWriter{err: broker}, "custom")

	err := client.Send(context.Background(), recipient(t), "s", "b")
	assert.ErrorIs(t, err, broker)
}

func TestNewKafkaEmailClient_RequiresBrokers(t *testing.T) {
	t.Parallel()
	_, err := NewKafkaEmailClient(nil, "topic")
	assert.Error(t, err)
}

func TestLoggingEmailClient_DoesNotLogBody(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	client := NewLoggingEmailClient(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, client.Send(context.Background(), recipient(t), "2FA Code", "654321"))
	assert.Contains(t, buf.String(), "ada@example.com")
	assert.NotContains(t, buf.String(), "654321")
}
