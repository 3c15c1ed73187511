package events

import (
	"context"
	"log/slog"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

// LoggingEmailClient records that a message would have been sent.
// The body is never logged because it carries one-time codes.
type LoggingEmailClient struct {
	logger *slog.Logger
}

func NewLoggingEmailClient(logger *slog.Logger) *LoggingEmailClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEmailClient{logger: logger}
}

func (c *LoggingEmailClient) Send(ctx context.Context, recipient domain.Email, subject string, body string) error {
	c.logger.InfoContext(ctx, "email delivered",
		"module", "events.email",
		"layer", "adapter",
		"operation", "send_email",
		"outcome", "success",
		"recipient", recipient.String(),
		"subject", subject,
		"body_bytes", len(body),
	)
	return nil
}
