package ports

import (
	"context"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

// EmailClient delivers a message to a user. Delivery transport is an adapter concern.
type EmailClient interface {
	Send(ctx context.Context, recipient domain.Email, subject string, body string) error
}
