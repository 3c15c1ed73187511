package ports

import (
	"context"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

// UserStore owns registered users keyed by email.
//
// Implementations return domain.ErrUserAlreadyExists, domain.ErrUserNotFound and
// domain.ErrCredentialMismatch for the expected outcomes, and wrap anything else
// in domain.ErrUnexpected.
//
// GetUser may return a User whose Password is the zero value: stores that keep
// only a hash never hand the secret back. Callers check credentials through
// ValidateUser and read nothing but Email and RequiresTwoFactor from GetUser.
type UserStore interface {
	AddUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, email domain.Email) (domain.User, error)
	ValidateUser(ctx context.Context, email domain.Email, password domain.Password) error
}
