package ports

import (
	"context"
	"time"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

// TwoFACodeStore holds at most one pending second-factor entry per email.
// AddCode overwrites, so a newer login attempt supersedes an older one.
type TwoFACodeStore interface {
	AddCode(ctx context.Context, email domain.Email, attemptID domain.LoginAttemptID, code domain.TwoFACode) error
	GetCode(ctx context.Context, email domain.Email) (domain.LoginAttemptID, domain.TwoFACode, error)
	RemoveCode(ctx context.Context, email domain.Email) error
}

// BannedTokenStore remembers tokens revoked by logout.
// expiresAt is the token's own expiry; after it the entry may be dropped.
type BannedTokenStore interface {
	IsBanned(ctx context.Context, token string) (bool, error)
	AddToken(ctx context.Context, token string, expiresAt time.Time) error
}

// BannedTokenPruner is implemented by banned-token stores without native expiry.
type BannedTokenPruner interface {
	PruneExpired(ctx context.Context, now time.Time) (int, error)
}
