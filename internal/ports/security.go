package ports

import (
	"time"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

// SessionToken is a freshly issued signed token and the facts baked into it.
type SessionToken struct {
	Value     string
	Subject   domain.Email
	ExpiresAt time.Time
}

// TokenClaims is what a successfully validated token asserts.
type TokenClaims struct {
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and checks session tokens.
// Validate never consults the banned set; that is the orchestrator's job.
type TokenIssuer interface {
	Issue(subject domain.Email) (SessionToken, error)
	Validate(token string) (TokenClaims, error)
}

// PasswordHasher hashes and compares credentials for stores that keep them at rest.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}
