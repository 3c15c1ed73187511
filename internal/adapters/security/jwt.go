package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/ports"
)

const (
	// DefaultTokenTTL is used when the configured lifetime is not positive.
	DefaultTokenTTL = 24 * time.Hour
	// MinSecretLength is the shortest HMAC secret accepted from configuration.
	MinSecretLength = 32
)

// JWTIssuer implements HS256 session tokens with a server-held secret.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	nowFn  func() time.Time
}

// NewJWTIssuer builds an issuer from a configured secret.
func NewJWTIssuer(secret []byte, ttl time.Duration) (*JWTIssuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &JWTIssuer{
		secret: key,
		ttl:    ttl,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// NewEphemeralJWTIssuer generates a random secret for local/dev use.
// Tokens do not survive a restart.
func NewEphemeralJWTIssuer(ttl time.Duration) (*JWTIssuer, error) {
	secret := make([]byte, 64)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate jwt secret: %w", err)
	}
	return NewJWTIssuer(secret, ttl)
}

// WithClock replaces the issuer clock. Used by tests to mint expired tokens.
func (s *JWTIssuer) WithClock(nowFn func() time.Time) *JWTIssuer {
	clone := *s
	clone.nowFn = nowFn
	return &clone
}

// TTL reports the lifetime given to every issued token.
func (s *JWTIssuer) TTL() time.Duration { return s.ttl }

func (s *JWTIssuer) Issue(subject domain.Email) (ports.SessionToken, error) {
	if subject.IsZero() {
		return ports.SessionToken{}, errors.New("token subject is required")
	}
	now := s.nowFn()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject.String(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return ports.SessionToken{}, fmt.Errorf("sign token: %w", err)
	}
	return ports.SessionToken{
		Value:     signed,
		Subject:   subject,
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

// Validate checks signature, algorithm, expiry and subject. Every failure wraps
// domain.ErrInvalidToken.
func (s *JWTIssuer) Validate(raw string) (ports.TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.nowFn),
	)
	if err != nil {
		return ports.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ports.TokenClaims{}, fmt.Errorf("%w: token not valid", domain.ErrInvalidToken)
	}
	if claims.Subject == "" {
		return ports.TokenClaims{}, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}

	out := ports.TokenClaims{
		Subject:   claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return out, nil
}
