package application

import (
	"context"
	"strings"
	"time"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/ports"
)

// VerifyToken accepts a token only if it is not banned and validates.
func (s *Service) VerifyToken(ctx context.Context, raw string) (verified VerifiedToken, err error) {
	ctx, finish := s.startOperation(ctx, "verify_token")
	defer func() { finish(err) }()

	claims, err := s.checkToken(ctx, raw)
	if err != nil {
		return VerifiedToken{}, err
	}
	return VerifiedToken{Subject: claims.Subject, ExpiresIn: s.secondsUntil(claims.ExpiresAt)}, nil
}

// Logout bans a valid token for the rest of its lifetime and drops any pending
// second-factor entry of its subject. A token can be logged out once.
func (s *Service) Logout(ctx context.Context, raw string) (err error) {
	ctx, finish := s.startOperation(ctx, "logout")
	defer func() { finish(err) }()

	if strings.TrimSpace(raw) == "" {
		return domain.ErrMissingToken
	}
	claims, err := s.checkToken(ctx, raw)
	if err != nil {
		return err
	}

	if err := s.banned.AddToken(ctx, raw, claims.ExpiresAt); err != nil {
		return unexpected("ban token", err)
	}

	if subject, parseErr := domain.ParseEmail(claims.Subject); parseErr == nil {
		if err := s.codes.RemoveCode(ctx, subject); err != nil {
			return unexpected("remove 2fa code", err)
		}
	}
	return nil
}

func (s *Service) checkToken(ctx context.Context, raw string) (ports.TokenClaims, error) {
	if raw == "" {
		return ports.TokenClaims{}, domain.ErrInvalidToken
	}
	banned, err := s.banned.IsBanned(ctx, raw)
	if err != nil {
		return ports.TokenClaims{}, unexpected("check banned token", err)
	}
	if banned {
		return ports.TokenClaims{}, domain.ErrInvalidToken
	}
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		return ports.TokenClaims{}, domain.ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) secondsUntil(t time.Time) int64 {
	secs := int64(t.Sub(s.nowFn()) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}
