package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

// VerifyTwoFactor completes a login that stopped at the second factor. The
// attempt id and code must both match the latest pending entry for the email.
func (s *Service) VerifyTwoFactor(ctx context.Context, req VerifyTwoFactorRequest) (token IssuedToken, err error) {
	ctx, finish := s.startOperation(ctx, "verify_2fa")
	defer func() { finish(err) }()

	email, err := domain.ParseEmail(req.Email)
	if err != nil {
		return IssuedToken{}, invalidCredentials(err)
	}
	attemptID, err := domain.ParseLoginAttemptID(req.LoginAttemptID)
	if err != nil {
		return IssuedToken{}, invalidCredentials(err)
	}
	code, err := domain.ParseTwoFACode(req.TwoFACode)
	if err != nil {
		return IssuedToken{}, invalidCredentials(err)
	}

	storedID, storedCode, err := s.codes.GetCode(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrLoginAttemptNotFound) {
			return IssuedToken{}, domain.ErrIncorrectCredentials
		}
		return IssuedToken{}, unexpected("get 2fa code", err)
	}

	idMatch := subtle.ConstantTimeCompare([]byte(storedID.String()), []byte(attemptID.String()))
	codeMatch := subtle.ConstantTimeCompare([]byte(storedCode.String()), []byte(code.String()))
	if idMatch&codeMatch != 1 {
		return IssuedToken{}, domain.ErrIncorrectCredentials
	}

	if !s.cfg.AllowTwoFACodeReplay {
		if err := s.codes.RemoveCode(ctx, email); err != nil {
			return IssuedToken{}, unexpected("remove 2fa code", err)
		}
	}

	token, err = s.issue(email)
	if err != nil {
		return IssuedToken{}, err
	}
	slog.Default().InfoContext(ctx, "second factor verified",
		"service", serviceName,
		"module", "application",
		"layer", "application",
		"operation", "verify_2fa",
		"outcome", "success",
	)
	return token, nil
}
