package application

import (
	"context"
	"errors"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

// Login checks credentials and either issues a session token or starts a
// second-factor attempt. Unknown user and wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, req LoginRequest) (res LoginResult, err error) {
	ctx, finish := s.startOperation(ctx, "login")
	defer func() { finish(err) }()

	email, err := domain.ParseEmail(req.Email)
	if err != nil {
		return LoginResult{}, invalidCredentials(err)
	}
	password, err := domain.ParsePassword(req.Password)
	if err != nil {
		return LoginResult{}, invalidCredentials(err)
	}

	if err := s.users.ValidateUser(ctx, email, password); err != nil {
		if isCredentialFailure(err) {
			return LoginResult{}, domain.ErrIncorrectCredentials
		}
		return LoginResult{}, unexpected("validate user", err)
	}

	user, err := s.users.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return LoginResult{}, domain.ErrIncorrectCredentials
		}
		return LoginResult{}, unexpected("get user", err)
	}

	if !user.RequiresTwoFactor {
		token, err := s.issue(email)
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Token: &token}, nil
	}
	return s.startTwoFactor(ctx, email)
}

func (s *Service) startTwoFactor(ctx context.Context, email domain.Email) (LoginResult, error) {
	attemptID := domain.NewLoginAttemptID()
	code, err := domain.NewTwoFACode()
	if err != nil {
		return LoginResult{}, unexpected("generate 2fa code", err)
	}

	if err := s.codes.AddCode(ctx, email, attemptID, code); err != nil {
		return LoginResult{}, unexpected("store 2fa code", err)
	}
	if err := s.email.Send(ctx, email, s.cfg.TwoFAEmailSubject, code.String()); err != nil {
		return LoginResult{}, unexpected("send 2fa code", err)
	}

	return LoginResult{
		RequiresTwoFactor: true,
		LoginAttemptID:    attemptID.String(),
		Message:           TwoFARequiredMessage,
	}, nil
}

func (s *Service) issue(email domain.Email) (IssuedToken, error) {
	token, err := s.tokens.Issue(email)
	if err != nil {
		return IssuedToken{}, unexpected("issue token", err)
	}
	return IssuedToken{
		Value:     token.Value,
		Subject:   token.Subject.String(),
		ExpiresIn: s.secondsUntil(token.ExpiresAt),
	}, nil
}

func isCredentialFailure(err error) bool {
	return errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrCredentialMismatch)
}
