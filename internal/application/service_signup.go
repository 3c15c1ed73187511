package application

import (
	"context"
	"errors"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

// SignUp registers a user. AddUser is the single atomic check-and-insert, so
// concurrent sign-ups for one email yield exactly one success.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (resp SignUpResponse, err error) {
	ctx, finish := s.startOperation(ctx, "signup")
	defer func() { finish(err) }()

	email, err := domain.ParseEmail(req.Email)
	if err != nil {
		return SignUpResponse{}, invalidCredentials(err)
	}
	password, err := domain.ParsePassword(req.Password)
	if err != nil {
		return SignUpResponse{}, invalidCredentials(err)
	}

	if err := s.users.AddUser(ctx, domain.NewUser(email, password, req.RequiresTwoFactor)); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return SignUpResponse{}, domain.ErrUserAlreadyExists
		}
		return SignUpResponse{}, unexpected("add user", err)
	}
	return SignUpResponse{Message: SignUpMessage}, nil
}
