package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

// toDomainUser rebuilds the entity from a row. The password hash stays in the
// store, so the returned User carries a zero Password.
func toDomainUser(rec userModel) (domain.User, error) {
	email, err := domain.ParseEmail(rec.Email)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: stored email %q: %v", domain.ErrUnexpected, rec.Email, err)
	}
	return domain.User{Email: email, RequiresTwoFactor: rec.RequiresTwoFactor}, nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func unexpected(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrUnexpected, op, err)
}
