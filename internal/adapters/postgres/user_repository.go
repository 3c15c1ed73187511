package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/ports"
)

// UserStore persists users in the users table with bcrypt-hashed passwords.
type UserStore struct {
	db     *gorm.DB
	hasher ports.PasswordHasher
	nowFn  func() time.Time
}

func NewUserStore(db *gorm.DB, hasher ports.PasswordHasher) *UserStore {
	return &UserStore{
		db:     db,
		hasher: hasher,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// AddUser relies on the primary key for uniqueness, so two concurrent sign-ups
// for one email cannot both succeed.
func (s *UserStore) AddUser(ctx context.Context, user domain.User) error {
	hash, err := s.hasher.Hash(user.Password.Reveal())
	if err != nil {
		return unexpected("hash password", err)
	}
	rec := userModel{
		Email:             user.Email.String(),
		PasswordHash:      hash,
		RequiresTwoFactor: user.RequiresTwoFactor,
		CreatedAt:         s.nowFn(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return unexpected("insert user", err)
	}
	return nil
}

func (s *UserStore) GetUser(ctx context.Context, email domain.Email) (domain.User, error) {
	rec, err := s.find(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(rec)
}

func (s *UserStore) ValidateUser(ctx context.Context, email domain.Email, password domain.Password) error {
	rec, err := s.find(ctx, email)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(rec.PasswordHash, password.Reveal()); err != nil {
		if errors.Is(err, domain.ErrCredentialMismatch) {
			return domain.ErrCredentialMismatch
		}
		return unexpected("compare password", err)
	}
	return nil
}

func (s *UserStore) find(ctx context.Context, email domain.Email) (userModel, error) {
	var rec userModel
	if err := s.db.WithContext(ctx).Where("email = ?", email.String()).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return userModel{}, domain.ErrUserNotFound
		}
		return userModel{}, unexpected("select user", err)
	}
	return rec, nil
}
