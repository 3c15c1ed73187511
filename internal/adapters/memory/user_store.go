// Package memory provides the reference in-process stores.
//
// Each store guards its map with a single sync.RWMutex: lookups share the read
// lock, mutations take the write lock for the duration of one call.
package memory

import (
	"context"
	"crypto/subtle"
	"sync"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

// UserStore keeps users keyed by normalized email.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

func (s *UserStore) AddUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := user.Email.String()
	if _, exists := s.users[key]; exists {
		return domain.ErrUserAlreadyExists
	}
	s.users[key] = user
	return nil
}

func (s *UserStore) GetUser(_ context.Context, email domain.Email) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email.String()]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

// ValidateUser compares the stored password with a constant-time comparison.
func (s *UserStore) ValidateUser(_ context.Context, email domain.Email, password domain.Password) error {
	s.mu.RLock()
	user, ok := s.users[email.String()]
	s.mu.RUnlock()

	if !ok {
		return domain.ErrUserNotFound
	}
	if subtle.ConstantTimeCompare([]byte(user.Password.Reveal()), []byte(password.Reveal())) != 1 {
		return domain.ErrCredentialMismatch
	}
	return nil
}
