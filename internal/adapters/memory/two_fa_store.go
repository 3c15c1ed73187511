package memory

import (
	"context"
	"sync"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

type pendingCode struct {
	attemptID domain.LoginAttemptID
	code      domain.TwoFACode
}

// TwoFACodeStore keeps the latest pending second-factor entry per email.
type TwoFACodeStore struct {
	mu    sync.RWMutex
	codes map[string]pendingCode
}

func NewTwoFACodeStore() *TwoFACodeStore {
	return &TwoFACodeStore{codes: make(map[string]pendingCode)}
}

func (s *TwoFACodeStore) AddCode(_ context.Context, email domain.Email, attemptID domain.LoginAttemptID, code domain.TwoFACode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[email.String()] = pendingCode{attemptID: attemptID, code: code}
	return nil
}

func (s *TwoFACodeStore) GetCode(_ context.Context, email domain.Email) (domain.LoginAttemptID, domain.TwoFACode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.codes[email.String()]
	if !ok {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, domain.ErrLoginAttemptNotFound
	}
	return entry.attemptID, entry.code, nil
}

func (s *TwoFACodeStore) RemoveCode(_ context.Context, email domain.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.codes, email.String())
	return nil
}
