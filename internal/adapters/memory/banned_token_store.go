package memory

import (
	"context"
	"sync"
	"time"
)

// BannedTokenStore is a set of revoked tokens. Each entry remembers the token's
// expiry so PruneExpired can drop entries the validator would reject anyway.
type BannedTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

func NewBannedTokenStore() *BannedTokenStore {
	return &BannedTokenStore{tokens: make(map[string]time.Time)}
}

func (s *BannedTokenStore) IsBanned(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tokens[token]
	return ok, nil
}

// AddToken is idempotent. A repeated ban keeps the later expiry.
func (s *BannedTokenStore) AddToken(_ context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.tokens[token]; ok && current.After(expiresAt) {
		return nil
	}
	s.tokens[token] = expiresAt
	return nil
}

// PruneExpired removes entries whose token expired strictly before now.
func (s *BannedTokenStore) PruneExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, expiresAt := range s.tokens {
		if expiresAt.Before(now) {
			delete(s.tokens, token)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of banned entries.
func (s *BannedTokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
