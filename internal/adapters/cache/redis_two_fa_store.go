package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

const twoFAKeyPrefix = "auth:2fa:"

type twoFAEntry struct {
	LoginAttemptID string `json:"login_attempt_id"`
	Code           string `json:"code"`
}

// RedisTwoFACodeStore keeps one JSON entry per email. SET overwrites, which
// gives the last-write-wins rule for concurrent logins.
type RedisTwoFACodeStore struct {
	client *redis.Client
}

func NewRedisTwoFACodeStore(client *redis.Client) *RedisTwoFACodeStore {
	return &RedisTwoFACodeStore{client: client}
}

func (s *RedisTwoFACodeStore) AddCode(ctx context.Context, email domain.Email, attemptID domain.LoginAttemptID, code domain.TwoFACode) error {
	raw, err := json.Marshal(twoFAEntry{LoginAttemptID: attemptID.String(), Code: code.String()})
	if err != nil {
		return fmt.Errorf("%w: encode 2fa entry: %v", domain.ErrUnexpected, err)
	}
	if err := s.client.Set(ctx, twoFAKeyPrefix+email.String(), raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", domain.ErrUnexpected, err)
	}
	return nil
}

func (s *RedisTwoFACodeStore) GetCode(ctx context.Context, email domain.Email) (domain.LoginAttemptID, domain.TwoFACode, error) {
	raw, err := s.client.Get(ctx, twoFAKeyPrefix+email.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.LoginAttemptID{}, domain.TwoFACode{}, domain.ErrLoginAttemptNotFound
		}
		return domain.LoginAttemptID{}, domain.TwoFACode{}, fmt.Errorf("%w: redis get: %v", domain.ErrUnexpected, err)
	}
	var entry twoFAEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, fmt.Errorf("%w: decode 2fa entry: %v", domain.ErrUnexpected, err)
	}
	attemptID, err := domain.ParseLoginAttemptID(entry.LoginAttemptID)
	if err != nil {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, fmt.Errorf("%w: stored attempt id: %v", domain.ErrUnexpected, err)
	}
	code, err := domain.ParseTwoFACode(entry.Code)
	if err != nil {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, fmt.Errorf("%w: stored code: %v", domain.ErrUnexpected, err)
	}
	return attemptID, code, nil
}

func (s *RedisTwoFACodeStore) RemoveCode(ctx context.Context, email domain.Email) error {
	if err := s.client.Del(ctx, twoFAKeyPrefix+email.String()).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %v", domain.ErrUnexpected, err)
	}
	return nil
}
