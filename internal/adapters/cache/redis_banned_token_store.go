package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

const bannedKeyPrefix = "auth:banned:"

// expiredBanTTL keeps a ban for a token that is already past its expiry,
// covering clock skew between this process and Redis.
const expiredBanTTL = time.Hour

// RedisBannedTokenStore keeps one key per banned token. Keys expire with the
// token, so the set never needs pruning.
type RedisBannedTokenStore struct {
	client *redis.Client
}

func NewRedisBannedTokenStore(client *redis.Client) *RedisBannedTokenStore {
	return &RedisBannedTokenStore{client: client}
}

func (s *RedisBannedTokenStore) IsBanned(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, bannedKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: redis exists: %v", domain.ErrUnexpected, err)
	}
	return n > 0, nil
}

func (s *RedisBannedTokenStore) AddToken(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = expiredBanTTL
	}
	if err := s.client.Set(ctx, bannedKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", domain.ErrUnexpected, err)
	}
	return nil
}

// bannedKey hashes the token so raw credentials never sit in Redis.
func bannedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return bannedKeyPrefix + hex.EncodeToString(sum[:])
}
