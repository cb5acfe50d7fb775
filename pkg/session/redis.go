package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session:revoked:"

type redisStore struct {
	client *redis.Client
}

// NewRedisStore connects a revocation store backed by Redis so that a
// logout is visible to every API instance.
func NewRedisStore(url string) (RevocationStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisStore{client: client}, nil
}

func (s *redisStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

func (s *redisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return n > 0, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
