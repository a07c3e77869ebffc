package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares rate-limit state across replicas using a fixed window
// of one refill interval per key. Within a window up to Capacity tokens
// may be consumed; the window expires on its own, so no cleanup job is
// needed.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, n int, cfg Config) (int, time.Time, error) {
	redisKey := fmt.Sprintf("%s:%s", s.prefix, key)

	count, err := s.client.IncrBy(ctx, redisKey, int64(n)).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("ratelimit: redis incr: %w", err)
	}

	// First consumer of the window owns setting its expiry.
	if count == int64(n) {
		if err := s.client.Expire(ctx, redisKey, cfg.RefillInterval).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("ratelimit: redis expire: %w", err)
		}
	}

	resetAt := time.Now().Add(cfg.RefillInterval)
	if ttl, err := s.client.PTTL(ctx, redisKey).Result(); err == nil && ttl > 0 {
		resetAt = time.Now().Add(ttl)
	}

	remaining := cfg.Capacity - int(count)
	if remaining < -1 {
		remaining = -1
	}
	return remaining, resetAt, nil
}
