package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucketState struct {
	tokens     float64
	lastRefill time.Time
}

// MemoryStore keeps bucket state in process memory. Suitable for a single
// instance; multi-instance deployments should use the Redis store so all
// replicas share one budget.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*bucketState),
		now:     time.Now,
	}
}

func (s *MemoryStore) ConsumeTokens(_ context.Context, key string, n int, cfg Config) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	b, ok := s.buckets[key]
	if !ok {
		b = &bucketState{tokens: float64(cfg.Capacity), lastRefill: now}
		s.buckets[key] = b
	}

	// Continuous refill proportional to elapsed time.
	elapsed := now.Sub(b.lastRefill)
	refilled := float64(cfg.RefillRate) * (elapsed.Seconds() / cfg.RefillInterval.Seconds())
	if refilled > 0 {
		b.tokens = min(b.tokens+refilled, float64(cfg.Capacity))
		b.lastRefill = now
	}

	b.tokens -= float64(n)
	resetAt := now.Add(cfg.RefillInterval)

	remaining := int(b.tokens)
	if b.tokens < 0 {
		// Clamp so a burst of denied requests cannot dig an unbounded hole.
		b.tokens = -1
		remaining = -1
	}
	return remaining, resetAt, nil
}
