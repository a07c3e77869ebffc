package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("ratelimit: invalid config")

// Result is the outcome of a rate-limit check.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // tokens left; negative means denied
	ResetAt   time.Time // when tokens are next refilled
}

// Allowed reports whether the request may proceed.
func (r *Result) Allowed() bool { return r.Remaining >= 0 }

// RetryAfter returns how long a denied caller should wait.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Config defines a token bucket.
type Config struct {
	Capacity       int           // burst limit
	RefillRate     int           // tokens added per interval
	RefillInterval time.Duration // refill cadence
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidConfig)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive", ErrInvalidConfig)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// Limiter decides whether a keyed request may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Store is the persistence backend for bucket state.
type Store interface {
	// ConsumeTokens takes n tokens from the key's bucket and returns the
	// remaining count and the next refill time. A negative remaining
	// count means the request must be denied.
	ConsumeTokens(ctx context.Context, key string, n int, cfg Config) (remaining int, resetAt time.Time, err error)
}

// Bucket is a token-bucket Limiter over a pluggable Store.
type Bucket struct {
	store Store
	cfg   Config
}

// NewBucket validates the config and returns a limiter.
func NewBucket(store Store, cfg Config) (*Bucket, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, cfg: cfg}, nil
}

func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, 1, b.cfg)
	if err != nil {
		return nil, err
	}
	return &Result{
		Limit:     b.cfg.Capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
