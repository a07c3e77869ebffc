package ratelimit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfschwingel/coppers/core"
	"github.com/gfschwingel/coppers/pkg/ratelimit"
)

func testConfig() ratelimit.Config {
	return ratelimit.Config{
		Capacity:       3,
		RefillRate:     3,
		RefillInterval: time.Minute,
	}
}

func TestNewBucket(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cfg  ratelimit.Config
	}{
		{"zero capacity", ratelimit.Config{RefillRate: 1, RefillInterval: time.Second}},
		{"zero refill rate", ratelimit.Config{Capacity: 1, RefillInterval: time.Second}},
		{"zero interval", ratelimit.Config{Capacity: 1, RefillRate: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ratelimit.NewBucket(ratelimit.NewMemoryStore(), tc.cfg)
			require.ErrorIs(t, err, ratelimit.ErrInvalidConfig)
		})
	}
}

func TestBucketAllow(t *testing.T) {
	t.Parallel()

	t.Run("allows within capacity then denies", func(t *testing.T) {
		t.Parallel()
		limiter, err := ratelimit.NewBucket(ratelimit.NewMemoryStore(), testConfig())
		require.NoError(t, err)

		ctx := context.Background()
		for i := range 3 {
			result, err := limiter.Allow(ctx, "k")
			require.NoError(t, err)
			assert.True(t, result.Allowed(), "request %d should pass", i)
		}

		result, err := limiter.Allow(ctx, "k")
		require.NoError(t, err)
		assert.False(t, result.Allowed())
		assert.Positive(t, result.RetryAfter())
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()
		limiter, err := ratelimit.NewBucket(ratelimit.NewMemoryStore(), testConfig())
		require.NoError(t, err)

		ctx := context.Background()
		for range 3 {
			_, err := limiter.Allow(ctx, "a")
			require.NoError(t, err)
		}

		result, err := limiter.Allow(ctx, "b")
		require.NoError(t, err)
		assert.True(t, result.Allowed())
	})
}

type staticLimiter struct {
	result *ratelimit.Result
	err    error
}

func (l *staticLimiter) Allow(context.Context, string) (*ratelimit.Result, error) {
	return l.result, l.err
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allowed request passes with headers", func(t *testing.T) {
		t.Parallel()
		limiter := &staticLimiter{result: &ratelimit.Result{Limit: 3, Remaining: 2, ResetAt: time.Now().Add(time.Minute)}}
		h := ratelimit.Middleware(limiter, ratelimit.ByIP())(okHandler)

		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = "192.0.2.1:1111"
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("denied request gets 429 envelope", func(t *testing.T) {
		t.Parallel()
		limiter := &staticLimiter{result: &ratelimit.Result{Limit: 3, Remaining: -1, ResetAt: time.Now().Add(30 * time.Second)}}
		h := ratelimit.Middleware(limiter, ratelimit.ByIP())(okHandler)

		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = "192.0.2.1:1111"
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))

		var body core.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, http.StatusTooManyRequests, body.StatusCode)
	})

	t.Run("fails open on limiter error", func(t *testing.T) {
		t.Parallel()
		limiter := &staticLimiter{err: context.DeadlineExceeded}
		h := ratelimit.Middleware(limiter, ratelimit.ByIP())(okHandler)

		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = "192.0.2.1:1111"
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty key skips limiting", func(t *testing.T) {
		t.Parallel()
		limiter := &staticLimiter{result: &ratelimit.Result{Limit: 3, Remaining: -1, ResetAt: time.Now()}}
		h := ratelimit.Middleware(limiter, func(*http.Request) string { return "" })(okHandler)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
