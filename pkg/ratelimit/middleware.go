package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gfschwingel/coppers/core"
	"github.com/gfschwingel/coppers/pkg/clientip"
)

// KeyFunc extracts the identity a request is limited by.
type KeyFunc func(*http.Request) string

// ByIP keys requests by client IP address.
func ByIP() KeyFunc {
	return clientip.GetIP
}

// Middleware enforces the limiter on every request passing through it.
// Fails open: a storage error or an empty key lets the request proceed so
// a Redis outage cannot take the API down with it.
func Middleware(limiter Limiter, keyFunc KeyFunc) func(http.Handler) http.Handler {
	if keyFunc == nil {
		panic("ratelimit.Middleware: keyFunc is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(result.Remaining, 0)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				retryAfter := int(result.RetryAfter().Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				core.RespondError(w, core.NewError(http.StatusTooManyRequests, "Too many requests, slow down!"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
