// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/axiompharma/compliance-copilot/internal/ratelimit"
)

// RateLimitMiddleware limits by authenticated user when available, falling
// back to client IP for anything in front of the auth middleware.
func RateLimitMiddleware(limiter *ratelimit.MemoryRateLimiter, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier, ok := UserID(r)
			if !ok {
				identifier = ratelimit.GetClientIP(r)
			}
			identifier = name + ":" + identifier

			allowed, info := limiter.Allow(identifier)
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))

			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "rate limit exceeded, try again later",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
