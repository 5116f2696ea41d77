package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/leaflist/leaflist-server/internal/http/response"
	"github.com/leaflist/leaflist-server/internal/ratelimit"
)

// RateLimiter is the per-IP limiter guarding the credential routes.
type RateLimiter = ratelimit.Keyed

// NewRateLimiter creates a new rate limiter.
// rate: number of requests allowed per interval
// interval: time period for rate (e.g., time.Minute)
// burst: maximum burst size
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// rateLimitedPath reports whether a path carries credentials and should be
// throttled. Public reads under /api/auth/ (booklist10, public/*) stay
// unmetered so anonymous browsing is never blocked by login attempts.
func rateLimitedPath(path string) bool {
	return path == "/api/auth/register" ||
		path == "/api/auth/localLogin" ||
		strings.HasPrefix(path, "/api/auth/users/")
}

// AuthRateLimitMiddleware rate limits credential endpoints by client IP.
// Other paths pass through untouched. Returns 429 when the limit is exceeded.
func AuthRateLimitMiddleware(limiter *RateLimiter, logger interface{ Warn(msg string, args ...any) }) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rateLimitedPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)

			if !limiter.Allow(key) {
				logger.Warn("Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				response.TooManyRequests(w, "Too many requests. Please try again later.", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	// X-Forwarded-For may contain multiple IPs, first is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// RemoteAddr carries a port, strip it.
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
