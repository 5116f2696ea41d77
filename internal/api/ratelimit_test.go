package api

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedHandler(t *testing.T, limiter *RateLimiter) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return AuthRateLimitMiddleware(limiter, logger)(next)
}

func doRequest(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = "203.0.113.7:51234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRateLimit_ThrottlesCredentialEndpoints(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute, 2)
	h := limitedHandler(t, limiter)

	for i := 0; i < 2; i++ {
		rec := doRequest(h, "/api/auth/localLogin")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(h, "/api/auth/localLogin")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Register shares the same per-IP budget.
	rec = doRequest(h, "/api/auth/register")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuthRateLimit_PublicReadsStayOpen(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, 1)
	h := limitedHandler(t, limiter)

	// Burn the budget on a login attempt.
	require.Equal(t, http.StatusOK, doRequest(h, "/api/auth/localLogin").Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(h, "/api/auth/localLogin").Code)

	// Anonymous reads under /api/auth/ are not metered.
	for _, path := range []string{
		"/api/auth/booklist10",
		"/api/auth/public/bookList/list-1",
		"/api/auth/public/books/book-1",
	} {
		rec := doRequest(h, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	// Neither are routes outside the auth surface.
	assert.Equal(t, http.StatusOK, doRequest(h, "/api/book-list/new").Code)
}

func TestAuthRateLimit_PerClientIsolation(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, 1)
	h := limitedHandler(t, limiter)

	first := httptest.NewRequest(http.MethodPost, "/api/auth/localLogin", nil)
	first.RemoteAddr = "203.0.113.7:51234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client IP gets its own bucket.
	other := httptest.NewRequest(http.MethodPost, "/api/auth/localLogin", nil)
	other.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}
