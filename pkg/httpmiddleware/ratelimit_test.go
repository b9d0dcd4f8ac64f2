package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitBlocksAfterMax(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := RateLimit(ctx, RateLimitConfig{Max: 2, Window: time.Minute})(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1234").Code)

	rec := doRequest(h, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitPerClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := RateLimit(ctx, RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.1:5678").Code)
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.2:1234").Code)
}

func TestRateLimitWindowReset(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Now()

	_, _, allowed := rl.allow("client", now)
	require.True(t, allowed)
	_, _, allowed = rl.allow("client", now.Add(time.Second))
	require.False(t, allowed)

	// A new window opens after the old one expires.
	_, _, allowed = rl.allow("client", now.Add(time.Minute+time.Second))
	assert.True(t, allowed)
}

func TestRateLimitDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := RateLimit(ctx, RateLimitConfig{})(okHandler())
	for range 10 {
		assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1234").Code)
	}
}

func TestRateLimitCleanup(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Now()
	rl.allow("a", now)
	rl.allow("b", now)

	rl.cleanup(now.Add(2 * time.Minute))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.windows)
}
