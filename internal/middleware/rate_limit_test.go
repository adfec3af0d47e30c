package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5) // 10 per minute, burst of 5
	defer rl.Stop()

	// First 5 requests should be allowed (burst)
	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d should be allowed", i+1)
	}

	// 6th request should be rate limited (exceeded burst)
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiter_DifferentClients(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("10.0.0.1"))
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	// Second client still has its full burst
	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.2"), "client 2 request %d should be allowed", i+1)
	}
}

func TestRateLimiter_DeniedRequestsDoNotBorrowTokens(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 1) // one token per second
	defer rl.Stop()

	now := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	require.True(t, rl.take("10.0.0.1", now).allowed)

	// Hammering while empty must not push the next free slot further out
	for i := 0; i < 5; i++ {
		d := rl.take("10.0.0.1", now)
		assert.False(t, d.allowed)
		assert.Equal(t, time.Second, d.retryAfter)
	}

	assert.True(t, rl.take("10.0.0.1", now.Add(time.Second)).allowed)
}

func TestRateLimiter_RemainingTokens(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	now := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, rl.take("10.0.0.1", now).remaining)
	assert.Equal(t, 1, rl.take("10.0.0.1", now).remaining)
	assert.Equal(t, 0, rl.take("10.0.0.1", now).remaining)
}

func TestRateLimiter_SweepDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	now := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	rl.take("idle", now)
	rl.take("active", now.Add(idleTTL))

	assert.Equal(t, 2, rl.sweep(now.Add(idleTTL)))
	assert.Equal(t, 1, rl.sweep(now.Add(idleTTL+time.Second)))
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter()
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func newRequest(method, remoteAddr string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/costs", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestRateLimitMiddleware_SkipsReads(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(1, 1)
	defer rl.Stop()

	calls := 0
	handler := func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "OK")
	}

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(newRequest(http.MethodGet, "192.0.2.1:1234"), rec)
		require.NoError(t, RateLimitMiddleware(rl)(handler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, 5, calls)
}

func TestRateLimitMiddleware_LimitsMutations(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(10, 2) // Small burst for testing
	defer rl.Stop()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	// First 2 requests should succeed (burst)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(newRequest(http.MethodPost, "192.0.2.1:1234"), rec)
		require.NoError(t, RateLimitMiddleware(rl)(handler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	}

	// 3rd request should be rate limited
	rec := httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodPost, "192.0.2.1:1234"), rec)
	require.NoError(t, RateLimitMiddleware(rl)(handler)(c))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "6", rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	var body problemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errorTypeRateLimit, body.Type)
	assert.Equal(t, "/api/v1/costs", body.Instance)

	// Another client is unaffected
	rec = httptest.NewRecorder()
	c = e.NewContext(newRequest(http.MethodDelete, "192.0.2.2:1234"), rec)
	require.NoError(t, RateLimitMiddleware(rl)(handler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
