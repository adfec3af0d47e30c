package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultRateLimit = 60
	DefaultBurstSize = 10

	sweepInterval = 5 * time.Minute
	idleTTL       = 10 * time.Minute
)

// RateLimiter throttles dashboard mutations with one token bucket per client IP
type RateLimiter struct {
	perMinute int
	burst     int

	mu      sync.Mutex
	buckets map[string]*bucket

	done     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// decision is the outcome of taking one token for a client
type decision struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
}

// NewRateLimiter uses DefaultRateLimit and DefaultBurstSize
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(DefaultRateLimit, DefaultBurstSize)
}

// NewRateLimiterWithConfig starts a limiter refilling perMinute tokens a minute up to burst.
// Call Stop to end its idle-bucket sweeper.
func NewRateLimiterWithConfig(perMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		perMinute: perMinute,
		burst:     burst,
		buckets:   make(map[string]*bucket),
		done:      make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Allow takes a token for key and reports whether the request may proceed
func (r *RateLimiter) Allow(key string) bool {
	return r.take(key, time.Now()).allowed
}

func (r *RateLimiter) take(key string, now time.Time) decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(float64(r.perMinute)/60), r.burst)}
		r.buckets[key] = b
	}
	b.lastSeen = now

	res := b.limiter.ReserveN(now, 1)
	if !res.OK() {
		return decision{retryAfter: time.Minute}
	}
	if delay := res.DelayFrom(now); delay > 0 {
		// Denied requests must not consume future tokens
		res.CancelAt(now)
		return decision{retryAfter: delay}
	}
	return decision{
		allowed:   true,
		remaining: int(math.Max(0, math.Floor(b.limiter.TokensAt(now)))),
	}
}

// sweep drops buckets idle for longer than idleTTL and returns how many remain
func (r *RateLimiter) sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, b := range r.buckets {
		if now.Sub(b.lastSeen) > idleTTL {
			delete(r.buckets, key)
		}
	}
	return len(r.buckets)
}

func (r *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			remaining := r.sweep(now)
			log.Debug().Int("buckets", remaining).Msg("Swept idle rate limit buckets")
		case <-r.done:
			return
		}
	}
}

// Stop ends the sweeper; further calls are no-ops
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// RateLimitMiddleware limits POST, PUT and DELETE per client IP.
// Reads are never throttled so dashboards can poll freely.
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			ip := c.RealIP()
			d := rl.take(ip, time.Now())
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rl.perMinute))

			if !d.allowed {
				seconds := int(math.Ceil(d.retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				h.Set("X-RateLimit-Remaining", "0")
				h.Set("Retry-After", strconv.Itoa(seconds))

				log.Warn().
					Str("client_ip", ip).
					Str("method", c.Request().Method).
					Str("path", c.Request().URL.Path).
					Int("retry_after", seconds).
					Msg("Rate limit exceeded")
				return rateLimitError(c, seconds)
			}

			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
			return next(c)
		}
	}
}
