package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter implements a fixed-window per-client rate limit shared by all
// API routes. Limits are service-wide configuration, not per key: the
// issuance endpoint is unauthenticated and must be covered too.
type RateLimiter struct {
	mu          sync.Mutex
	counters    map[string]*window
	max         int
	window      time.Duration
	lastCleanup time.Time
}

type window struct {
	count    int
	resetAt  time.Time
	lastSeen time.Time
}

const (
	cleanupInterval    = 5 * time.Minute
	expiredWindowGrace = 10 * time.Minute
	staleEntryTTL      = 24 * time.Hour
)

// NewRateLimiter creates a new in-memory rate limiter.
func NewRateLimiter(max int, windowDuration time.Duration) *RateLimiter {
	return &RateLimiter{
		counters:    make(map[string]*window),
		max:         max,
		window:      windowDuration,
		lastCleanup: time.Now(),
	}
}

// Allow checks whether the client is within its rate limit.
// Returns (allowed, remaining, resetAt).
func (rl *RateLimiter) Allow(clientKey string) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	w, exists := rl.counters[clientKey]
	if !exists || now.After(w.resetAt) {
		rl.counters[clientKey] = &window{
			count:    1,
			resetAt:  now.Add(rl.window),
			lastSeen: now,
		}
		rl.cleanupLocked(now)
		return true, rl.max - 1, now.Add(rl.window)
	}

	w.lastSeen = now
	resetAt := w.resetAt

	if w.count >= rl.max {
		rl.cleanupLocked(now)
		return false, 0, resetAt
	}

	w.count++
	rl.cleanupLocked(now)
	return true, rl.max - w.count, resetAt
}

// RateLimitMiddleware returns middleware that enforces the per-client limit,
// keyed by client IP.
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, resetAt := rl.Allow(clientIPKey(r, "rate"))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !allowed {
				respondError(w, http.StatusTooManyRequests, "Too many requests. Try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) cleanupLocked(now time.Time) {
	if now.Sub(rl.lastCleanup) < cleanupInterval {
		return
	}

	for key, w := range rl.counters {
		if now.Sub(w.lastSeen) > staleEntryTTL || now.After(w.resetAt.Add(expiredWindowGrace)) {
			delete(rl.counters, key)
		}
	}

	rl.lastCleanup = now
}
