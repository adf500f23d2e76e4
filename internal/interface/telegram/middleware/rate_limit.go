// Package middleware contains the cross-cutting steps every chat update passes
// through before and after it reaches the engines.
package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER
// Per-user token buckets. Idle buckets are dropped by a background sweep so
// the map does not grow with every user the bot has ever seen.
// ══════════════════════════════════════════════════════════════════════════════

// RateLimitConfig holds configuration for the rate limiter.
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained rate per user. Zero disables limiting.
	RequestsPerMinute int

	// BurstSize is the number of updates a user may send back to back.
	BurstSize int

	// CleanupInterval is how often idle buckets are swept.
	CleanupInterval time.Duration

	// IdleTTL is how long a bucket may go unused before it is dropped.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns sensible defaults for rate limiting.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 30,
		BurstSize:         5,
		CleanupInterval:   5 * time.Minute,
		IdleTTL:           10 * time.Minute,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles updates per user.
type RateLimiter struct {
	config   RateLimitConfig
	limit    rate.Limit
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.BurstSize <= 0 {
		config.BurstSize = 1
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 2 * config.CleanupInterval
	}

	return &RateLimiter{
		config:   config,
		limit:    rate.Limit(float64(config.RequestsPerMinute) / 60.0),
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Enabled reports whether limiting is active.
func (r *RateLimiter) Enabled() bool {
	return r.config.RequestsPerMinute > 0
}

// Allow consumes one token from userID's bucket.
func (r *RateLimiter) Allow(userID string) bool {
	if !r.Enabled() {
		return true
	}

	now := r.now()

	r.mu.Lock()
	v, ok := r.visitors[userID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r.limit, r.config.BurstSize)}
		r.visitors[userID] = v
	}
	v.lastSeen = now
	r.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Cleanup drops buckets idle for longer than IdleTTL and returns how many
// were removed.
func (r *RateLimiter) Cleanup() int {
	cutoff := r.now().Add(-r.config.IdleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, v := range r.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(r.visitors, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked users.
func (r *RateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}

// Run sweeps idle buckets until ctx is done.
func (r *RateLimiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Cleanup()
		}
	}
}
