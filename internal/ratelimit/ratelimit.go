// Package ratelimit provides a keyed token-bucket rate limiter.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxIdleKeys bounds how many idle limiters are kept before a sweep.
const maxIdleKeys = 10000

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent rate limiter.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// New creates a keyed rate limiter allowing perMinute events per key with
// the given burst.
func New(perMinute float64, burst int) *KeyedRateLimiter {
	return NewWithClock(perMinute, burst, time.Now)
}

// NewWithClock is New with an injected clock.
func NewWithClock(perMinute float64, burst int, now func() time.Time) *KeyedRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedRateLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		now:      now,
	}
}

// Allow reports whether an event for key may happen now and consumes a
// token if so.
func (k *KeyedRateLimiter) Allow(key string) bool {
	now := k.now()

	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.limiters[key]
	if !ok {
		if len(k.limiters) >= maxIdleKeys {
			k.sweep(now)
		}
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// RetryAfter returns how long until key gets its next token.
func (k *KeyedRateLimiter) RetryAfter(key string) time.Duration {
	now := k.now()

	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.limiters[key]
	if !ok || k.limit <= 0 {
		return 0
	}
	tokens := e.limiter.TokensAt(now)
	if tokens >= 1 {
		return 0
	}
	return time.Duration((1 - tokens) / float64(k.limit) * float64(time.Second))
}

// Reset forgets key, restoring its full burst.
func (k *KeyedRateLimiter) Reset(key string) {
	k.mu.Lock()
	delete(k.limiters, key)
	k.mu.Unlock()
}

// sweep drops limiters that have refilled completely. Caller holds mu.
func (k *KeyedRateLimiter) sweep(now time.Time) {
	for key, e := range k.limiters {
		if e.limiter.TokensAt(now) >= float64(k.burst) {
			delete(k.limiters, key)
		}
	}
}
