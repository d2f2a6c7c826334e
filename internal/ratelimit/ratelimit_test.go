package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name      string
		perMinute float64
		burst     int
		calls     int
		wantPass  int
	}{
		{name: "burst allows initial requests", perMinute: 60, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", perMinute: 60, burst: 2, calls: 5, wantPass: 2},
		{name: "zero burst still allows one", perMinute: 60, burst: 0, calls: 3, wantPass: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
			rl := NewWithClock(tt.perMinute, tt.burst, clock.Now)

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("alice") {
					passed++
				}
			}

			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl := NewWithClock(5, 1, clock.Now)

	assert.True(t, rl.Allow("alice"))
	assert.False(t, rl.Allow("alice"))
	assert.True(t, rl.Allow("bob"))
}

func TestKeyedRateLimiter_Refill(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl := NewWithClock(6, 1, clock.Now)

	assert.True(t, rl.Allow("alice"))
	assert.False(t, rl.Allow("alice"))
	assert.InDelta(t, float64(10*time.Second), float64(rl.RetryAfter("alice")), float64(time.Millisecond))

	clock.t = clock.t.Add(10 * time.Second)
	assert.True(t, rl.Allow("alice"))
}

func TestKeyedRateLimiter_Reset(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl := NewWithClock(1, 1, clock.Now)

	assert.True(t, rl.Allow("alice"))
	assert.False(t, rl.Allow("alice"))

	rl.Reset("alice")

	assert.True(t, rl.Allow("alice"))
	assert.Zero(t, rl.RetryAfter("unknown"))
}
