package ratelimiter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("allows requests within the rate limit", func(t *testing.T) {
		rl := &RateLimiter{tokens: 10, capacity: 10, rate: 1, lastRefill: time.Now()}

		assert.True(t, rl.Allow())
		assert.InDelta(t, 9.0, rl.tokens, 0.01)
	})

	t.Run("denies requests when tokens are depleted", func(t *testing.T) {
		rl := &RateLimiter{tokens: 0, capacity: 10, rate: 1, lastRefill: time.Now()}

		assert.False(t, rl.Allow())
	})

	t.Run("refills tokens over time", func(t *testing.T) {
		rl := &RateLimiter{tokens: 0, capacity: 10, rate: 1, lastRefill: time.Now().Add(-2 * time.Second)}

		assert.True(t, rl.Allow())
		assert.InDelta(t, 1.0, rl.tokens, 0.1)
	})

	t.Run("does not exceed capacity", func(t *testing.T) {
		rl := &RateLimiter{tokens: 9, capacity: 10, rate: 1, lastRefill: time.Now().Add(-2 * time.Second)}

		rl.Allow()
		assert.Equal(t, float64(9), rl.tokens)
	})

	t.Run("concurrent requests", func(t *testing.T) {
		rl := &RateLimiter{tokens: 10, capacity: 10, rate: 10, lastRefill: time.Now()}

		var mu sync.Mutex
		wg := sync.WaitGroup{}
		allowed := 0
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if rl.Allow() {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.GreaterOrEqual(t, allowed, 9)
		assert.LessOrEqual(t, allowed, 11)
	})
}

func TestKeyedRateLimiter_getLimiter(t *testing.T) {
	t.Run("creates a new limiter for a new key", func(t *testing.T) {
		k := New(1, 10, time.Minute)
		defer k.Stop()
		limiter := k.getLimiter("10.0.0.1")

		require.NotNil(t, limiter)
		assert.Equal(t, 10.0, limiter.tokens)
		assert.Equal(t, "10.0.0.1", limiter.key)
	})

	t.Run("returns the existing limiter for the same key", func(t *testing.T) {
		k := New(1, 10, time.Minute)
		defer k.Stop()

		assert.Same(t, k.getLimiter("10.0.0.1"), k.getLimiter("10.0.0.1"))
		assert.NotSame(t, k.getLimiter("10.0.0.1"), k.getLimiter("10.0.0.2"))
	})

	t.Run("concurrent access for limiter creation", func(t *testing.T) {
		k := New(1, 10, time.Minute)
		defer k.Stop()
		wg := sync.WaitGroup{}
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				k.Allow("10.0.0.1")
			}()
		}
		wg.Wait()

		k.mu.RLock()
		defer k.mu.RUnlock()
		assert.Len(t, k.limiters, 1)
	})
}

func TestKeyedRateLimiter_Allow(t *testing.T) {
	k := New(1, 2, time.Minute) // 1 request per second, burst 2
	defer k.Stop()

	assert.True(t, k.Allow("10.0.0.1"))
	assert.True(t, k.Allow("10.0.0.1"))
	assert.False(t, k.Allow("10.0.0.1"))

	assert.True(t, k.Allow("10.0.0.2"), "each key has its own bucket")

	time.Sleep(1100 * time.Millisecond)
	assert.True(t, k.Allow("10.0.0.1"))
}

func TestKeyedRateLimiter_cleanup(t *testing.T) {
	t.Run("removes limiter after expiration time", func(t *testing.T) {
		k := New(1, 10, time.Millisecond)
		k.Allow("10.0.0.1")

		require.Eventually(t, func() bool {
			k.mu.RLock()
			defer k.mu.RUnlock()
			_, exists := k.limiters["10.0.0.1"]
			return !exists
		}, 100*time.Millisecond, 10*time.Millisecond)
	})

	t.Run("resets timer on access", func(t *testing.T) {
		k := New(1, 10, 50*time.Millisecond)
		k.Allow("10.0.0.1")

		time.Sleep(30 * time.Millisecond)
		k.Allow("10.0.0.1")
		time.Sleep(30 * time.Millisecond)

		k.mu.RLock()
		_, exists := k.limiters["10.0.0.1"]
		k.mu.RUnlock()
		assert.True(t, exists, "limiter should survive because the timer was reset")

		require.Eventually(t, func() bool {
			k.mu.RLock()
			defer k.mu.RUnlock()
			_, exists := k.limiters["10.0.0.1"]
			return !exists
		}, 200*time.Millisecond, 10*time.Millisecond)
	})
}

func TestKeyedRateLimiter_Stop(t *testing.T) {
	k := New(1, 10, time.Minute)
	k.Allow("10.0.0.1")
	k.Allow("10.0.0.2")

	k.Stop()

	assert.False(t, k.limiters["10.0.0.1"].timer.Stop(), "timer should already be stopped")
	assert.False(t, k.limiters["10.0.0.2"].timer.Stop(), "timer should already be stopped")
}
