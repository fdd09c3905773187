package ratelimiter

import (
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter
type RateLimiter struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
	timer      *time.Timer
	key        string           // Reference to key for cleanup
	parent     *KeyedRateLimiter // Reference to parent for cleanup
}

// KeyedRateLimiter keeps one bucket per key (client IP for auth forms).
// Idle buckets are dropped after expirationTime.
type KeyedRateLimiter struct {
	limiters       map[string]*RateLimiter
	mu             sync.RWMutex
	rate           float64
	capacity       float64
	expirationTime time.Duration
}

// New creates a limiter refilling rate tokens per second up to capacity.
func New(rate float64, capacity float64, expirationTime time.Duration) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters:       make(map[string]*RateLimiter),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

// cleanup removes a specific limiter
func (k *KeyedRateLimiter) cleanup(key string) {
	k.mu.Lock()
	delete(k.limiters, key)
	k.mu.Unlock()
}

// resetTimer pushes back expiry of an in-use limiter. Caller holds rl.mu.
func (rl *RateLimiter) resetTimer() {
	if rl.timer != nil {
		rl.timer.Stop()
	}
	rl.timer = time.AfterFunc(rl.parent.expirationTime, func() {
		rl.parent.cleanup(rl.key)
	})
}

// getLimiter gets or creates a rate limiter for a key
func (k *KeyedRateLimiter) getLimiter(key string) *RateLimiter {
	k.mu.RLock()
	limiter, exists := k.limiters[key]
	k.mu.RUnlock()
	if exists {
		return limiter
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = k.limiters[key]; exists {
		return limiter
	}

	limiter = &RateLimiter{
		tokens:     k.capacity,
		capacity:   k.capacity,
		rate:       k.rate,
		lastRefill: time.Now(),
		key:        key,
		parent:     k,
	}
	k.limiters[key] = limiter
	limiter.resetTimer()
	return limiter
}

func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.parent != nil {
		rl.resetTimer()
	}

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()

	// Refill tokens based on elapsed time
	rl.tokens += elapsed * rl.rate
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}

	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}

	return false
}

// Allow checks if a request should be allowed for key
func (k *KeyedRateLimiter) Allow(key string) bool {
	return k.getLimiter(key).Allow()
}

// Stop cleans up all timers
func (k *KeyedRateLimiter) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, limiter := range k.limiters {
		limiter.mu.Lock()
		if limiter.timer != nil {
			limiter.timer.Stop()
		}
		limiter.mu.Unlock()
	}
}
