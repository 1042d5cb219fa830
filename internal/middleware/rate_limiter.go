package middleware

import (
	"sync"
	"time"
)

// RateLimiter implements a simple in-memory fixed-window rate limiter
// keyed by an arbitrary string (reporter email, client IP).
type RateLimiter struct {
	limits map[string]*limit
	mu     sync.RWMutex

	maxRequests int
	window      time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

type limit struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limits:      make(map[string]*limit),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		stop:        make(chan struct{}),
	}

	go rl.cleanup(5 * time.Minute)

	return rl
}

// Allow records a request for key and reports whether it is within limit
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	l, exists := rl.limits[key]
	if !exists || now.After(l.resetTime) {
		rl.limits[key] = &limit{
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	if l.requests >= rl.maxRequests {
		return false
	}

	l.requests++
	return true
}

// Remaining returns remaining requests for key in the current window
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	l, exists := rl.limits[key]
	if !exists || rl.now().After(l.resetTime) {
		return rl.maxRequests
	}

	remaining := rl.maxRequests - l.requests
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup removes expired entries
func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, l := range rl.limits {
				if now.After(l.resetTime) {
					delete(rl.limits, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Reset clears all rate limits (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.limits = make(map[string]*limit)
}
