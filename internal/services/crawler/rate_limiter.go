package crawler

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a minimum delay between page loads so the crawl does
// not hammer the platform.
type RateLimiter struct {
	mu          sync.Mutex
	lastRequest time.Time
	delay       time.Duration
}

// NewRateLimiter creates a rate limiter with the specified delay
func NewRateLimiter(delay time.Duration) *RateLimiter {
	return &RateLimiter{delay: delay}
}

// Wait blocks until the delay since the previous request has elapsed, or
// the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	nextAllowed := rl.lastRequest.Add(rl.delay)

	if now.Before(nextAllowed) {
		timer := time.NewTimer(nextAllowed.Sub(now))
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	rl.lastRequest = time.Now()
	return nil
}
