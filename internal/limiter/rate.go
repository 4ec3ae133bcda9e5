package limiter

import (
	"context"
	"sync"
	"time"
)

// RateLimiter caps the number of requests started within any one-second window
type RateLimiter struct {
	requestTimes []time.Time
	maxRequests  int
	window       time.Duration
	now          func() time.Time
	mu           sync.Mutex
}

func NewRateLimiter(maxRequests int) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	return &RateLimiter{
		requestTimes: make([]time.Time, 0, maxRequests),
		maxRequests:  maxRequests,
		window:       time.Second,
		now:          time.Now,
	}
}

// Allow records a request and reports true when the window still has room
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	windowStart := now.Add(-r.window)

	// Drop requests older than the window
	validTimes := r.requestTimes[:0]
	for _, t := range r.requestTimes {
		if t.After(windowStart) {
			validTimes = append(validTimes, t)
		}
	}
	r.requestTimes = validTimes

	if len(r.requestTimes) < r.maxRequests {
		r.requestTimes = append(r.requestTimes, now)
		return true
	}

	return false
}

// Wait polls Allow every delay until it succeeds or ctx is done
func (r *RateLimiter) Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		delay = 10 * time.Millisecond
	}
	for !r.Allow() {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
