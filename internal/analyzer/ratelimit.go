package analyzer

import (
	"context"
	"sync"
	"time"
)

// DefaultCallsPerMinute is the rate ceiling applied when none is configured.
const DefaultCallsPerMinute = 50

const rateWindow = time.Minute

// RateLimiter enforces a maximum call rate over a rolling 60-second window.
// Safe for concurrent use.
type RateLimiter struct {
	mu    sync.Mutex
	limit int
	calls []time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a limiter allowing callsPerMinute calls per rolling
// minute. Non-positive values fall back to the default.
func NewRateLimiter(callsPerMinute int) *RateLimiter {
	if callsPerMinute <= 0 {
		callsPerMinute = DefaultCallsPerMinute
	}
	return &RateLimiter{
		limit: callsPerMinute,
		now:   time.Now,
		sleep: sleepContext,
	}
}

// Wait blocks until issuing another call stays within the window, then
// records the call. The only error it can return is ctx cancellation.
// The window is re-checked after every sleep: concurrent waiters woken at
// the same instant compete for the freed slot, and the losers go back to
// sleeping instead of all recording at once.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	for {
		now := r.now()
		r.evict(now)

		if len(r.calls) < r.limit {
			r.calls = append(r.calls, now)
			r.mu.Unlock()
			return nil
		}

		delay := rateWindow - now.Sub(r.calls[0])
		if delay < 0 {
			delay = 0
		}
		r.mu.Unlock()

		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
		r.mu.Lock()
	}
}

// evict drops call timestamps older than the window. Caller holds the lock.
func (r *RateLimiter) evict(now time.Time) {
	cutoff := now.Add(-rateWindow)
	i := 0
	for i < len(r.calls) && !r.calls[i].After(cutoff) {
		i++
	}
	r.calls = r.calls[i:]
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
