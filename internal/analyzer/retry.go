package analyzer

import (
	"context"
	"time"
)

// DefaultMaxRetries is the attempt budget applied when none is configured.
const DefaultMaxRetries = 3

// Backoff returns the delay taken after a failed attempt, with attempts
// counted from 0: 1s, 2s, 4s, ...
func Backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// callWithRetry drives the transport call through the rate limiter with
// exponential backoff between attempts. Transport errors are retried up to
// the budget; the last error is returned once it is exhausted. Context
// cancellation stops the loop immediately.
func (e *Engine) callWithRetry(ctx context.Context, req callRequest) (string, error) {
	var lastErr error
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		if attempt > 0 {
			if err := e.sleep(ctx, Backoff(attempt-1)); err != nil {
				return "", err
			}
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return "", err
		}

		text, err := e.call(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", lastErr
}
