package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig holds the parameters for the retry strategy. The delay between
// attempts is fixed.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Logger      *Logger
}

// Do executes fn until it succeeds, the attempts are used up or ctx is done.
func (r *RetryConfig) Do(ctx context.Context, operationName string, fn func() error) error {
	_, err := Attempt(ctx, r, operationName, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Attempt executes fn with bounded retry and returns its first successful
// result. On exhaustion the zero value is returned with the last error;
// callers that treat exhaustion as "no result" only check the error.
func Attempt[T any](ctx context.Context, r *RetryConfig, operationName string, fn func() (T, error)) (T, error) {
	var zero T
	maxAttempts := r.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt < maxAttempts {
			r.Logger.Debug("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
				operationName, attempt, maxAttempts, err, r.Delay)
			if err := Sleep(ctx, r.Delay); err != nil {
				return zero, err
			}
		}
	}

	r.Logger.Warn("[retry] %s: max retries reached (%d), skipping: %v", operationName, maxAttempts, lastErr)
	return zero, fmt.Errorf("%s failed after %d attempts: %w", operationName, maxAttempts, lastErr)
}

// Sleep pauses for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
