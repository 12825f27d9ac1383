package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Strategy computes the delay before retry attempt n (1-based).
type Strategy func(attempt int) time.Duration

// Linear grows the delay by base per attempt: base, 2*base, 3*base, ...
func Linear(base time.Duration) Strategy {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return time.Duration(attempt) * base
	}
}

// Exponential doubles the delay per attempt, capped at max.
func Exponential(base, max time.Duration) Strategy {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		d := base << uint(attempt-1)
		if d > max || d < 0 {
			return max
		}
		return d
	}
}

// Policy is a bounded retry policy: run an operation up to MaxAttempts times,
// waiting Backoff(attempt) between failures.
type Policy struct {
	MaxAttempts int
	Backoff     Strategy
}

// ErrAttemptsExhausted wraps the last error once every attempt has failed.
var ErrAttemptsExhausted = errors.New("retry attempts exhausted")

// Do runs fn until it succeeds, the attempts are exhausted, or the context is
// canceled. The returned error carries the last attempt's error.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := p.Backoff
	if backoff == nil {
		backoff = Linear(time.Second)
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		last = fn(ctx)
		if last == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, attempts, last)
}
