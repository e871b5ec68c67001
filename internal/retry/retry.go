// Package retry runs a function under a fixed attempt budget. The budgets
// here are counted, not timed: the caller decides how many tries a stage
// deserves and gets a typed error back when they run out.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Options configures one bounded loop.
type Options struct {
	// Name identifies the stage in logs and in the ExhaustedError.
	Name string
	// Attempts is the budget; values below one mean a single attempt.
	Attempts int
	// Delay is an optional pause before each retry (never before the
	// first attempt).
	Delay time.Duration
	// Logger receives one debug event per failed attempt.
	Logger zerolog.Logger
}

// Do invokes fn until it succeeds or the budget is spent. A nil error from
// fn ends the loop immediately; no further attempts are made. Context
// cancellation is honored between attempts.
func Do[T any](ctx context.Context, opts Options, fn func(attempt int) (T, error)) (T, error) {
	var zero T
	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(opts.Delay):
			}
		} else if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err
		opts.Logger.Debug().
			Str("stage", opts.Name).
			Int("attempt", attempt).
			Int("budget", attempts).
			Err(err).
			Msg("attempt failed")
	}

	return zero, &ExhaustedError{Name: opts.Name, Attempts: attempts, Last: lastErr}
}

// ExhaustedError reports a spent attempt budget, carrying the last failure.
type ExhaustedError struct {
	Name     string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: budget of %d attempts exhausted: %v", e.Name, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }
