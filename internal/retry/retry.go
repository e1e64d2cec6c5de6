// Package retry provides bounded exponential backoff for calls to
// flaky upstream services. Errors marked Permanent stop the loop
// immediately; everything else is considered transient.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Config configures backoff behavior.
type Config struct {
	// Attempts is the total number of tries, including the first.
	Attempts int

	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the wait between retries.
	MaxDelay time.Duration

	// Multiplier grows the delay after each failed attempt.
	Multiplier float64

	// Jitter randomizes each wait to avoid thundering herds.
	Jitter bool
}

// DefaultConfig returns the backoff used for CMS requests.
func DefaultConfig() Config {
	return Config{
		Attempts:     3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. A nil err stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err carries the Permanent marker.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Do runs fn until it succeeds, returns a permanent error, the context
// ends, or the attempts run out. The wait between attempts grows
// exponentially up to MaxDelay.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		var pe *permanentError
		if errors.As(err, &pe) {
			return zero, pe.err
		}
		lastErr = err

		if attempt == cfg.Attempts {
			break
		}

		wait := delay
		if cfg.Jitter {
			wait = time.Duration(float64(delay) * (0.5 + rand.Float64()*0.5))
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return zero, fmt.Errorf("failed after %d attempts: %w", cfg.Attempts, lastErr)
}
