// Package retry re-runs inventory requests that failed for transient reasons.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"time"

	"nathanbeddoewebdev/ptrgen/internal/domain"
)

// Predicate determines whether an error should be retried.
type Predicate func(error) bool

// Config controls retry behavior.
type Config struct {
	// MaxAttempts includes the first call. Values below 1 mean a single attempt.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// OnRetry, if set, is called before each wait.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig returns the retry configuration used for inventory calls.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Do executes fn until it succeeds, returns an error shouldRetry rejects,
// or MaxAttempts is reached. The last error is returned unchanged.
func Do(ctx context.Context, config Config, shouldRetry Predicate, fn func() error) error {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	if shouldRetry == nil {
		shouldRetry = IsTransient
	}

	var err error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		if err == nil {
			return nil
		}
		if attempt == config.MaxAttempts || !shouldRetry(err) {
			return err
		}

		delay := backoffDelay(config.BaseDelay, config.MaxDelay, attempt)
		if config.OnRetry != nil {
			config.OnRetry(attempt, err, delay)
		}
		if delay <= 0 {
			continue
		}
		if !sleep(ctx, delay) {
			return ctx.Err()
		}
	}

	return err
}

// IsTransient reports whether err is worth another attempt: throttling,
// a temporarily unavailable inventory, or a network timeout. Decode
// failures and authorization errors never are.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, domain.ErrMalformedResponse), errors.Is(err, domain.ErrUnauthorized):
		return false
	case errors.Is(err, domain.ErrRateLimited), errors.Is(err, domain.ErrUnavailable):
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// backoffDelay returns a jittered delay in [0, min(base*2^(attempt-1), max)].
func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := base << (attempt - 1)
	if max > 0 && delay > max {
		delay = max
	}

	jitterMax := int64(delay)
	if jitterMax <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(jitterMax + 1))
}

func sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
