package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/qistas/opsflow_backend/internal/apperrors"
)

// Policy bounds a retried operation: at most MaxAttempts tries, exponential
// backoff starting at BaseDelay (doubling each attempt), and a per-attempt
// deadline of Timeout.
type Policy struct {
	MaxAttempts uint64
	BaseDelay   time.Duration
	Timeout     time.Duration
}

// DefaultPolicy matches the behaviour expected of transient-infrastructure
// calls: 3 attempts, 250ms base delay, 8s per-attempt deadline.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   250 * time.Millisecond,
		Timeout:     8 * time.Second,
	}
}

// Permanent marks err as non-retryable. Do returns it unwrapped.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op under the policy. Each attempt gets its own deadline derived
// from ctx. Validation, not-found, conflict and terminal-state errors are
// never retried; everything else is treated as transient until the attempt
// budget is exhausted.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	if p.MaxAttempts == 0 {
		p.MaxAttempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = p.BaseDelay * time.Duration(int64(1)<<p.MaxAttempts)

	wrapped := func() error {
		attemptCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}

		err := op(attemptCtx)
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(b, p.MaxAttempts-1), ctx))
}

// isPermanent reports whether err is a business outcome rather than an
// infrastructure hiccup.
func isPermanent(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrStateConflict) ||
		errors.Is(err, apperrors.ErrTerminal) ||
		errors.Is(err, apperrors.ErrDuplicate) ||
		errors.Is(err, apperrors.ErrForbidden)
}
