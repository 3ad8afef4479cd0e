package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/qistas/opsflow_backend/internal/apperrors"
	"github.com/qistas/opsflow_backend/internal/utils/retry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		Timeout:     time.Second,
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := retry.Do(context.Background(), fastPolicy(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_ExhaustsAttemptBudget(t *testing.T) {
	attempts := 0
	transient := errors.New("timeout waiting for connection")

	err := retry.Do(context.Background(), fastPolicy(), func(ctx context.Context) error {
		attempts++
		return transient
	})

	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 3, attempts)
}

func TestDo_ValidationErrorsAreNotRetried(t *testing.T) {
	attempts := 0
	err := retry.Do(context.Background(), fastPolicy(), func(ctx context.Context) error {
		attempts++
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, 1, attempts)
}

func TestDo_StateConflictIsNotRetried(t *testing.T) {
	attempts := 0
	err := retry.Do(context.Background(), fastPolicy(), func(ctx context.Context) error {
		attempts++
		return apperrors.ErrStateConflict
	})

	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	assert.Equal(t, 1, attempts)
}

func TestDo_PermanentWrapperStopsRetries(t *testing.T) {
	attempts := 0
	boom := errors.New("bad payload")

	err := retry.Do(context.Background(), fastPolicy(), func(ctx context.Context) error {
		attempts++
		return retry.Permanent(boom)
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestDo_AttemptDeadlineIsApplied(t *testing.T) {
	p := retry.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond, Timeout: 10 * time.Millisecond}

	err := retry.Do(context.Background(), p, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDo_RespectsCancelledParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := retry.Do(ctx, fastPolicy(), func(ctx context.Context) error {
		attempts++
		return errors.New("transient")
	})

	assert.Error(t, err)
	assert.LessOrEqual(t, attempts, 1)
}
