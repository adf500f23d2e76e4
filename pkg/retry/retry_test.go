package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDo_RetriesRetryableUntilSuccess(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return Retryable(errors.New("busy"))
		}
		return nil
	}, WithMaxAttempts(5), WithInitialDelay(time.Millisecond), WithJitter(0))

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_StopsOnPlainError(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return boom
	}, WithMaxAttempts(5), WithInitialDelay(time.Millisecond))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestDo_ExhaustedReturnsUnwrapped(t *testing.T) {
	busy := errors.New("busy")
	err := Do(context.Background(), func(ctx context.Context) error {
		return Retryable(busy)
	}, WithMaxAttempts(2), WithInitialDelay(time.Millisecond))

	assert.Equal(t, busy, err)
	assert.False(t, IsRetryable(err))
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func(ctx context.Context) error {
		t.Fatal("operation must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_RetryAfterOverridesShorterBackoff(t *testing.T) {
	var delays []time.Duration
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return RetryAfter(errors.New("slow down"), 30*time.Millisecond)
		}
		return nil
	},
		WithMaxAttempts(3),
		WithInitialDelay(time.Millisecond),
		WithJitter(0),
		WithOnRetry(func(_ int, _ error, d time.Duration) { delays = append(delays, d) }),
	)

	assert.NoError(t, err)
	assert.Equal(t, []time.Duration{30 * time.Millisecond}, delays)
}

func TestDo_RetryAfterShorterThanBackoffKeepsBackoff(t *testing.T) {
	var delays []time.Duration
	_ = Do(context.Background(), func(ctx context.Context) error {
		return RetryAfter(errors.New("slow down"), time.Millisecond)
	},
		WithMaxAttempts(2),
		WithInitialDelay(20*time.Millisecond),
		WithJitter(0),
		WithOnRetry(func(_ int, _ error, d time.Duration) { delays = append(delays, d) }),
	)

	assert.Equal(t, []time.Duration{20 * time.Millisecond}, delays)
}
