package utils

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRetry(attempts int) *RetryConfig {
	return &RetryConfig{MaxAttempts: attempts, Delay: time.Millisecond, Logger: NewTestLogger(&bytes.Buffer{})}
}

func TestAttemptAlwaysFailing(t *testing.T) {
	calls := 0
	got, err := Attempt(context.Background(), testRetry(3), "always-fails", func() (string, error) {
		calls++
		return "ignored", errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, "", got)
	assert.Equal(t, 3, calls)
}

func TestAttemptSucceedsOnThirdCall(t *testing.T) {
	calls := 0
	got, err := Attempt(context.Background(), testRetry(3), "flaky", func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("not yet")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestAttemptFirstTry(t *testing.T) {
	calls := 0
	err := testRetry(3).Do(context.Background(), "ok", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestAttemptZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = testRetry(0).Do(context.Background(), "once", func() error {
		calls++
		return errors.New("fail")
	})
	assert.Equal(t, 1, calls)
}

func TestAttemptStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &RetryConfig{MaxAttempts: 5, Delay: time.Hour, Logger: NewTestLogger(&bytes.Buffer{})}

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- r.Do(ctx, "slow", func() error {
			calls++
			return errors.New("fail")
		})
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.LessOrEqual(t, calls, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not stop after cancellation")
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, Sleep(context.Background(), 0))
}
