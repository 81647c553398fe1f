package sweeper_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listingdesk/backend/internal/subscription"
	"github.com/listingdesk/backend/internal/sweeper"
)

type countingExpirer struct {
	calls atomic.Int64
	err   error
}

func (c *countingExpirer) ExpireDue(ctx context.Context) (subscription.SweepResult, error) {
	c.calls.Add(1)
	if c.err != nil {
		return subscription.SweepResult{}, c.err
	}
	return subscription.SweepResult{Message: "0 subscriptions expired"}, nil
}

func waitForCalls(t *testing.T, c *countingExpirer, want int64) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if c.calls.Load() >= want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("expirer reached %d calls, want at least %d", c.calls.Load(), want)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSweeperStart(t *testing.T) {
	t.Parallel()

	t.Run("sweeps immediately and then on the interval", func(t *testing.T) {
		t.Parallel()

		expirer := &countingExpirer{}
		s := sweeper.New(expirer, sweeper.WithInterval(20*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Start(ctx) }()

		waitForCalls(t, expirer, 3)
		cancel()

		err := <-done
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, s.IsRunning())
	})

	t.Run("second start is rejected while running", func(t *testing.T) {
		t.Parallel()

		expirer := &countingExpirer{}
		s := sweeper.New(expirer, sweeper.WithInterval(time.Hour))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- s.Start(ctx) }()
		waitForCalls(t, expirer, 1)

		require.True(t, s.IsRunning())
		assert.ErrorIs(t, s.Start(ctx), sweeper.ErrAlreadyRunning)

		cancel()
		<-done
	})

	t.Run("restart after stop is allowed", func(t *testing.T) {
		t.Parallel()

		expirer := &countingExpirer{}
		s := sweeper.New(expirer, sweeper.WithInterval(time.Hour))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Start(ctx) }()
		waitForCalls(t, expirer, 1)
		cancel()
		<-done

		ctx2, cancel2 := context.WithCancel(context.Background())
		go func() { done <- s.Start(ctx2) }()
		waitForCalls(t, expirer, 2)
		cancel2()
		<-done
	})

	t.Run("a failing sweep does not stop the loop", func(t *testing.T) {
		t.Parallel()

		expirer := &countingExpirer{err: errors.New("db down")}
		s := sweeper.New(expirer, sweeper.WithInterval(20*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Start(ctx) }()

		waitForCalls(t, expirer, 3)
		cancel()
		<-done
	})
}
