package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()

		_, err := New(nil, Config{Limit: 10, Window: time.Minute})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore(WithCleanupInterval(0))
		_, err := New(store, Config{Limit: 0, Window: time.Minute})
		assert.ErrorIs(t, err, ErrInvalidConfig)

		_, err = New(store, Config{Limit: 10, Window: 0})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestMemoryStoreTake(t *testing.T) {
	t.Parallel()

	cfg := Config{Limit: 3, Window: time.Minute}
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("allows up to the limit", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore(WithCleanupInterval(0))
		defer store.Close()

		for i := range 3 {
			remaining, _, err := store.Take(context.Background(), "ip-1", now, cfg)
			require.NoError(t, err)
			assert.Equal(t, 2-i, remaining)
		}

		remaining, resetAt, err := store.Take(context.Background(), "ip-1", now, cfg)
		require.NoError(t, err)
		assert.Negative(t, remaining)
		assert.Equal(t, now.Add(time.Minute), resetAt)
	})

	t.Run("window slides", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore(WithCleanupInterval(0))
		defer store.Close()

		for range 3 {
			_, _, err := store.Take(context.Background(), "ip-1", now, cfg)
			require.NoError(t, err)
		}

		remaining, _, err := store.Take(context.Background(), "ip-1", now, cfg)
		require.NoError(t, err)
		assert.Negative(t, remaining)

		// The first hits age out, capacity returns.
		later := now.Add(cfg.Window + time.Second)
		remaining, _, err = store.Take(context.Background(), "ip-1", later, cfg)
		require.NoError(t, err)
		assert.Equal(t, 2, remaining)
	})

	t.Run("denied requests do not extend the lockout", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore(WithCleanupInterval(0))
		defer store.Close()

		for range 3 {
			_, _, err := store.Take(context.Background(), "ip-1", now, cfg)
			require.NoError(t, err)
		}

		// Hammering while denied must not move the reset time.
		for i := range 5 {
			_, resetAt, err := store.Take(context.Background(), "ip-1", now.Add(time.Duration(i)*time.Second), cfg)
			require.NoError(t, err)
			assert.Equal(t, now.Add(time.Minute), resetAt)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore(WithCleanupInterval(0))
		defer store.Close()

		for range 3 {
			_, _, err := store.Take(context.Background(), "ip-1", now, cfg)
			require.NoError(t, err)
		}

		remaining, _, err := store.Take(context.Background(), "ip-2", now, cfg)
		require.NoError(t, err)
		assert.Equal(t, 2, remaining)
	})

	t.Run("reset clears the window", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore(WithCleanupInterval(0))
		defer store.Close()

		for range 3 {
			_, _, err := store.Take(context.Background(), "ip-1", now, cfg)
			require.NoError(t, err)
		}
		require.NoError(t, store.Reset(context.Background(), "ip-1"))

		remaining, _, err := store.Take(context.Background(), "ip-1", now, cfg)
		require.NoError(t, err)
		assert.Equal(t, 2, remaining)
	})
}

func TestResult(t *testing.T) {
	t.Parallel()

	t.Run("allowed", func(t *testing.T) {
		t.Parallel()

		r := &Result{Limit: 10, Remaining: 0, ResetAt: time.Now().Add(time.Minute)}
		assert.True(t, r.Allowed())
		assert.Zero(t, r.RetryAfter())
	})

	t.Run("denied", func(t *testing.T) {
		t.Parallel()

		r := &Result{Limit: 10, Remaining: -1, ResetAt: time.Now().Add(time.Minute)}
		assert.False(t, r.Allowed())
		assert.Positive(t, r.RetryAfter())
	})
}
