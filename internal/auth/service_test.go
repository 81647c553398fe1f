package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listingdesk/backend/internal/auth"
	"github.com/listingdesk/backend/internal/user"
)

func newService(t *testing.T) (*auth.Service, *user.MemoryStore) {
	t.Helper()

	tokens, err := auth.NewTokenService("test-signing-key-32-bytes-long!!", time.Hour)
	require.NoError(t, err)

	store := user.NewMemoryStore()
	return auth.NewService(store, tokens, nil), store
}

func TestSignUp(t *testing.T) {
	t.Parallel()

	t.Run("creates an account without entitlement", func(t *testing.T) {
		t.Parallel()

		svc, store := newService(t)

		session, err := svc.SignUp(context.Background(), "Jane Doe", "jane@example.com", "long-password")
		require.NoError(t, err)
		require.NotNil(t, session.User)
		assert.NotEmpty(t, session.Token)
		assert.True(t, session.ExpiresAt.After(time.Now()))

		u, err := store.FindByEmail(context.Background(), "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.SubscriptionInactive, u.Subscription.Status)
		assert.Equal(t, user.RoleUser, u.Role)
		assert.Equal(t, user.StatusEnabled, u.Status)
		assert.True(t, u.ValidatePassword("long-password"))
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		_, err := svc.SignUp(context.Background(), "", "jane@example.com", "long-password")
		assert.ErrorIs(t, err, auth.ErrMissingFields)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		_, err := svc.SignUp(context.Background(), "Jane", "jane@example.com", "short")
		assert.ErrorIs(t, err, auth.ErrWeakPassword)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		_, err := svc.SignUp(context.Background(), "Jane", "dup@example.com", "long-password")
		require.NoError(t, err)

		_, err = svc.SignUp(context.Background(), "Janet", "dup@example.com", "other-password")
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		_, err := svc.SignUp(context.Background(), "Jane", "jane@example.com", "long-password")
		require.NoError(t, err)

		session, err := svc.SignIn(context.Background(), "jane@example.com", "long-password")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.Empty(t, session.User.PasswordHash)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		_, err := svc.SignUp(context.Background(), "Jane", "jane@example.com", "long-password")
		require.NoError(t, err)

		_, unknownErr := svc.SignIn(context.Background(), "nobody@example.com", "long-password")
		_, wrongErr := svc.SignIn(context.Background(), "jane@example.com", "wrong-password")
		assert.ErrorIs(t, unknownErr, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, wrongErr, auth.ErrInvalidCredentials)
	})

	t.Run("empty credentials", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		_, err := svc.SignIn(context.Background(), "", "")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
