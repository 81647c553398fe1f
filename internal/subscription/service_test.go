package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listingdesk/backend/internal/subscription"
	"github.com/listingdesk/backend/internal/user"
)

func seedUser(t *testing.T, store *user.MemoryStore, email string, sub user.Subscription) {
	t.Helper()
	_, created, err := store.UpsertSubscription(context.Background(), user.UpsertParams{
		Email:        email,
		Name:         "Test User",
		Password:     "secret-password",
		Subscription: sub,
	})
	require.NoError(t, err)
	require.True(t, created)
}

func TestServiceCheck(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("empty email", func(t *testing.T) {
		t.Parallel()

		svc := subscription.NewService(user.NewMemoryStore(), subscription.WithClock(clock))
		_, err := svc.Check(context.Background(), "")
		assert.ErrorIs(t, err, subscription.ErrEmailRequired)
	})

	t.Run("unknown user is not an error", func(t *testing.T) {
		t.Parallel()

		svc := subscription.NewService(user.NewMemoryStore(), subscription.WithClock(clock))
		ent, err := svc.Check(context.Background(), "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, ent.Subscribed)
		assert.Equal(t, "User not found", ent.Message)
	})

	t.Run("active subscription", func(t *testing.T) {
		t.Parallel()

		store := user.NewMemoryStore()
		end := now.AddDate(0, 0, 10)
		seedUser(t, store, "active@example.com", user.Subscription{
			Status:  user.SubscriptionActive,
			EndDate: &end,
		})

		svc := subscription.NewService(store, subscription.WithClock(clock))
		ent, err := svc.Check(context.Background(), "active@example.com")
		require.NoError(t, err)
		assert.True(t, ent.Subscribed)
		require.NotNil(t, ent.DaysRemaining)
		assert.Equal(t, 10, *ent.DaysRemaining)
	})

	t.Run("stale active snapshot is persisted as expired", func(t *testing.T) {
		t.Parallel()

		store := user.NewMemoryStore()
		end := now.Add(-time.Hour)
		seedUser(t, store, "stale@example.com", user.Subscription{
			Status:  user.SubscriptionActive,
			EndDate: &end,
		})

		svc := subscription.NewService(store, subscription.WithClock(clock))
		ent, err := svc.Check(context.Background(), "stale@example.com")
		require.NoError(t, err)
		assert.False(t, ent.Subscribed)
		assert.Equal(t, subscription.StatusExpired, ent.Status)

		u, err := store.FindByEmail(context.Background(), "stale@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.SubscriptionExpired, u.Subscription.Status)
	})

	t.Run("expired trial clears the trial flag", func(t *testing.T) {
		t.Parallel()

		store := user.NewMemoryStore()
		trialEnd := now.Add(-time.Minute)
		seedUser(t, store, "trial@example.com", user.Subscription{
			Status:        user.SubscriptionTrial,
			IsTrialActive: true,
			TrialEndDate:  &trialEnd,
		})

		svc := subscription.NewService(store, subscription.WithClock(clock))
		ent, err := svc.Check(context.Background(), "trial@example.com")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusTrialExpired, ent.Status)

		u, err := store.FindByEmail(context.Background(), "trial@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.SubscriptionExpired, u.Subscription.Status)
		assert.False(t, u.Subscription.IsTrialActive)
	})

	t.Run("second check after lazy expiry is stable", func(t *testing.T) {
		t.Parallel()

		store := user.NewMemoryStore()
		end := now.Add(-time.Hour)
		seedUser(t, store, "repeat@example.com", user.Subscription{
			Status:  user.SubscriptionActive,
			EndDate: &end,
		})

		svc := subscription.NewService(store, subscription.WithClock(clock))
		_, err := svc.Check(context.Background(), "repeat@example.com")
		require.NoError(t, err)

		ent, err := svc.Check(context.Background(), "repeat@example.com")
		require.NoError(t, err)
		assert.False(t, ent.Subscribed)
		assert.Equal(t, "No active subscription", ent.Message)
	})
}

func TestServiceRenew(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("empty email", func(t *testing.T) {
		t.Parallel()

		svc := subscription.NewService(user.NewMemoryStore(), subscription.WithClock(clock))
		_, err := svc.Renew(context.Background(), "", "")
		assert.ErrorIs(t, err, subscription.ErrEmailRequired)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		svc := subscription.NewService(user.NewMemoryStore(), subscription.WithClock(clock))
		_, err := svc.Renew(context.Background(), "nobody@example.com", "")
		assert.ErrorIs(t, err, subscription.ErrUserNotFound)
	})

	t.Run("renewal grants one month from now", func(t *testing.T) {
		t.Parallel()

		store := user.NewMemoryStore()
		end := now.AddDate(0, -2, 0)
		seedUser(t, store, "renew@example.com", user.Subscription{
			Status:              user.SubscriptionExpired,
			EndDate:             &end,
			ClickfunnelsOrderID: "old-order",
		})

		svc := subscription.NewService(store, subscription.WithClock(clock))
		res, err := svc.Renew(context.Background(), "renew@example.com", "")
		require.NoError(t, err)

		assert.True(t, res.Success)
		assert.Equal(t, "Subscription renewed for 1 month", res.Message)
		assert.Equal(t, now.AddDate(0, 1, 0), res.NewEndDate)
		assert.Equal(t, 30, res.DaysAdded)

		u, err := store.FindByEmail(context.Background(), "renew@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.SubscriptionActive, u.Subscription.Status)
		assert.False(t, u.Subscription.IsTrialActive)
		// No replacement order id was supplied, the old one stays.
		assert.Equal(t, "old-order", u.Subscription.ClickfunnelsOrderID)
	})

	t.Run("new order id replaces the old one", func(t *testing.T) {
		t.Parallel()

		store := user.NewMemoryStore()
		seedUser(t, store, "order@example.com", user.Subscription{
			Status:              user.SubscriptionActive,
			ClickfunnelsOrderID: "old-order",
		})

		svc := subscription.NewService(store, subscription.WithClock(clock))
		_, err := svc.Renew(context.Background(), "order@example.com", "new-order")
		require.NoError(t, err)

		u, err := store.FindByEmail(context.Background(), "order@example.com")
		require.NoError(t, err)
		assert.Equal(t, "new-order", u.Subscription.ClickfunnelsOrderID)
	})
}

func TestServiceExpireDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	newStore := func(t *testing.T) *user.MemoryStore {
		t.Helper()
		store := user.NewMemoryStore()

		pastEnd := now.Add(-time.Hour)
		futureEnd := now.AddDate(0, 0, 10)
		pastTrial := now.Add(-time.Minute)

		seedUser(t, store, "due-active@example.com", user.Subscription{
			Status:  user.SubscriptionActive,
			EndDate: &pastEnd,
		})
		seedUser(t, store, "due-trial@example.com", user.Subscription{
			Status:        user.SubscriptionTrial,
			IsTrialActive: true,
			TrialEndDate:  &pastTrial,
		})
		seedUser(t, store, "current@example.com", user.Subscription{
			Status:  user.SubscriptionActive,
			EndDate: &futureEnd,
		})
		seedUser(t, store, "open-trial@example.com", user.Subscription{
			Status:        user.SubscriptionTrial,
			IsTrialActive: true,
		})
		return store
	}

	t.Run("sweeps only due subscriptions", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		svc := subscription.NewService(store, subscription.WithClock(clock))

		res, err := svc.ExpireDue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, res.ExpiredCount)
		assert.Equal(t, "2 subscriptions expired", res.Message)

		emails := make([]string, 0, len(res.ExpiredUsers))
		for _, eu := range res.ExpiredUsers {
			emails = append(emails, eu.Email)
		}
		assert.ElementsMatch(t, []string{"due-active@example.com", "due-trial@example.com"}, emails)

		u, err := store.FindByEmail(context.Background(), "current@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.SubscriptionActive, u.Subscription.Status)

		u, err = store.FindByEmail(context.Background(), "open-trial@example.com")
		require.NoError(t, err)
		assert.True(t, u.Subscription.IsTrialActive)
	})

	t.Run("second sweep matches nothing", func(t *testing.T) {
		t.Parallel()

		svc := subscription.NewService(newStore(t), subscription.WithClock(clock))

		_, err := svc.ExpireDue(context.Background())
		require.NoError(t, err)

		res, err := svc.ExpireDue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExpiredCount)
		assert.Equal(t, "0 subscriptions expired", res.Message)
	})
}
