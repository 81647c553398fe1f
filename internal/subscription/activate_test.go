package subscription_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listingdesk/backend/internal/subscription"
	"github.com/listingdesk/backend/internal/user"
)

func TestActivateFromPurchase(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 31, 10, 30, 0, 0, time.UTC)

	t.Run("paid purchase", func(t *testing.T) {
		t.Parallel()

		sub := subscription.ActivateFromPurchase(subscription.Purchase{
			OrderID:  "order-123",
			Product:  "ListingDesk Pro",
			Amount:   "29.99",
			Currency: "usd",
		}, now)

		assert.Equal(t, user.SubscriptionActive, sub.Status)
		assert.Equal(t, "ListingDesk Pro", sub.Plan)
		assert.Equal(t, "order-123", sub.ClickfunnelsOrderID)
		assert.Equal(t, "29.99", sub.Amount)
		assert.Equal(t, "usd", sub.Currency)
		assert.Equal(t, user.BillingCycleMonthly, sub.BillingCycle)
		assert.False(t, sub.IsTrialActive)

		require.NotNil(t, sub.StartDate)
		require.NotNil(t, sub.EndDate)
		assert.Equal(t, now, *sub.StartDate)
		assert.Equal(t, now.AddDate(0, 1, 0), *sub.EndDate)
		require.NotNil(t, sub.NextBillingDate)
		assert.Equal(t, *sub.EndDate, *sub.NextBillingDate)
	})

	t.Run("trial purchase", func(t *testing.T) {
		t.Parallel()

		trialEnd := now.AddDate(0, 0, 14)
		sub := subscription.ActivateFromPurchase(subscription.Purchase{
			OrderID:    "order-456",
			InTrial:    true,
			TrialEndAt: &trialEnd,
		}, now)

		assert.Equal(t, user.SubscriptionTrial, sub.Status)
		assert.True(t, sub.IsTrialActive)
		require.NotNil(t, sub.TrialEndDate)
		assert.Equal(t, trialEnd, *sub.TrialEndDate)
	})

	t.Run("explicit activation instant wins over now", func(t *testing.T) {
		t.Parallel()

		activated := now.Add(-48 * time.Hour)
		sub := subscription.ActivateFromPurchase(subscription.Purchase{
			ActivatedAt: &activated,
		}, now)

		require.NotNil(t, sub.StartDate)
		assert.Equal(t, activated, *sub.StartDate)
		assert.Equal(t, activated.AddDate(0, 1, 0), *sub.EndDate)
	})

	t.Run("currency defaults to gbp", func(t *testing.T) {
		t.Parallel()

		sub := subscription.ActivateFromPurchase(subscription.Purchase{}, now)
		assert.Equal(t, user.DefaultCurrency, sub.Currency)
	})

	t.Run("redelivery yields an identical snapshot", func(t *testing.T) {
		t.Parallel()

		activated := now.Add(-time.Hour)
		p := subscription.Purchase{OrderID: "order-789", ActivatedAt: &activated}

		first := subscription.ActivateFromPurchase(p, now)
		second := subscription.ActivateFromPurchase(p, now.Add(5*time.Minute))
		assert.Equal(t, first, second)
	})
}
