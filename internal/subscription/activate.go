package subscription

import (
	"time"

	"github.com/listingdesk/backend/internal/user"
)

// Purchase is the canonical form of an external purchase event after
// webhook normalization. All fields except OrderID-less basics are
// optional; zero values mean the event did not carry them.
type Purchase struct {
	OrderID     string
	Product     string
	Amount      string
	Currency    string
	InTrial     bool
	ActivatedAt *time.Time
	TrialEndAt  *time.Time
}

// ActivateFromPurchase builds the full subscription snapshot for a
// purchase. The grant is exactly one calendar month from the activation
// instant; the next billing date coincides with the end of the window
// because there is no recurring cycle beyond it.
//
// The result is a complete overwrite of whatever snapshot the user had.
// Re-delivering the same event yields a byte-identical snapshot (same
// activation source, same derived end date), which is what makes webhook
// processing idempotent without dedup storage.
func ActivateFromPurchase(p Purchase, now time.Time) user.Subscription {
	start := now
	if p.ActivatedAt != nil {
		start = *p.ActivatedAt
	}
	end := start.AddDate(0, 1, 0)

	status := user.SubscriptionActive
	if p.InTrial {
		status = user.SubscriptionTrial
	}

	currency := p.Currency
	if currency == "" {
		currency = user.DefaultCurrency
	}

	return user.Subscription{
		Status:              status,
		Plan:                p.Product,
		StartDate:           &start,
		EndDate:             &end,
		TrialEndDate:        p.TrialEndAt,
		IsTrialActive:       p.InTrial,
		ClickfunnelsOrderID: p.OrderID,
		Amount:              p.Amount,
		Currency:            currency,
		BillingCycle:        user.BillingCycleMonthly,
		NextBillingDate:     &end,
	}
}
