package subscription

import (
	"math"
	"time"

	"github.com/listingdesk/backend/internal/user"
)

// Entitlement status values surfaced to clients. When a subscription is
// entitled or denied for a non-expiry reason, Status carries the stored
// subscription status instead.
const (
	StatusTrialExpired = "trial_expired"
	StatusExpired      = "expired"
)

// PendingExpiry signals that Evaluate observed a snapshot past its boundary
// and a lazy-expiry write (status -> expired) is due. ClearTrial is set when
// the boundary that was crossed is the trial window.
type PendingExpiry struct {
	ClearTrial bool
}

// Entitlement is the outcome of evaluating a subscription at an instant.
type Entitlement struct {
	Subscribed      bool           `json:"subscribed"`
	Status          string         `json:"status,omitempty"`
	Message         string         `json:"message"`
	Plan            string         `json:"plan,omitempty"`
	DaysRemaining   *int           `json:"days_remaining,omitempty"`
	TrialEndDate    *time.Time     `json:"trial_end_date,omitempty"`
	EndDate         *time.Time     `json:"end_date,omitempty"`
	ExpiredDate     *time.Time     `json:"expired_date,omitempty"`
	NextBillingDate *time.Time     `json:"next_billing_date,omitempty"`
	PendingExpiry   *PendingExpiry `json:"-"`
}

// Evaluate computes the entitlement of a subscription snapshot at the given
// instant. It is pure: the only side-channel is PendingExpiry, which tells
// the caller a persisted expiry transition is due.
//
// An open trial wins over everything else: while isTrialActive is set and
// the trial window has not closed, the user is entitled regardless of the
// stored status. A trial with no trialEndDate never expires here; that
// matches the behavior the product shipped with.
func Evaluate(sub *user.Subscription, now time.Time) Entitlement {
	if sub == nil {
		return Entitlement{
			Subscribed: false,
			Message:    "No subscription found",
		}
	}

	if sub.IsTrialActive {
		if sub.TrialEndDate != nil && now.After(*sub.TrialEndDate) {
			return Entitlement{
				Subscribed:    false,
				Status:        StatusTrialExpired,
				Message:       "Trial period has expired. Please renew your subscription.",
				PendingExpiry: &PendingExpiry{ClearTrial: true},
			}
		}
		return Entitlement{
			Subscribed:   true,
			Status:       string(user.SubscriptionTrial),
			Message:      "Active trial subscription",
			TrialEndDate: sub.TrialEndDate,
		}
	}

	switch sub.Status {
	case user.SubscriptionActive, user.SubscriptionTrial:
		// Entitlement-bearing statuses, checked against the window below.
	default:
		return Entitlement{
			Subscribed: false,
			Status:     string(sub.Status),
			Message:    "No active subscription",
		}
	}

	if sub.EndDate != nil && now.After(*sub.EndDate) {
		return Entitlement{
			Subscribed:    false,
			Status:        StatusExpired,
			Message:       "Your 1-month subscription has expired. Please renew to continue access.",
			ExpiredDate:   sub.EndDate,
			PendingExpiry: &PendingExpiry{},
		}
	}

	ent := Entitlement{
		Subscribed:      true,
		Status:          string(sub.Status),
		Message:         "Active subscription",
		Plan:            sub.Plan,
		EndDate:         sub.EndDate,
		NextBillingDate: sub.NextBillingDate,
	}
	if sub.EndDate != nil {
		days := int(math.Ceil(sub.EndDate.Sub(now).Hours() / 24))
		ent.DaysRemaining = &days
	}
	return ent
}
