package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/listingdesk/backend/internal/user"
)

// RenewResult reports a successful one-month renewal.
type RenewResult struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	NewEndDate time.Time `json:"new_end_date"`
	DaysAdded  int       `json:"days_added"`
}

// SweepResult reports one expiry pass over all subscriptions.
type SweepResult struct {
	ExpiredCount int                `json:"expired_count"`
	ExpiredUsers []user.ExpiredUser `json:"expired_users"`
	Message      string             `json:"message"`
}

// Service answers entitlement queries and drives the time-based
// transitions (lazy expiry, renewal, bulk expiry) against a user store.
type Service struct {
	store user.Store
	log   *slog.Logger
	now   func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for lazy-expiry observability.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source. Tests use this to pin "now".
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the subscription service. Panics on a nil store to
// fail fast during initialization.
func NewService(store user.Store, opts ...ServiceOption) *Service {
	if store == nil {
		panic("subscription: user store is required")
	}

	s := &Service{
		store: store,
		log:   slog.Default(),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check evaluates the user's entitlement at read time. When the evaluation
// signals a pending expiry, the transition is persisted before returning,
// so a stale "active" snapshot flips to expired on the very next read even
// if the sweeper has not run yet.
func (s *Service) Check(ctx context.Context, email string) (Entitlement, error) {
	if email == "" {
		return Entitlement{}, ErrEmailRequired
	}

	u, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return Entitlement{Subscribed: false, Message: "User not found"}, nil
	}
	if err != nil {
		return Entitlement{}, err
	}

	ent := Evaluate(&u.Subscription, s.now())
	if ent.PendingExpiry != nil {
		if err := s.store.ExpireSubscription(ctx, u.Email, ent.PendingExpiry.ClearTrial); err != nil {
			return Entitlement{}, fmt.Errorf("persist lazy expiry: %w", err)
		}
		s.log.InfoContext(ctx, "subscription lazily expired",
			slog.String("email", u.Email),
			slog.String("status", ent.Status))
	}
	return ent, nil
}

// Renew grants a fresh one-month window starting now. The previous end
// date is irrelevant: renewing an expired subscription and renewing an
// active one both end exactly one calendar month after this instant.
func (s *Service) Renew(ctx context.Context, email, newOrderID string) (RenewResult, error) {
	if email == "" {
		return RenewResult{}, ErrEmailRequired
	}

	now := s.now()
	end := now.AddDate(0, 1, 0)

	err := s.store.RenewSubscription(ctx, email, user.Renewal{
		StartDate:       now,
		EndDate:         end,
		NextBillingDate: end,
		OrderID:         newOrderID,
	})
	if errors.Is(err, user.ErrNotFound) {
		return RenewResult{}, ErrUserNotFound
	}
	if err != nil {
		return RenewResult{}, err
	}

	s.log.InfoContext(ctx, "subscription renewed",
		slog.String("email", user.NormalizeEmail(email)),
		slog.Time("new_end_date", end))

	return RenewResult{
		Success:    true,
		Message:    "Subscription renewed for 1 month",
		NewEndDate: end,
		DaysAdded:  30,
	}, nil
}

// ExpireDue transitions every subscription past its boundary to expired in
// one bulk write. Safe to call repeatedly: with no time elapsed a second
// pass matches nothing.
func (s *Service) ExpireDue(ctx context.Context) (SweepResult, error) {
	expired, err := s.store.BulkExpire(ctx, s.now())
	if err != nil {
		return SweepResult{}, err
	}

	return SweepResult{
		ExpiredCount: len(expired),
		ExpiredUsers: expired,
		Message:      fmt.Sprintf("%d subscriptions expired", len(expired)),
	}, nil
}
