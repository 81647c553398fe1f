package webhook

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/listingdesk/backend/internal/subscription"
	"github.com/listingdesk/backend/internal/user"
)

// WelcomeSender delivers the credentials email to a newly created account.
// It is fire-and-forget from the processor's perspective: a failure is
// logged and reported in the result, never escalated.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, email, name, password string, source PasswordSource) error
}

// Result summarizes one processed purchase event.
type Result struct {
	Message        string                  `json:"message"`
	UserCreated    bool                    `json:"user_created"`
	EmailSent      bool                    `json:"email_sent"`
	PasswordSource PasswordSource          `json:"password_source"`
	WebhookID      string                  `json:"webhook_id"`
	UserID         string                  `json:"-"`
	Status         user.SubscriptionStatus `json:"-"`
}

// Processor turns purchase events into user upserts.
type Processor struct {
	store   user.Store
	welcome WelcomeSender
	log     *slog.Logger
	now     func() time.Time
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithWelcomeSender enables welcome emails for newly created users.
func WithWelcomeSender(w WelcomeSender) ProcessorOption {
	return func(p *Processor) { p.welcome = w }
}

// WithLogger sets the processor's logger.
func WithLogger(log *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}

// WithClock overrides the time source used for activation instants.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProcessor creates a webhook processor. Panics on a nil store to fail
// fast during initialization.
func NewProcessor(store user.Store, opts ...ProcessorOption) *Processor {
	if store == nil {
		panic("webhook: user store is required")
	}

	p := &Processor{
		store: store,
		log:   slog.Default(),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process normalizes the payload, resolves the account credential, builds
// the subscription snapshot and upserts the user. A welcome email goes out
// only when the upsert created a new account.
func (p *Processor) Process(ctx context.Context, payload Payload) (Result, error) {
	n, err := Normalize(payload)
	if err != nil {
		return Result{}, err
	}

	password, source := ResolvePassword(n.Password, n.ConfirmPassword)
	snapshot := subscription.ActivateFromPurchase(n.Purchase, p.now())

	u, created, err := p.store.UpsertSubscription(ctx, user.UpsertParams{
		Email:        n.Email,
		Name:         n.Name,
		Password:     password,
		Subscription: snapshot,
		Billing:      n.Billing,
	})
	if err != nil {
		return Result{}, errors.Join(ErrProcessing, err)
	}

	res := Result{
		UserCreated:    created,
		PasswordSource: source,
		WebhookID:      n.Purchase.OrderID,
		UserID:         u.ID,
		Status:         snapshot.Status,
	}
	if created {
		res.Message = "User created successfully from ClickFunnels purchase"
	} else {
		res.Message = "User subscription updated"
	}

	if created && p.welcome != nil {
		if err := p.welcome.SendWelcome(ctx, n.Email, n.Name, password, source); err != nil {
			p.log.ErrorContext(ctx, "failed to send welcome email",
				slog.String("email", n.Email),
				slog.String("error", err.Error()))
		} else {
			res.EmailSent = true
		}
	}

	p.log.InfoContext(ctx, "webhook processed",
		slog.String("email", n.Email),
		slog.Bool("user_created", created),
		slog.Bool("email_sent", res.EmailSent),
		slog.String("password_source", string(source)),
		slog.String("webhook_id", res.WebhookID),
		slog.String("subscription_status", string(snapshot.Status)))

	return res, nil
}
