// Package sweeper runs the recurring subscription expiry pass. It owns no
// state machine logic itself: each tick delegates to the subscription
// service's bulk expiry and only handles scheduling, overlap protection
// and observability.
package sweeper

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/listingdesk/backend/internal/subscription"
)

// ErrAlreadyRunning is returned by Start when a sweep loop is active.
var ErrAlreadyRunning = errors.New("sweeper is already running")

// DefaultInterval is how often subscriptions are swept for expiry.
const DefaultInterval = time.Hour

// Expirer performs one bulk expiry pass. Implemented by
// subscription.Service.
type Expirer interface {
	ExpireDue(ctx context.Context) (subscription.SweepResult, error)
}

// Sweeper periodically transitions subscriptions past their expiry
// boundary to expired. It is a long-lived task owned by the composition
// root: construct it once, run Start in a goroutine, and cancel the
// context to stop it.
type Sweeper struct {
	expirer  Expirer
	interval time.Duration
	log      *slog.Logger
	running  atomic.Bool
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithInterval sets the sweep interval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the sweeper's logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Sweeper) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a sweeper. Panics on a nil expirer to fail fast during
// initialization.
func New(expirer Expirer, opts ...Option) *Sweeper {
	if expirer == nil {
		panic("sweeper: expirer is required")
	}

	s := &Sweeper{
		expirer:  expirer,
		interval: DefaultInterval,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start sweeps once immediately, then on every interval tick until the
// context is cancelled. A second Start while a loop is active is a no-op
// returning ErrAlreadyRunning, so overlapping loops cannot exist.
func (s *Sweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("sweeper start ignored: already running")
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	s.log.Info("sweeper started", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// IsRunning reports whether a sweep loop is active.
func (s *Sweeper) IsRunning() bool {
	return s.running.Load()
}

// sweep runs one expiry pass. Errors are contained at the tick boundary:
// they are logged and reported as a zero-effect tick so the schedule
// always survives a bad pass.
func (s *Sweeper) sweep(ctx context.Context) subscription.SweepResult {
	res, err := s.expirer.ExpireDue(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "expiry sweep failed", slog.String("error", err.Error()))
		return subscription.SweepResult{Message: "Subscription expiration check failed"}
	}

	if res.ExpiredCount > 0 {
		s.log.InfoContext(ctx, "expired subscriptions",
			slog.Int("count", res.ExpiredCount),
			slog.Any("users", res.ExpiredUsers))
	} else {
		s.log.DebugContext(ctx, "no expired subscriptions found")
	}
	return res
}
