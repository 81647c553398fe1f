// Package ratelimit implements a store-backed sliding-window rate limiter
// for the webhook endpoint. The default in-memory store suits a single
// instance; the Redis store shares the window across replicas.
package ratelimit

import (
	"context"
	"time"
)

// Config defines the sliding window.
type Config struct {
	Limit  int           `env:"WEBHOOK_RATE_LIMIT" envDefault:"10"`
	Window time.Duration `env:"WEBHOOK_RATE_WINDOW" envDefault:"1m"`
}

func (c Config) validate() error {
	if c.Limit <= 0 {
		return ErrInvalidConfig
	}
	if c.Window <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Result contains the outcome of a rate limit check. Remaining is negative
// when the request was denied.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allowed reports whether the request may proceed.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before the next request.
// Returns 0 if the request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Store tracks request hits per key inside a sliding window.
type Store interface {
	// Take records a hit at now unless the key already has Limit hits
	// inside the window. It returns how many hits remain (negative when
	// denied) and when the oldest hit leaves the window.
	Take(ctx context.Context, key string, now time.Time, cfg Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the window for the given key.
	Reset(ctx context.Context, key string) error
}

// Limiter is a sliding-window rate limiter over a Store.
type Limiter struct {
	store Store
	cfg   Config
}

// New creates a limiter, validating the configuration up front.
func New(store Store, cfg Config) (*Limiter, error) {
	if store == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Limiter{store: store, cfg: cfg}, nil
}

// Allow checks and records one request for the key.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	remaining, resetAt, err := l.store.Take(ctx, key, time.Now(), l.cfg)
	if err != nil {
		return nil, err
	}
	return &Result{
		Limit:     l.cfg.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the window for the key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}
