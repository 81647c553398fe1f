// Package auth provides password sign-up/sign-in and HS256 session tokens
// for the API's gated routes.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/listingdesk/backend/internal/user"
)

// Session is a signed-in user plus their token.
type Session struct {
	User      *user.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Service implements password authentication against the user store.
type Service struct {
	store  user.Store
	tokens *TokenService
	log    *slog.Logger
}

// NewService creates the auth service. Panics on nil dependencies to fail
// fast during initialization.
func NewService(store user.Store, tokens *TokenService, log *slog.Logger) *Service {
	if store == nil {
		panic("auth: user store is required")
	}
	if tokens == nil {
		panic("auth: token service is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, tokens: tokens, log: log}
}

// SignUp registers a new account with an inactive subscription. The
// entitlement only changes later, through a purchase webhook or a renewal.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	u := &user.User{
		Name:  name,
		Email: email,
		Subscription: user.Subscription{
			Status:   user.SubscriptionInactive,
			Currency: user.DefaultCurrency,
		},
	}
	if err := s.store.Create(ctx, u, password); err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user signed up", slog.String("email", u.Email))
	return &Session{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

// SignIn authenticates an existing account. Unknown email and wrong
// password both map to ErrInvalidCredentials so responses don't reveal
// which one failed.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !u.ValidatePassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}

	u.PasswordHash = ""
	return &Session{User: u, Token: token, ExpiresAt: expiresAt}, nil
}
