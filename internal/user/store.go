package user

import (
	"context"
	"time"
)

// UpsertParams carries everything webhook ingestion needs to create or
// overwrite a user's subscription. Password is plaintext and is only used
// (hashed) when the upsert creates a new record; an existing user keeps
// their current credentials.
type UpsertParams struct {
	Email        string
	Name         string
	Password     string
	Subscription Subscription
	Billing      Billing
}

// Renewal is the partial subscription write applied by a successful
// renewal. OrderID left empty keeps the existing ClickFunnels order id.
type Renewal struct {
	StartDate       time.Time
	EndDate         time.Time
	NextBillingDate time.Time
	OrderID         string
}

// ExpiredUser identifies a record transitioned by a bulk expiry sweep.
type ExpiredUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Store defines the persistence operations the subscription core consumes.
// Implementations must guarantee per-document atomicity for every write;
// no cross-document transactions are required.
type Store interface {
	// FindByEmail retrieves a user by normalized email.
	// Returns ErrNotFound if no user exists.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID retrieves a user by id.
	// Returns ErrNotFound if no user exists.
	FindByID(ctx context.Context, id string) (*User, error)

	// Create inserts a new user, hashing the supplied plaintext password.
	// Returns ErrAlreadyExists when the email is already taken.
	Create(ctx context.Context, u *User, password string) error

	// UpsertSubscription overwrites the subscription and billing snapshots
	// for the given email, creating the user first if missing. Reports
	// whether a new user was created.
	UpsertSubscription(ctx context.Context, p UpsertParams) (*User, bool, error)

	// ExpireSubscription applies the lazy-expiry write: status -> expired,
	// optionally clearing the trial flag.
	ExpireSubscription(ctx context.Context, email string, clearTrial bool) error

	// RenewSubscription applies the renewal partial write to an existing
	// user. Returns ErrNotFound if no user exists for the email.
	RenewSubscription(ctx context.Context, email string, r Renewal) error

	// BulkExpire transitions every subscription past its expiry boundary
	// (active past endDate, or trialing past trialEndDate) to expired in a
	// single bulk write and reports who was affected.
	BulkExpire(ctx context.Context, now time.Time) ([]ExpiredUser, error)

	// UpdateStatus sets the account status for a user id.
	UpdateStatus(ctx context.Context, id, status string) error

	// List returns all users without their password hashes.
	List(ctx context.Context) ([]User, error)
}
