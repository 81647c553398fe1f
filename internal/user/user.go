package user

import (
	"strings"
	"time"
)

// SubscriptionStatus represents the current state of a user's subscription.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// BillingCycle represents the billing frequency of a subscription.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
	BillingCycleOneTime BillingCycle = "one-time"
)

// Account status values. Distinct from the subscription status: an enabled
// account may still hold an inactive or expired subscription.
const (
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultCurrency is applied when a purchase event carries no currency.
const DefaultCurrency = "gbp"

// Subscription is the single entitlement snapshot embedded in a user record.
// There is exactly one snapshot per user and no history: webhook ingestion
// and renewal overwrite it in place.
type Subscription struct {
	Status              SubscriptionStatus `bson:"status" json:"status"`
	Plan                string             `bson:"plan,omitempty" json:"plan,omitempty"`
	StartDate           *time.Time         `bson:"startDate,omitempty" json:"start_date,omitempty"`
	EndDate             *time.Time         `bson:"endDate,omitempty" json:"end_date,omitempty"`
	TrialEndDate        *time.Time         `bson:"trialEndDate,omitempty" json:"trial_end_date,omitempty"`
	IsTrialActive       bool               `bson:"isTrialActive" json:"is_trial_active"`
	ClickfunnelsOrderID string             `bson:"clickfunnelsOrderId,omitempty" json:"clickfunnels_order_id,omitempty"`
	Amount              string             `bson:"amount,omitempty" json:"amount,omitempty"`
	Currency            string             `bson:"currency,omitempty" json:"currency,omitempty"`
	BillingCycle        BillingCycle       `bson:"billingCycle,omitempty" json:"billing_cycle,omitempty"`
	NextBillingDate     *time.Time         `bson:"nextBillingDate,omitempty" json:"next_billing_date,omitempty"`
}

// Address holds the postal address part of the billing details.
type Address struct {
	Street     string `bson:"street,omitempty" json:"street,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	Region     string `bson:"region,omitempty" json:"region,omitempty"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
	PostalCode string `bson:"postalCode,omitempty" json:"postal_code,omitempty"`
}

// Billing holds descriptive billing details captured from the purchase
// event. It never affects entitlement.
type Billing struct {
	Name    string  `bson:"name,omitempty" json:"name,omitempty"`
	Email   string  `bson:"email,omitempty" json:"email,omitempty"`
	Phone   string  `bson:"phone,omitempty" json:"phone,omitempty"`
	Address Address `bson:"address,omitempty" json:"address,omitempty"`
}

// User is the account document. Identified by a stable id and a unique,
// case-insensitive email.
type User struct {
	ID           string       `bson:"_id" json:"id"`
	Name         string       `bson:"name" json:"name"`
	Email        string       `bson:"email" json:"email"`
	PasswordHash string       `bson:"password" json:"-"`
	Role         string       `bson:"role" json:"role"`
	Status       string       `bson:"status" json:"status"`
	Subscription Subscription `bson:"subscription" json:"subscription"`
	Billing      Billing      `bson:"billing" json:"billing"`
	CreatedAt    time.Time    `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time    `bson:"updatedAt" json:"updated_at"`
}

// NormalizeEmail lowercases and trims an email so lookups behave the same
// regardless of how the address was typed or delivered.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
