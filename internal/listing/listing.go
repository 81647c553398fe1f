// Package listing tracks the marketplace listings a user has published
// through the extension: one record per (user, ASIN), carrying the SKU and
// the draft/final listing ids assigned by the marketplace.
package listing

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("listing not found")
	ErrStoreFailure = errors.New("listing store operation failed")
)

// Listing is one tracked marketplace listing.
type Listing struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId" json:"user_id"`
	ASIN      string    `bson:"asin" json:"asin"`
	SKU       string    `bson:"sku" json:"sku"`
	DraftID   string    `bson:"draftId,omitempty" json:"draft_id,omitempty"`
	ListingID string    `bson:"listingId,omitempty" json:"listing_id,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// UpsertParams identifies and updates a listing. DraftID and ListingID are
// optional: absent values leave whatever the record already holds.
type UpsertParams struct {
	UserID    string
	ASIN      string
	SKU       string
	DraftID   string
	ListingID string
}

// Store defines listing persistence, keyed by (user, ASIN).
type Store interface {
	// Upsert creates or updates the listing for the user and ASIN.
	Upsert(ctx context.Context, p UpsertParams) error

	// Get retrieves the listing for the user and ASIN.
	// Returns ErrNotFound if none exists.
	Get(ctx context.Context, userID, asin string) (*Listing, error)

	// ASINs returns the distinct ASINs the user has listings for.
	ASINs(ctx context.Context, userID string) ([]string, error)

	// Delete removes the listing for the user and ASIN.
	Delete(ctx context.Context, userID, asin string) error
}
