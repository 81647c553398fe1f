package webhook

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/listingdesk/backend/internal/subscription"
	"github.com/listingdesk/backend/internal/user"
)

// Payload is the vendor-specific envelope ClickFunnels posts on a
// completed purchase. Every nested object is optional.
type Payload struct {
	Data *PayloadData `json:"data"`
}

// PayloadData carries the purchase itself.
type PayloadData struct {
	ID                       string     `json:"id"`
	Contact                  *Contact   `json:"contact"`
	LineItems                []LineItem `json:"line_items"`
	InTrial                  bool       `json:"in_trial"`
	ActivatedAt              *time.Time `json:"activated_at"`
	TrialEndAt               *time.Time `json:"trial_end_at"`
	Currency                 string     `json:"currency"`
	PhoneNumber              string     `json:"phone_number"`
	BillingAddressStreetOne  string     `json:"billing_address_street_one"`
	BillingAddressCity       string     `json:"billing_address_city"`
	BillingAddressRegion     string     `json:"billing_address_region"`
	BillingAddressCountry    string     `json:"billing_address_country"`
	BillingAddressPostalCode string     `json:"billing_address_postal_code"`
}

// Contact identifies the buyer. EmailAddress is the only field the
// handler refuses to proceed without.
type Contact struct {
	EmailAddress     string            `json:"email_address"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	CustomAttributes *CustomAttributes `json:"custom_attributes"`
}

// CustomAttributes carries the funnel's custom form fields. The password
// pair arrives here when the funnel collects credentials at checkout.
type CustomAttributes struct {
	Alphanumeric    string `json:"alphanumeric"`
	ConfirmPassword string `json:"confirm_password"`
}

// LineItem is one purchased product.
type LineItem struct {
	OriginalProduct *Product `json:"original_product"`
	ProductsPrice   *Price   `json:"products_price"`
}

type Product struct {
	Name string `json:"name"`
}

type Price struct {
	Amount json.Number `json:"amount"`
}

// Normalized is the canonical update extracted from a payload.
type Normalized struct {
	Email           string
	Name            string
	Purchase        subscription.Purchase
	Billing         user.Billing
	Password        string
	ConfirmPassword string
}

// Normalize flattens a payload into a canonical update. Only a wholly
// missing email is an error; every other absent field degrades to its
// zero value.
func Normalize(p Payload) (Normalized, error) {
	data := p.Data
	if data == nil {
		return Normalized{}, ErrMissingEmail
	}

	var n Normalized
	if c := data.Contact; c != nil {
		n.Email = user.NormalizeEmail(c.EmailAddress)
		n.Name = strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
		if attrs := c.CustomAttributes; attrs != nil {
			n.Password = attrs.Alphanumeric
			n.ConfirmPassword = attrs.ConfirmPassword
		}
	}
	if n.Email == "" {
		return Normalized{}, ErrMissingEmail
	}

	n.Purchase = subscription.Purchase{
		OrderID:     data.ID,
		Currency:    data.Currency,
		InTrial:     data.InTrial,
		ActivatedAt: data.ActivatedAt,
		TrialEndAt:  data.TrialEndAt,
	}
	if len(data.LineItems) > 0 {
		item := data.LineItems[0]
		if item.OriginalProduct != nil {
			n.Purchase.Product = item.OriginalProduct.Name
		}
		if item.ProductsPrice != nil {
			n.Purchase.Amount = item.ProductsPrice.Amount.String()
		}
	}

	n.Billing = user.Billing{
		Name:  n.Name,
		Email: n.Email,
		Phone: data.PhoneNumber,
		Address: user.Address{
			Street:     data.BillingAddressStreetOne,
			City:       data.BillingAddressCity,
			Region:     data.BillingAddressRegion,
			Country:    data.BillingAddressCountry,
			PostalCode: data.BillingAddressPostalCode,
		},
	}
	return n, nil
}
