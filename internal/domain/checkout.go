package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutStatus string

const (
	CheckoutStatusPending   CheckoutStatus = "pending"
	CheckoutStatusCompleted CheckoutStatus = "completed"
	CheckoutStatusCancelled CheckoutStatus = "cancelled"
	CheckoutStatusExpired   CheckoutStatus = "expired"
	CheckoutStatusFailed    CheckoutStatus = "failed"
)

func (s CheckoutStatus) IsTerminal() bool {
	switch s {
	case CheckoutStatusCompleted, CheckoutStatusCancelled, CheckoutStatusExpired, CheckoutStatusFailed:
		return true
	}
	return false
}

type CheckoutItem struct {
	SKU       string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

const CheckoutTTL = time.Hour

// checkoutTotalTolerance absorbs rounding noise when validating
// total = subtotal + tax + shipping - discount.
var checkoutTotalTolerance = decimal.NewFromFloat(0.01)

// Checkout is a shopping-cart-scoped payment authorization under ACP. Total
// is supplied by the caller, checked against subtotal + tax + shipping -
// discount, and pinned at creation; it is never recomputed afterward.
type Checkout struct {
	ID          string
	MerchantID  string
	AgentID     string
	Items       []CheckoutItem
	Subtotal    Money
	Tax         Money
	Shipping    Money
	Discount    Money
	Total       Money
	Status      CheckoutStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
	CompletedAt *time.Time
	TransferID  string

	// SharedPaymentToken is the single-use token an agent presents to
	// complete this checkout. It is minted by the service layer once the
	// checkout is created (not by NewCheckout, to keep id generation out of
	// the domain constructor) and is consumed implicitly: once the checkout
	// reaches a terminal status the token can never complete a checkout again.
	SharedPaymentToken string
}

func NewCheckout(id, merchantID, agentID string, items []CheckoutItem, subtotal, tax, shipping, discount, total Money) (Checkout, error) {
	if id == "" {
		return Checkout{}, fmt.Errorf("%w: checkout id is required", ErrInvalidInput)
	}
	if merchantID == "" {
		return Checkout{}, fmt.Errorf("%w: merchant_id is required", ErrInvalidInput)
	}
	expected, err := subtotal.Add(tax)
	if err != nil {
		return Checkout{}, err
	}
	expected, err = expected.Add(shipping)
	if err != nil {
		return Checkout{}, err
	}
	expected, err = expected.Sub(discount)
	if err != nil {
		return Checkout{}, err
	}
	if expected.Amount.Sub(total.Amount).Abs().GreaterThan(checkoutTotalTolerance) {
		return Checkout{}, ErrCheckoutTotalMismatch
	}
	now := time.Now()
	return Checkout{
		ID:         id,
		MerchantID: merchantID,
		AgentID:    agentID,
		Items:      items,
		Subtotal:   subtotal,
		Tax:        tax,
		Shipping:   shipping,
		Discount:   discount,
		Total:      total,
		Status:     CheckoutStatusPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(CheckoutTTL),
	}, nil
}

// RefreshExpiry lazily transitions a pending checkout to expired once read
// after ExpiresAt — the expiry is never set eagerly by a background sweep.
func (c Checkout) RefreshExpiry(now time.Time) Checkout {
	if c.Status == CheckoutStatusPending && now.After(c.ExpiresAt) {
		c.Status = CheckoutStatusExpired
	}
	return c
}

func (c Checkout) Complete(transferID string, at time.Time) (Checkout, error) {
	if c.Status != CheckoutStatusPending {
		return Checkout{}, ErrCheckoutNotPending
	}
	c.Status = CheckoutStatusCompleted
	c.TransferID = transferID
	c.CompletedAt = &at
	return c, nil
}

func (c Checkout) Cancel() (Checkout, error) {
	if c.Status != CheckoutStatusPending {
		return Checkout{}, ErrCheckoutNotPending
	}
	c.Status = CheckoutStatusCancelled
	return c, nil
}
