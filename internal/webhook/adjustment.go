package webhook

import (
	"fmt"

	"github.com/haxaco/payos-sub010/internal/domain"
)

// Adjustment is an immutable entity representing REVERSAL_PURCHASE or REFUND
// against a previously received SettlementEvent.
type Adjustment struct {
	ID                    string
	Type                  EventType
	Status                EventStatus
	Amount                AmountBreakdown
	Merchant              Merchant
	Delivery              DeliveryEvent
	OriginalTransactionID string
	UserID                string
	CardID                string
	Country               string
	Currency              string
	PointOfSale           string
}

func NewAdjustment(
	id string,
	evtType EventType,
	status EventStatus,
	amount AmountBreakdown,
	merchant Merchant,
	delivery DeliveryEvent,
	originalTransactionID string,
	userID, cardID, country, currency, pointOfSale string,
) (Adjustment, error) {
	if evtType != EventTypeReversalPurchase && evtType != EventTypeRefund {
		return Adjustment{}, fmt.Errorf("%w: %s", ErrInvalidEventType, evtType)
	}
	if originalTransactionID == "" {
		return Adjustment{}, ErrOriginalTransactionRequired
	}
	if id == "" {
		return Adjustment{}, fmt.Errorf("%w: adjustment id is required", ErrInvalidInput)
	}
	if delivery.ID == "" || delivery.IdempotencyKey == "" {
		return Adjustment{}, fmt.Errorf("%w: delivery id and idempotency key are required", ErrInvalidInput)
	}
	return Adjustment{
		ID:                    id,
		Type:                  evtType,
		Status:                status,
		Amount:                amount,
		Merchant:              merchant,
		Delivery:              delivery,
		OriginalTransactionID: originalTransactionID,
		UserID:                userID,
		CardID:                cardID,
		Country:               country,
		Currency:              currency,
		PointOfSale:           pointOfSale,
	}, nil
}

// ValidateAgainstPurchase checks business rules for the adjustment against
// the original purchase. existingTotal is the sum of all previously approved
// adjustments for this purchase.
func (a Adjustment) ValidateAgainstPurchase(original SettlementEvent, existingTotal domain.Money) error {
	if !original.CanReceiveAdjustment() {
		return ErrPurchaseNotApproved
	}
	if a.Status != StatusApproved {
		// Rejected adjustments don't consume budget.
		return nil
	}
	newTotal, err := existingTotal.Add(a.Amount.Local)
	if err != nil {
		return err
	}
	exceeds, err := newTotal.GreaterThan(original.Amount.Local)
	if err != nil {
		return err
	}
	if exceeds {
		return ErrExceedsOriginalAmount
	}
	return nil
}
