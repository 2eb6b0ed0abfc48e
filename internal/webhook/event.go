// Package webhook ingests rail settlement-confirmation callbacks
// (PURCHASE/REVERSAL_PURCHASE/REFUND events posted back by a card/rail
// processor) and turns them into ledger-adjacent records with idempotent,
// exactly-once semantics. This is the platform's inbound
// settlement-confirmation channel — distinct from the partner-facing
// POST /v1/transfers creation path, and not a card-acquiring flow.
package webhook

import (
	"fmt"
	"time"

	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/shopspring/decimal"
)

// MinPurchaseAmount is R$1.00; MaxPurchaseAmount is R$5,000.00, the
// accepted bounds on a single settlement event, expressed in decimal BRL.
var (
	MinPurchaseAmount = decimal.NewFromInt(1)
	MaxPurchaseAmount = decimal.NewFromInt(5000)
)

type EventType string

const (
	EventTypePurchase         EventType = "PURCHASE"
	EventTypeReversalPurchase EventType = "REVERSAL_PURCHASE"
	EventTypeRefund           EventType = "REFUND"
)

type EventStatus string

const (
	StatusApproved EventStatus = "APPROVED"
	StatusRejected EventStatus = "REJECTED"
)

type AmountBreakdown struct {
	Local       domain.Money
	Transaction domain.Money
	Settlement  domain.Money
	Original    domain.Money
}

type Merchant struct {
	ID      string
	MCC     string
	Address string
	Name    string
	City    string
	State   string
}

type DeliveryEvent struct {
	ID             string
	CreatedAt      time.Time
	IdempotencyKey string
}

// SettlementEvent is the aggregate root for an inbound PURCHASE confirmation.
type SettlementEvent struct {
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

func NewPurchase(
	id string,
	status EventStatus,
	amount AmountBreakdown,
	merchant Merchant,
	delivery DeliveryEvent,
	userID, cardID, country, currency, pointOfSale string,
) (SettlementEvent, error) {
	if id == "" {
		return SettlementEvent{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	if delivery.ID == "" || delivery.IdempotencyKey == "" {
		return SettlementEvent{}, fmt.Errorf("%w: delivery id and idempotency key are required", ErrInvalidInput)
	}
	if amount.Local.Amount.LessThan(MinPurchaseAmount) || amount.Local.Amount.GreaterThan(MaxPurchaseAmount) {
		return SettlementEvent{}, ErrAmountOutOfRange
	}
	return SettlementEvent{
		ID:          id,
		Type:        EventTypePurchase,
		Status:      status,
		Amount:      amount,
		Merchant:    merchant,
		Delivery:    delivery,
		UserID:      userID,
		CardID:      cardID,
		Country:     country,
		Currency:    currency,
		PointOfSale: pointOfSale,
	}, nil
}

func (e SettlementEvent) IsApprovedPurchase() bool {
	return e.Type == EventTypePurchase && e.Status == StatusApproved
}

func (e SettlementEvent) CanReceiveAdjustment() bool {
	return e.IsApprovedPurchase()
}
