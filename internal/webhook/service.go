package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/haxaco/payos-sub010/internal/domain"
)

// IngestCommand is the decoded inbound settlement callback, independent of
// its wire shape.
type IngestCommand struct {
	EventID               string
	EventType             EventType
	EventStatus           EventStatus
	OriginalTransactionID string
	Local                 domain.Money
	Transaction           domain.Money
	Settlement            domain.Money
	Original              domain.Money
	Merchant              Merchant
	DeliveryID            string
	IdempotencyKey        string
	UserID                string
	CardID                string
	Country               string
	Currency              string
	PointOfSale           string
}

// IngestResult reports what happened to an ingested callback.
type IngestResult struct {
	EventID    string
	Idempotent bool
}

// Service processes inbound settlement callbacks against a Store, dispatching
// on event type between PURCHASE and REVERSAL_PURCHASE/REFUND.
type Service struct {
	store *Store
}

func NewService(s *Store) *Service {
	return &Service{store: s}
}

func (svc *Service) Ingest(ctx context.Context, cmd IngestCommand) (IngestResult, error) {
	switch cmd.EventType {
	case EventTypePurchase:
		return svc.ingestPurchase(cmd)
	case EventTypeReversalPurchase, EventTypeRefund:
		return svc.ingestAdjustment(cmd)
	default:
		return IngestResult{}, fmt.Errorf("%w: %s", ErrInvalidEventType, cmd.EventType)
	}
}

func (svc *Service) GetEvent(ctx context.Context, id string) (SettlementEvent, error) {
	return svc.store.GetEvent(id)
}

func (svc *Service) ListEvents(ctx context.Context) []SettlementEvent {
	return svc.store.ListEvents()
}

func (svc *Service) ingestPurchase(cmd IngestCommand) (IngestResult, error) {
	// Advisory idempotency check (fast path — not atomic, eliminates most
	// duplicates before object construction).
	if _, exists := svc.store.PeekIdempotencyKey(cmd.IdempotencyKey); exists {
		return IngestResult{EventID: cmd.EventID, Idempotent: true}, nil
	}

	amount := AmountBreakdown{Local: cmd.Local, Transaction: cmd.Transaction, Settlement: cmd.Settlement, Original: cmd.Original}
	delivery := DeliveryEvent{ID: cmd.DeliveryID, IdempotencyKey: cmd.IdempotencyKey}

	evt, err := NewPurchase(cmd.EventID, cmd.EventStatus, amount, cmd.Merchant, delivery, cmd.UserID, cmd.CardID, cmd.Country, cmd.Currency, cmd.PointOfSale)
	if err != nil {
		return IngestResult{}, err
	}

	// Save atomically re-checks idempotency under the write lock, closing the
	// race the advisory check above leaves open.
	if err := svc.store.SaveEvent(evt); err != nil {
		if errors.Is(err, ErrDuplicateIdempotencyKey) {
			return IngestResult{EventID: cmd.EventID, Idempotent: true}, nil
		}
		return IngestResult{}, err
	}
	return IngestResult{EventID: evt.ID}, nil
}

func (svc *Service) ingestAdjustment(cmd IngestCommand) (IngestResult, error) {
	if cmd.OriginalTransactionID == "" {
		return IngestResult{}, ErrOriginalTransactionRequired
	}
	if _, exists := svc.store.PeekIdempotencyKey(cmd.IdempotencyKey); exists {
		return IngestResult{EventID: cmd.EventID, Idempotent: true}, nil
	}

	original, err := svc.store.GetEvent(cmd.OriginalTransactionID)
	if err != nil {
		return IngestResult{}, err
	}

	amount := AmountBreakdown{Local: cmd.Local, Transaction: cmd.Transaction, Settlement: cmd.Settlement, Original: cmd.Original}
	delivery := DeliveryEvent{ID: cmd.DeliveryID, IdempotencyKey: cmd.IdempotencyKey}

	adj, err := NewAdjustment(cmd.EventID, cmd.EventType, cmd.EventStatus, amount, cmd.Merchant, delivery, cmd.OriginalTransactionID, cmd.UserID, cmd.CardID, cmd.Country, cmd.Currency, cmd.PointOfSale)
	if err != nil {
		return IngestResult{}, err
	}

	existingTotal := domain.Zero(cmd.Local.Currency)
	for _, prior := range svc.store.AdjustmentsFor(cmd.OriginalTransactionID) {
		if prior.Status != StatusApproved {
			continue
		}
		existingTotal, err = existingTotal.Add(prior.Amount.Local)
		if err != nil {
			return IngestResult{}, err
		}
	}

	if err := adj.ValidateAgainstPurchase(original, existingTotal); err != nil {
		return IngestResult{}, err
	}

	if err := svc.store.SaveAdjustment(adj); err != nil {
		if errors.Is(err, ErrDuplicateIdempotencyKey) {
			return IngestResult{EventID: cmd.EventID, Idempotent: true}, nil
		}
		return IngestResult{}, err
	}
	return IngestResult{EventID: adj.ID}, nil
}
