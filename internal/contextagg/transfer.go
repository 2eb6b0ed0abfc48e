package contextagg

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/haxaco/payos-sub010/internal/domain"
)

// RefundEligibility mirrors the simulation engine's refund-preview shape so
// both surfaces agree on what "can this be refunded" means.
type RefundEligibility struct {
	CanRefund       bool      `json:"can_refund"`
	WindowExpires   time.Time `json:"window_expires"`
	MaxRefundable   string    `json:"max_refundable"`
	AlreadyRefunded string    `json:"already_refunded"`
}

// TransferContext is the composed /context/transfer/{id} response body.
// Disputes are not modeled by this platform (no dispute-management module
// exists), so the disputes fan-out leg always returns an empty list rather
// than being omitted.
type TransferContext struct {
	Transfer         domain.Transfer   `json:"transfer"`
	Refunds          []domain.Refund   `json:"refunds"`
	Disputes         []any             `json:"disputes"`
	Eligibility      RefundEligibility `json:"eligibility"`
	AvailableActions []string          `json:"available_actions"`
}

func (a *Aggregator) Transfer(ctx context.Context, id string) (TransferContext, bool, error) {
	tr, err := a.store.GetTransfer(id)
	if err != nil {
		return TransferContext{}, false, err
	}

	var (
		mu       sync.Mutex
		refunds  []domain.Refund
		disputes []any
		partial  bool
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		rs := a.store.RefundsFor(id)
		mu.Lock()
		refunds = rs
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		// No dispute subsystem is built; this leg always succeeds with an
		// empty result, kept as its own fan-out leg to match the composed
		// response shape the context aggregator documents.
		mu.Lock()
		disputes = []any{}
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		partial = true
	}

	eligibility := refundEligibility(tr, refunds)

	return TransferContext{
		Transfer:         tr,
		Refunds:          refunds,
		Disputes:         disputes,
		Eligibility:      eligibility,
		AvailableActions: availableActionsForTransfer(tr.Status),
	}, partial, nil
}

func refundEligibility(tr domain.Transfer, refunds []domain.Refund) RefundEligibility {
	if tr.Status != domain.TransferStatusCompleted || tr.CompletedAt == nil {
		return RefundEligibility{CanRefund: false}
	}
	alreadyRefunded := domain.Zero(tr.Amount.Currency)
	for _, r := range refunds {
		alreadyRefunded, _ = alreadyRefunded.Add(r.Amount)
	}
	remaining, err := domain.RemainingRefundable(tr.Amount, alreadyRefunded)
	if err != nil {
		return RefundEligibility{CanRefund: false}
	}
	within := domain.WithinWindow(*tr.CompletedAt, time.Now())
	return RefundEligibility{
		CanRefund:       within && remaining.Amount.IsPositive(),
		WindowExpires:   tr.CompletedAt.Add(domain.RefundWindow),
		MaxRefundable:   remaining.String(),
		AlreadyRefunded: alreadyRefunded.String(),
	}
}
