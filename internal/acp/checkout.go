// Package acp implements the ACP checkout lifecycle: a cart total pinned at
// creation, completed by an agent presenting a shared payment token. It
// mirrors internal/ap2's CAS-mutate-map shape over domain.Checkout and the
// store's CASCheckout.
package acp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/haxaco/payos-sub010/internal/apperrors"
	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/store"
)

type Service struct {
	store *store.Store
	newID func() string
}

func New(s *store.Store) *Service {
	return &Service{store: s, newID: uuid.NewString}
}

// Create builds a checkout and mints its one-time shared payment token. The
// token is generated here rather than inside domain.NewCheckout, keeping id
// generation out of the domain constructor the way transfer/simulation ids
// already are.
func (svc *Service) Create(ctx context.Context, merchantID, agentID string, items []domain.CheckoutItem, subtotal, tax, shipping, discount, total domain.Money) (domain.Checkout, error) {
	c, err := domain.NewCheckout(svc.newID(), merchantID, agentID, items, subtotal, tax, shipping, discount, total)
	if err != nil {
		if err == domain.ErrCheckoutTotalMismatch {
			return domain.Checkout{}, apperrors.New(apperrors.KindCheckoutTotalMismatch, err.Error(), map[string]any{
				"expected_total": total.Amount.String(),
			})
		}
		return domain.Checkout{}, apperrors.New(apperrors.KindValidationFailed, err.Error(), nil)
	}
	c.SharedPaymentToken = svc.newID()
	svc.store.PutCheckout(c)
	return c, nil
}

func (svc *Service) Get(ctx context.Context, id string) (domain.Checkout, error) {
	c, err := svc.store.CASCheckout(id, func(c domain.Checkout) (domain.Checkout, error) {
		return c.RefreshExpiry(time.Now()), nil
	})
	if err != nil {
		return domain.Checkout{}, mapCheckoutLookupErr(id, err)
	}
	return c, nil
}

// Complete validates the caller's shared payment token against the
// checkout's minted token before materializing a transfer id against it,
// atomically transitioning the checkout to completed.
func (svc *Service) Complete(ctx context.Context, checkoutID, sharedPaymentToken, transferID string) (domain.Checkout, error) {
	now := time.Now()
	updated, err := svc.store.CASCheckout(checkoutID, func(c domain.Checkout) (domain.Checkout, error) {
		c = c.RefreshExpiry(now)
		priorStatus := c.Status
		if priorStatus == domain.CheckoutStatusPending && c.SharedPaymentToken != sharedPaymentToken {
			return domain.Checkout{}, apperrors.New(apperrors.KindSharedTokenInvalid, "shared payment token does not match this checkout", map[string]any{"checkout_id": checkoutID})
		}
		next, completeErr := c.Complete(transferID, now)
		if completeErr != nil {
			return domain.Checkout{}, checkoutStateError(checkoutID, priorStatus)
		}
		return next, nil
	})
	if err != nil {
		return domain.Checkout{}, mapCheckoutLookupErr(checkoutID, err)
	}
	return updated, nil
}

func (svc *Service) Cancel(ctx context.Context, checkoutID string) (domain.Checkout, error) {
	now := time.Now()
	updated, err := svc.store.CASCheckout(checkoutID, func(c domain.Checkout) (domain.Checkout, error) {
		c = c.RefreshExpiry(now)
		priorStatus := c.Status
		next, cancelErr := c.Cancel()
		if cancelErr != nil {
			return domain.Checkout{}, checkoutStateError(checkoutID, priorStatus)
		}
		return next, nil
	})
	if err != nil {
		return domain.Checkout{}, mapCheckoutLookupErr(checkoutID, err)
	}
	return updated, nil
}

// checkoutStateError turns a failed Checkout.Complete/Cancel call back into
// the specific kind implied by priorStatus, since the domain layer only
// distinguishes pending-vs-not via ErrCheckoutNotPending.
func checkoutStateError(checkoutID string, priorStatus domain.CheckoutStatus) error {
	if priorStatus == domain.CheckoutStatusExpired {
		return apperrors.New(apperrors.KindCheckoutExpired, "checkout has expired", map[string]any{"checkout_id": checkoutID})
	}
	if priorStatus.IsTerminal() {
		return apperrors.New(apperrors.KindCheckoutAlreadyTerminal, "checkout is already in a terminal state", map[string]any{"checkout_id": checkoutID, "status": string(priorStatus)})
	}
	return apperrors.New(apperrors.KindCheckoutNotPending, "checkout is not pending", map[string]any{"checkout_id": checkoutID, "status": string(priorStatus)})
}

func mapCheckoutLookupErr(checkoutID string, err error) error {
	if apperrors.KindOf(err) != apperrors.KindInternalError {
		return err
	}
	return apperrors.New(apperrors.KindCheckoutNotFound, "checkout not found", map[string]any{"checkout_id": checkoutID})
}
