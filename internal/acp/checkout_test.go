package acp

import (
	"context"
	"testing"

	"github.com/haxaco/payos-sub010/internal/apperrors"
	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/store"
)

func money(t *testing.T, amount string) domain.Money {
	t.Helper()
	m, err := domain.ParseMoney(amount, "USD")
	if err != nil {
		t.Fatalf("ParseMoney: %v", err)
	}
	return m
}

func newCheckout(t *testing.T, svc *Service) domain.Checkout {
	t.Helper()
	items := []domain.CheckoutItem{{SKU: "sku1", Name: "widget", Quantity: 2, UnitPrice: money(t, "40").Amount}}
	c, err := svc.Create(context.Background(), "merchant1", "agent1", items, money(t, "80"), money(t, "8"), money(t, "2"), money(t, "0"), money(t, "90"))
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	return c
}

func TestCreateRejectsMismatchedTotal(t *testing.T) {
	s := store.New()
	svc := New(s)
	items := []domain.CheckoutItem{{SKU: "sku1", Name: "widget", Quantity: 1, UnitPrice: money(t, "10").Amount}}
	_, err := svc.Create(context.Background(), "merchant1", "agent1", items, money(t, "10"), money(t, "0"), money(t, "0"), money(t, "0"), money(t, "999"))
	if apperrors.KindOf(err) != apperrors.KindCheckoutTotalMismatch {
		t.Fatalf("expected CHECKOUT_TOTAL_MISMATCH, got %v", err)
	}
}

func TestCompleteConsumesSharedPaymentToken(t *testing.T) {
	s := store.New()
	svc := New(s)
	c := newCheckout(t, svc)

	updated, err := svc.Complete(context.Background(), c.ID, c.SharedPaymentToken, "transfer1")
	if err != nil {
		t.Fatalf("unexpected complete error: %v", err)
	}
	if updated.Status != domain.CheckoutStatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}
	if updated.TransferID != "transfer1" {
		t.Errorf("expected transfer id recorded, got %s", updated.TransferID)
	}
}

func TestCompleteRejectsMismatchedToken(t *testing.T) {
	s := store.New()
	svc := New(s)
	c := newCheckout(t, svc)

	_, err := svc.Complete(context.Background(), c.ID, "wrong-token", "transfer1")
	if apperrors.KindOf(err) != apperrors.KindSharedTokenInvalid {
		t.Fatalf("expected SHARED_PAYMENT_TOKEN_INVALID, got %v", err)
	}
}

func TestCompleteRejectsDoubleCompletion(t *testing.T) {
	s := store.New()
	svc := New(s)
	c := newCheckout(t, svc)

	if _, err := svc.Complete(context.Background(), c.ID, c.SharedPaymentToken, "transfer1"); err != nil {
		t.Fatalf("unexpected error on first completion: %v", err)
	}
	_, err := svc.Complete(context.Background(), c.ID, c.SharedPaymentToken, "transfer2")
	if apperrors.KindOf(err) != apperrors.KindCheckoutAlreadyTerminal {
		t.Fatalf("expected CHECKOUT_ALREADY_TERMINAL, got %v", err)
	}
}

func TestCancelThenCompleteIsRejected(t *testing.T) {
	s := store.New()
	svc := New(s)
	c := newCheckout(t, svc)

	if _, err := svc.Cancel(context.Background(), c.ID); err != nil {
		t.Fatalf("unexpected cancel error: %v", err)
	}
	_, err := svc.Complete(context.Background(), c.ID, c.SharedPaymentToken, "transfer1")
	if apperrors.KindOf(err) != apperrors.KindCheckoutAlreadyTerminal {
		t.Fatalf("expected CHECKOUT_ALREADY_TERMINAL, got %v", err)
	}
}

func TestGetUnknownCheckoutNotFound(t *testing.T) {
	s := store.New()
	svc := New(s)
	_, err := svc.Get(context.Background(), "missing")
	if apperrors.KindOf(err) != apperrors.KindCheckoutNotFound {
		t.Fatalf("expected CHECKOUT_NOT_FOUND, got %v", err)
	}
}
