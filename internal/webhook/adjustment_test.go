package webhook

import (
	"errors"
	"testing"

	"github.com/haxaco/payos-sub010/internal/domain"
)

func makeApprovedPurchase(id string, amount string) SettlementEvent {
	evt, _ := NewPurchase(id, StatusApproved, makeAmountBreakdown(amount, "BRL"), makeMerchant(), makeDeliveryEvent("idem-"+id), "u", "c", "BR", "BRL", "POS")
	return evt
}

func makeAdjustment(id string, evtType EventType, amount string, originalID string) Adjustment {
	adj, _ := NewAdjustment(id, evtType, StatusApproved, makeAmountBreakdown(amount, "BRL"), makeMerchant(), makeDeliveryEvent("adj-idem-"+id), originalID, "u", "c", "BR", "BRL", "POS")
	return adj
}

func TestNewAdjustment(t *testing.T) {
	t.Run("valid reversal", func(t *testing.T) {
		adj, err := NewAdjustment("adj1", EventTypeReversalPurchase, StatusApproved, makeAmountBreakdown("500", "BRL"), makeMerchant(), makeDeliveryEvent("idem-adj1"), "tx1", "u", "c", "BR", "BRL", "POS")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if adj.Type != EventTypeReversalPurchase {
			t.Errorf("expected REVERSAL_PURCHASE, got %s", adj.Type)
		}
	})
	t.Run("valid refund", func(t *testing.T) {
		_, err := NewAdjustment("adj1", EventTypeRefund, StatusApproved, makeAmountBreakdown("500", "BRL"), makeMerchant(), makeDeliveryEvent("idem-adj1"), "tx1", "u", "c", "BR", "BRL", "POS")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	t.Run("PURCHASE type rejected", func(t *testing.T) {
		_, err := NewAdjustment("adj1", EventTypePurchase, StatusApproved, makeAmountBreakdown("500", "BRL"), makeMerchant(), makeDeliveryEvent("idem-adj1"), "tx1", "u", "c", "BR", "BRL", "POS")
		if !errors.Is(err, ErrInvalidEventType) {
			t.Errorf("expected ErrInvalidEventType, got %v", err)
		}
	})
	t.Run("missing original transaction id", func(t *testing.T) {
		_, err := NewAdjustment("adj1", EventTypeRefund, StatusApproved, makeAmountBreakdown("500", "BRL"), makeMerchant(), makeDeliveryEvent("idem-adj1"), "", "u", "c", "BR", "BRL", "POS")
		if !errors.Is(err, ErrOriginalTransactionRequired) {
			t.Errorf("expected ErrOriginalTransactionRequired, got %v", err)
		}
	})
	t.Run("empty id rejected", func(t *testing.T) {
		_, err := NewAdjustment("", EventTypeRefund, StatusApproved, makeAmountBreakdown("500", "BRL"), makeMerchant(), makeDeliveryEvent("idem-adj1"), "tx1", "u", "c", "BR", "BRL", "POS")
		if err == nil {
			t.Error("expected error for empty id")
		}
	})
}

func TestValidateAgainstPurchase(t *testing.T) {
	zero := domain.Zero("BRL")

	t.Run("total reversal approved", func(t *testing.T) {
		purchase := makeApprovedPurchase("tx1", "1000")
		adj := makeAdjustment("adj1", EventTypeReversalPurchase, "1000", "tx1")
		if err := adj.ValidateAgainstPurchase(purchase, zero); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	t.Run("partial refund approved", func(t *testing.T) {
		purchase := makeApprovedPurchase("tx1", "1000")
		adj := makeAdjustment("adj1", EventTypeRefund, "500", "tx1")
		if err := adj.ValidateAgainstPurchase(purchase, zero); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	t.Run("exceeds original amount", func(t *testing.T) {
		purchase := makeApprovedPurchase("tx1", "1000")
		adj := makeAdjustment("adj1", EventTypeRefund, "1500", "tx1")
		if err := adj.ValidateAgainstPurchase(purchase, zero); !errors.Is(err, ErrExceedsOriginalAmount) {
			t.Errorf("expected ErrExceedsOriginalAmount, got %v", err)
		}
	})
	t.Run("accumulated adjustments exceed original", func(t *testing.T) {
		purchase := makeApprovedPurchase("tx1", "1000")
		adj := makeAdjustment("adj2", EventTypeRefund, "600", "tx1")
		existing, _ := domain.ParseMoney("500", "BRL")
		if err := adj.ValidateAgainstPurchase(purchase, existing); !errors.Is(err, ErrExceedsOriginalAmount) {
			t.Errorf("expected ErrExceedsOriginalAmount, got %v", err)
		}
	})
	t.Run("purchase not approved", func(t *testing.T) {
		rejected, _ := NewPurchase("tx1", StatusRejected, makeAmountBreakdown("1000", "BRL"), makeMerchant(), makeDeliveryEvent("idem1"), "u", "c", "BR", "BRL", "POS")
		adj := makeAdjustment("adj1", EventTypeRefund, "500", "tx1")
		if err := adj.ValidateAgainstPurchase(rejected, zero); !errors.Is(err, ErrPurchaseNotApproved) {
			t.Errorf("expected ErrPurchaseNotApproved, got %v", err)
		}
	})
	t.Run("rejected adjustment does not count", func(t *testing.T) {
		purchase := makeApprovedPurchase("tx1", "1000")
		adj, _ := NewAdjustment("adj1", EventTypeRefund, StatusRejected, makeAmountBreakdown("1500", "BRL"), makeMerchant(), makeDeliveryEvent("adj-idem-adj1"), "tx1", "u", "c", "BR", "BRL", "POS")
		if err := adj.ValidateAgainstPurchase(purchase, zero); err != nil {
			t.Fatalf("unexpected error for rejected adjustment: %v", err)
		}
	})
}
