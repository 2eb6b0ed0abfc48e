package simulate

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/fx"
	"github.com/haxaco/payos-sub010/internal/store"
)

func seedAccount(t *testing.T, s *store.Store, id string, tier domain.VerificationTier, available string) domain.Account {
	t.Helper()
	acc, err := domain.NewAccount(id, "t1", domain.AccountTypePerson, tier)
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	bal := acc.Balances["USD"]
	bal.Available = decimal.RequireFromString(available)
	acc.Balances["USD"] = bal
	s.PutAccount(acc)
	return acc
}

func TestSimulateTransferMissingAccountIsTerminal(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1", domain.TierOne, "1000")
	eng := New(s, fx.NewSandboxProvider())

	amount, _ := domain.ParseMoney("50", "USD")
	sim, err := eng.SimulateTransfer(context.Background(), "t1", domain.TransferRequest{
		FromAccount: "a1", ToAccount: "missing", Amount: amount, DestinationCurrency: "USD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sim.CanExecute {
		t.Error("expected can_execute=false for a missing destination account")
	}
	if len(sim.Errors) == 0 {
		t.Error("expected at least one terminal issue")
	}
}

func TestSimulateTransferInsufficientBalance(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1", domain.TierOne, "10")
	seedAccount(t, s, "a2", domain.TierOne, "0")
	eng := New(s, fx.NewSandboxProvider())

	amount, _ := domain.ParseMoney("500", "USD")
	sim, err := eng.SimulateTransfer(context.Background(), "t1", domain.TransferRequest{
		FromAccount: "a1", ToAccount: "a2", Amount: amount, DestinationCurrency: "USD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sim.CanExecute {
		t.Error("expected can_execute=false when the source balance can't cover amount+fees")
	}
}

func TestSimulateTransferHappyPathPersists(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1", domain.TierTwo, "5000")
	seedAccount(t, s, "a2", domain.TierTwo, "0")
	eng := New(s, fx.NewSandboxProvider())

	amount, _ := domain.ParseMoney("100", "USD")
	sim, err := eng.SimulateTransfer(context.Background(), "t1", domain.TransferRequest{
		FromAccount: "a1", ToAccount: "a2", Amount: amount, DestinationCurrency: "USD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sim.CanExecute {
		t.Fatalf("expected can_execute=true, got errors=%v", sim.Errors)
	}
	if sim.ExpiresAt.Before(time.Now()) {
		t.Error("expected expires_at in the future")
	}
	if _, err := s.GetSimulation(sim.ID); err != nil {
		t.Errorf("expected simulation to be persisted: %v", err)
	}
}

func TestSimulateTransferCrossBorderAppliesFXAndFees(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1", domain.TierTwo, "5000")
	seedAccount(t, s, "a2", domain.TierTwo, "0")
	eng := New(s, fx.NewSandboxProvider())

	amount, _ := domain.ParseMoney("100", "USD")
	sim, err := eng.SimulateTransfer(context.Background(), "t1", domain.TransferRequest{
		FromAccount: "a1", ToAccount: "a2", Amount: amount, DestinationCurrency: "BRL",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	preview, ok := sim.Preview.(domain.TransferPreview)
	if !ok {
		t.Fatalf("expected domain.TransferPreview, got %T", sim.Preview)
	}
	if preview.FX == nil {
		t.Fatal("expected an fx preview for a cross-currency transfer")
	}
	if preview.Fees.CrossBorder.IsZero() {
		t.Error("expected a non-zero cross-border fee")
	}
	if preview.Fees.Corridor.IsZero() {
		t.Error("expected the BRL corridor flat fee to apply")
	}
	if preview.Timing.Rail != domain.RailPix {
		t.Errorf("expected pix rail for a BRL destination, got %s", preview.Timing.Rail)
	}
}

func TestSimulateTransferReSimulatingProducesNewID(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1", domain.TierTwo, "5000")
	seedAccount(t, s, "a2", domain.TierTwo, "0")
	eng := New(s, fx.NewSandboxProvider())

	amount, _ := domain.ParseMoney("100", "USD")
	req := domain.TransferRequest{FromAccount: "a1", ToAccount: "a2", Amount: amount, DestinationCurrency: "USD"}
	first, _ := eng.SimulateTransfer(context.Background(), "t1", req)
	second, _ := eng.SimulateTransfer(context.Background(), "t1", req)
	if first.ID == second.ID {
		t.Error("expected re-simulating the same payload to produce a new simulation id")
	}
}

func TestSimulateRefundOriginalNotFound(t *testing.T) {
	s := store.New()
	eng := New(s, fx.NewSandboxProvider())

	amount, _ := domain.ParseMoney("50", "USD")
	sim, err := eng.SimulateRefund(context.Background(), "t1", domain.RefundRequest{
		OriginalTransferID: "missing", Amount: amount, Reason: domain.RefundReasonCustomerRequest,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sim.CanExecute {
		t.Error("expected can_execute=false when the original transfer doesn't exist")
	}
}

func TestSimulateRefundWindowExpired(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1", domain.TierTwo, "0")
	amount, _ := domain.ParseMoney("100", "USD")
	tr, _ := domain.NewTransfer("tr1", "a1", "a2", amount, "USD", domain.RailInternal, domain.FeeBreakdown{Currency: "USD"})
	tr.Complete(time.Now().Add(-31 * 24 * time.Hour))
	s.PutTransfer(tr)
	eng := New(s, fx.NewSandboxProvider())

	refundAmount, _ := domain.ParseMoney("50", "USD")
	sim, err := eng.SimulateRefund(context.Background(), "t1", domain.RefundRequest{
		OriginalTransferID: "tr1", Amount: refundAmount, Reason: domain.RefundReasonCustomerRequest,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sim.CanExecute {
		t.Error("expected can_execute=false once the 30-day refund window has passed")
	}
}

func TestSimulateRefundExceedsRemaining(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1", domain.TierTwo, "0")
	amount, _ := domain.ParseMoney("100", "USD")
	tr, _ := domain.NewTransfer("tr2", "a1", "a2", amount, "USD", domain.RailInternal, domain.FeeBreakdown{Currency: "USD"})
	tr.Complete(time.Now())
	s.PutTransfer(tr)
	eng := New(s, fx.NewSandboxProvider())

	refundAmount, _ := domain.ParseMoney("150", "USD")
	sim, err := eng.SimulateRefund(context.Background(), "t1", domain.RefundRequest{
		OriginalTransferID: "tr2", Amount: refundAmount, Reason: domain.RefundReasonCustomerRequest,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sim.CanExecute {
		t.Error("expected can_execute=false when requesting more than the remaining refundable amount")
	}
}
