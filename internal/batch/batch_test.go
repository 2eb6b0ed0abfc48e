package batch

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/fx"
	"github.com/haxaco/payos-sub010/internal/store"
)

func seedAccount(t *testing.T, s *store.Store, id, currency, available string) {
	t.Helper()
	acc, err := domain.NewAccount(id, "t1", domain.AccountTypePerson, domain.TierTwo)
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	bal := acc.Balances[currency]
	bal.Available = decimal.RequireFromString(available)
	acc.Balances[currency] = bal
	s.PutAccount(acc)
}

func transferReq(from, to, amount string) domain.TransferRequest {
	m, _ := domain.ParseMoney(amount, "USD")
	return domain.TransferRequest{FromAccount: from, ToAccount: to, Amount: m, DestinationCurrency: "USD"}
}

func TestProcessCumulativeBalanceView(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1", "USD", "150")
	seedAccount(t, s, "a2", "USD", "0")
	seedAccount(t, s, "a3", "USD", "0")
	p := New(s, fx.NewSandboxProvider())

	items := []domain.TransferRequest{
		transferReq("a1", "a2", "100"),
		transferReq("a1", "a3", "100"),
	}
	b, err := p.Process(context.Background(), "t1", items, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Items[0].CanExecute != true {
		t.Errorf("expected item 0 to succeed, errors=%v", b.Items[0].Errors)
	}
	if b.Items[1].CanExecute {
		t.Errorf("expected item 1 to fail once item 0 consumed the shared balance, errors=%v", b.Items[1].Errors)
	}
	if b.Successful != 1 || b.Failed != 1 {
		t.Errorf("expected 1 successful and 1 failed, got successful=%d failed=%d", b.Successful, b.Failed)
	}
}

func TestProcessStopOnFirstErrorMarksRemainingStopped(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1", "USD", "50")
	seedAccount(t, s, "a2", "USD", "0")
	seedAccount(t, s, "a3", "USD", "0")
	p := New(s, fx.NewSandboxProvider())

	items := []domain.TransferRequest{
		transferReq("a1", "a2", "500"),
		transferReq("a1", "a3", "10"),
	}
	b, err := p.Process(context.Background(), "t1", items, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Items[0].CanExecute {
		t.Fatal("expected item 0 to fail on insufficient balance")
	}
	if b.Items[1].Preview != nil {
		t.Error("expected item 1's preview to be nil once the batch stopped")
	}
	if len(b.Items[1].Errors) == 0 || b.Items[1].Errors[0].Code != "BATCH_STOPPED" {
		t.Errorf("expected item 1 to carry a BATCH_STOPPED error, got %v", b.Items[1].Errors)
	}
}

func TestProcessAggregatesTotalsByCurrencyAndRail(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1", "USD", "1000")
	seedAccount(t, s, "a2", "USD", "0")
	p := New(s, fx.NewSandboxProvider())

	items := []domain.TransferRequest{
		transferReq("a1", "a2", "100"),
		transferReq("a1", "a2", "50"),
	}
	b, err := p.Process(context.Background(), "t1", items, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := b.AmountByCurrency["USD"]; !got.Equal(decimal.RequireFromString("150")) {
		t.Errorf("expected amount_by_currency[USD]=150, got %s", got)
	}
	if len(b.ByRail) != 1 || b.ByRail[0].Count != 2 {
		t.Errorf("expected a single rail total with count 2, got %+v", b.ByRail)
	}
}
