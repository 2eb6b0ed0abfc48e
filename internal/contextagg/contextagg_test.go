package contextagg

import (
	"context"
	"testing"
	"time"

	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/store"
)

func TestAccountContextNotFoundPropagates(t *testing.T) {
	agg := New(store.New())
	_, _, err := agg.Account(context.Background(), "missing")
	if err == nil {
		t.Error("expected root fetch failure to propagate")
	}
}

func TestAccountContextRiskFlags(t *testing.T) {
	s := store.New()
	acc, _ := domain.NewAccount("a1", "t1", domain.AccountTypeBusiness, domain.TierZero)
	acc.Status = domain.AccountStatusSuspended
	s.PutAccount(acc)
	for i := 0; i < 11; i++ {
		ag, _ := domain.NewAgent(itoa(i), "a1", domain.AccountTypeBusiness, domain.SpendingPolicy{})
		s.PutAgent(ag)
	}

	agg := New(s)
	ctx, partial, err := agg.Account(context.Background(), "a1")
	if err != nil || partial {
		t.Fatalf("unexpected err=%v partial=%v", err, partial)
	}
	if ctx.Risk.Level != "high" {
		t.Errorf("expected high risk (suspended+tier<2+agent_count>10), got %s with flags %v", ctx.Risk.Level, ctx.Risk.Flags)
	}
	if ctx.AgentCount != 11 {
		t.Errorf("expected agent_count 11, got %d", ctx.AgentCount)
	}
}

func TestTransferContextAvailableActionsByStatus(t *testing.T) {
	s := store.New()
	amount, _ := domain.ParseMoney("100", "USD")
	tr, _ := domain.NewTransfer("tr1", "a1", "a2", amount, "USD", domain.RailInternal, domain.FeeBreakdown{Currency: "USD"})
	tr.Complete(time.Now())
	s.PutTransfer(tr)

	agg := New(s)
	ctx, _, err := agg.Transfer(context.Background(), "tr1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, a := range ctx.AvailableActions {
		if a == "refund" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected refund in available_actions for completed transfer, got %v", ctx.AvailableActions)
	}
}

func TestTransferContextRefundEligibilityAfterWindow(t *testing.T) {
	s := store.New()
	amount, _ := domain.ParseMoney("100", "USD")
	tr, _ := domain.NewTransfer("tr2", "a1", "a2", amount, "USD", domain.RailInternal, domain.FeeBreakdown{Currency: "USD"})
	tr.Complete(time.Now().Add(-31 * 24 * time.Hour))
	s.PutTransfer(tr)

	agg := New(s)
	ctx, _, err := agg.Transfer(context.Background(), "tr2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Eligibility.CanRefund {
		t.Error("expected can_refund=false once the 30-day window has passed")
	}
}

func TestBatchContextActionsReflectOutstandingItems(t *testing.T) {
	s := store.New()
	b := domain.Batch{ID: "b1", TotalCount: 3, Successful: 1, Failed: 1}
	s.PutBatch(b)

	agg := New(s)
	ctx, _, err := agg.Batch(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.AnyFailed || !ctx.AnyPending {
		t.Errorf("expected any_failed and any_pending true, got %+v", ctx)
	}
	if len(ctx.AvailableActions) != 2 {
		t.Errorf("expected both retry_failed and cancel_pending, got %v", ctx.AvailableActions)
	}
}

func itoa(i int) string {
	digits := "0123456789"
	if i == 0 {
		return "agent0"
	}
	s := ""
	for i > 0 {
		s = string(digits[i%10]) + s
		i /= 10
	}
	return "agent" + s
}
