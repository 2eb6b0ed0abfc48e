package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// TestMandateExecutionSequence mirrors the seed scenario: authorized $50,
// execute $10, $15, $35 — first two succeed (remaining=25), third exceeds.
func TestMandateExecutionSequence(t *testing.T) {
	authorized, _ := ParseMoney("50", "USD")
	m, err := NewMandate("m1", MandateTypeIntent, "agent1", "acc1", authorized, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	step := func(m Mandate, amt string) Mandate {
		amount, _ := ParseMoney(amt, "USD")
		next, _, err := m.Execute("tx-"+amt, amount, time.Now())
		if err != nil {
			t.Fatalf("unexpected error executing %s: %v", amt, err)
		}
		return next
	}

	m = step(m, "10")
	m = step(m, "15")
	if !m.RemainingAmount.Amount.Equal(mustDecimal("25")) {
		t.Errorf("expected remaining 25, got %s", m.RemainingAmount.Amount)
	}
	if m.Status != MandateStatusActive {
		t.Errorf("expected mandate to remain active, got %s", m.Status)
	}

	thirtyFive, _ := ParseMoney("35", "USD")
	_, _, err = m.Execute("tx-35", thirtyFive, time.Now())
	if !errors.Is(err, ErrMandateExceeded) {
		t.Errorf("expected ErrMandateExceeded, got %v", err)
	}
	if m.ExecutionCount != 2 {
		t.Errorf("expected execution_count=2, got %d", m.ExecutionCount)
	}
}

func TestMandateCompletesWhenRemainingZero(t *testing.T) {
	authorized, _ := ParseMoney("50", "USD")
	m, _ := NewMandate("m1", MandateTypeIntent, "agent1", "acc1", authorized, time.Now().Add(time.Hour))
	full, _ := ParseMoney("50", "USD")
	m, _, err := m.Execute("tx1", full, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Status != MandateStatusCompleted {
		t.Errorf("expected completed status, got %s", m.Status)
	}
}

func TestMandateRefreshExpiry(t *testing.T) {
	authorized, _ := ParseMoney("50", "USD")
	m, _ := NewMandate("m1", MandateTypeIntent, "agent1", "acc1", authorized, time.Now().Add(-time.Minute))
	m = m.RefreshExpiry(time.Now())
	if m.Status != MandateStatusExpired {
		t.Errorf("expected expired status, got %s", m.Status)
	}
}

func mustDecimal(s string) (d decimal.Decimal) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
