package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewAccountRejectsUnknownType(t *testing.T) {
	_, err := NewAccount("acc1", "tenant1", AccountType("unknown"), TierZero)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAccountIsUsable(t *testing.T) {
	acc, err := NewAccount("acc1", "tenant1", AccountTypePerson, TierOne)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := acc.IsUsable(); err != nil {
		t.Errorf("fresh account should be usable: %v", err)
	}

	acc.Status = AccountStatusSuspended
	if !errors.Is(acc.IsUsable(), ErrAccountSuspended) {
		t.Errorf("expected ErrAccountSuspended, got %v", acc.IsUsable())
	}

	acc.Status = AccountStatusClosed
	if !errors.Is(acc.IsUsable(), ErrAccountClosed) {
		t.Errorf("expected ErrAccountClosed, got %v", acc.IsUsable())
	}
}

func TestAccountDebitInsufficientBalance(t *testing.T) {
	acc, _ := NewAccount("acc1", "tenant1", AccountTypePerson, TierZero)
	acc.Balances["USD"] = Balance{Available: decimal.NewFromInt(50)}

	_, err := acc.Debit("USD", decimal.NewFromInt(100))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}

	bal, err := acc.Debit("USD", decimal.NewFromInt(30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bal.Available.Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected 20 remaining, got %s", bal.Available)
	}
}

func TestCapsForTiers(t *testing.T) {
	cases := []struct {
		tier VerificationTier
		perTx string
	}{
		{TierZero, "500"},
		{TierOne, "5000"},
		{TierTwo, "25000"},
		{TierThree, "100000"},
	}
	for _, c := range cases {
		caps := CapsFor(c.tier)
		if !caps.PerTransaction.Equal(decimal.RequireFromString(c.perTx)) {
			t.Errorf("tier %d: expected per-tx cap %s, got %s", c.tier, c.perTx, caps.PerTransaction)
		}
	}
}
