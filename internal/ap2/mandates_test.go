package ap2

import (
	"context"
	"testing"
	"time"

	"github.com/haxaco/payos-sub010/internal/apperrors"
	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/store"
)

func seedAccount(t *testing.T, s *store.Store, id string) {
	t.Helper()
	acc, err := domain.NewAccount(id, "t1", domain.AccountTypePerson, domain.TierTwo)
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	s.PutAccount(acc)
}

func money(t *testing.T, amount string) domain.Money {
	t.Helper()
	m, err := domain.ParseMoney(amount, "USD")
	if err != nil {
		t.Fatalf("ParseMoney: %v", err)
	}
	return m
}

func TestCreateRequiresExistingAccount(t *testing.T) {
	s := store.New()
	svc := New(s)
	_, err := svc.Create(context.Background(), "t1", domain.MandateTypeIntent, "agent1", "missing", money(t, "100"), time.Now().Add(time.Hour))
	if apperrors.KindOf(err) != apperrors.KindAccountNotFound {
		t.Fatalf("expected ACCOUNT_NOT_FOUND, got %v", err)
	}
}

func TestExecutePartialPaymentsAgainstEnvelope(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1")
	svc := New(s)
	m, err := svc.Create(context.Background(), "t1", domain.MandateTypeIntent, "agent1", "a1", money(t, "100"), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	updated, exec, err := svc.Execute(context.Background(), m.ID, "transfer1", money(t, "40"))
	if err != nil {
		t.Fatalf("unexpected execute error: %v", err)
	}
	if !updated.RemainingAmount.Amount.Equal(money(t, "60").Amount) {
		t.Errorf("expected remaining=60, got %s", updated.RemainingAmount.Amount)
	}
	if exec.ExecutionIndex != 1 {
		t.Errorf("expected execution index 1, got %d", exec.ExecutionIndex)
	}
	if updated.Status != domain.MandateStatusActive {
		t.Errorf("expected mandate still active, got %s", updated.Status)
	}

	_, _, err = svc.Execute(context.Background(), m.ID, "transfer2", money(t, "60"))
	if err != nil {
		t.Fatalf("unexpected error exhausting the envelope: %v", err)
	}
	final, err := svc.Get(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if final.Status != domain.MandateStatusCompleted {
		t.Errorf("expected mandate completed once the envelope is exhausted, got %s", final.Status)
	}
}

func TestExecuteRejectsAmountExceedingRemaining(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1")
	svc := New(s)
	m, _ := svc.Create(context.Background(), "t1", domain.MandateTypeIntent, "agent1", "a1", money(t, "100"), time.Now().Add(time.Hour))

	_, _, err := svc.Execute(context.Background(), m.ID, "transfer1", money(t, "150"))
	if apperrors.KindOf(err) != apperrors.KindMandateExceeded {
		t.Fatalf("expected AP2_MANDATE_EXCEEDED, got %v", err)
	}
}

func TestExecuteRejectsExpiredMandate(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1")
	svc := New(s)
	m, _ := svc.Create(context.Background(), "t1", domain.MandateTypeIntent, "agent1", "a1", money(t, "100"), time.Now().Add(-time.Minute))

	_, _, err := svc.Execute(context.Background(), m.ID, "transfer1", money(t, "10"))
	if apperrors.KindOf(err) != apperrors.KindMandateExpired {
		t.Fatalf("expected AP2_MANDATE_EXPIRED, got %v", err)
	}
}

func TestCancelRejectsAlreadyTerminalMandate(t *testing.T) {
	s := store.New()
	seedAccount(t, s, "a1")
	svc := New(s)
	m, _ := svc.Create(context.Background(), "t1", domain.MandateTypeIntent, "agent1", "a1", money(t, "100"), time.Now().Add(time.Hour))

	if _, err := svc.Cancel(context.Background(), m.ID); err != nil {
		t.Fatalf("unexpected error cancelling: %v", err)
	}
	_, err := svc.Cancel(context.Background(), m.ID)
	if apperrors.KindOf(err) != apperrors.KindMandateAlreadyTerminal {
		t.Fatalf("expected MANDATE_ALREADY_TERMINAL, got %v", err)
	}
}

func TestExecuteUnknownMandateNotFound(t *testing.T) {
	s := store.New()
	svc := New(s)
	_, _, err := svc.Execute(context.Background(), "missing", "transfer1", money(t, "10"))
	if apperrors.KindOf(err) != apperrors.KindMandateNotFound {
		t.Fatalf("expected MANDATE_NOT_FOUND, got %v", err)
	}
}
