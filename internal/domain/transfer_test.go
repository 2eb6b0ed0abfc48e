package domain

import (
	"errors"
	"testing"
)

func TestNewTransferRejectsSameAccount(t *testing.T) {
	amount, _ := ParseMoney("100", "USD")
	_, err := NewTransfer("t1", "acc1", "acc1", amount, "USD", RailInternal, FeeBreakdown{})
	if !errors.Is(err, ErrSameAccountTransfer) {
		t.Errorf("expected ErrSameAccountTransfer, got %v", err)
	}
}

func TestTransferCancelOnlyWhenPending(t *testing.T) {
	amount, _ := ParseMoney("100", "USD")
	tr, err := NewTransfer("t1", "acc1", "acc2", amount, "USD", RailInternal, FeeBreakdown{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.Cancel(); err != nil {
		t.Fatalf("expected pending transfer to cancel, got %v", err)
	}
	if tr.Status != TransferStatusCancelled {
		t.Errorf("expected cancelled status, got %s", tr.Status)
	}
	if err := tr.Cancel(); !errors.Is(err, ErrTransferNotCancelable) {
		t.Errorf("expected ErrTransferNotCancelable on second cancel, got %v", err)
	}
}

func TestRailEstimatedDuration(t *testing.T) {
	cases := map[Rail]int64{
		RailInternal: 5,
		RailPix:      120,
		RailSpei:     180,
		RailCvu:      300,
		RailPse:      600,
		RailWire:     86400,
	}
	for rail, seconds := range cases {
		if got := rail.EstimatedDuration().Seconds(); got != float64(seconds) {
			t.Errorf("rail %s: expected %ds, got %.0fs", rail, seconds, got)
		}
	}
}
