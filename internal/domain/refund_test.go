package domain

import (
	"testing"
	"time"
)

func TestWithinWindow(t *testing.T) {
	now := time.Now()
	if !WithinWindow(now.Add(-29*24*time.Hour), now) {
		t.Error("29 days should be within the 30-day window")
	}
	if WithinWindow(now.Add(-35*24*time.Hour), now) {
		t.Error("35 days should be outside the 30-day window")
	}
}

func TestRemainingRefundable(t *testing.T) {
	original, _ := ParseMoney("100", "USD")
	already, _ := ParseMoney("30", "USD")
	remaining, err := RemainingRefundable(original, already)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining.String() != "70.00" {
		t.Errorf("expected 70.00, got %s", remaining.String())
	}
}
