package domain

import (
	"fmt"
	"time"
)

const RefundWindow = 30 * 24 * time.Hour

// Refund is a reverse movement against a prior completed Transfer.
type Refund struct {
	ID                 string
	OriginalTransferID string
	Amount             Money
	Reason             RefundReason
	CreatedAt          time.Time
}

func NewRefund(id, originalTransferID string, amount Money, reason RefundReason) (Refund, error) {
	if id == "" {
		return Refund{}, fmt.Errorf("%w: refund id is required", ErrInvalidInput)
	}
	if originalTransferID == "" {
		return Refund{}, fmt.Errorf("%w: original_transfer is required", ErrInvalidInput)
	}
	return Refund{
		ID:                 id,
		OriginalTransferID: originalTransferID,
		Amount:             amount,
		Reason:             reason,
		CreatedAt:          time.Now(),
	}, nil
}

// WithinWindow reports whether a refund is still permitted against a
// transfer that completed at completedAt, evaluated at now.
func WithinWindow(completedAt, now time.Time) bool {
	return now.Sub(completedAt) <= RefundWindow
}

// RemainingRefundable computes the refundable headroom left on a transfer of
// originalAmount given the sum of amounts already refunded against it.
func RemainingRefundable(originalAmount, alreadyRefunded Money) (Money, error) {
	return originalAmount.Sub(alreadyRefunded)
}
