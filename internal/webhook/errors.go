package webhook

import "errors"

var (
	ErrTransactionNotFound         = errors.New("settlement event not found")
	ErrPurchaseNotApproved         = errors.New("adjustment target must be an approved purchase")
	ErrExceedsOriginalAmount       = errors.New("total adjustments exceed original purchase amount")
	ErrAmountOutOfRange            = errors.New("purchase amount must be between R$1.00 and R$5,000.00")
	ErrInvalidEventType            = errors.New("invalid settlement event type")
	ErrDuplicateIdempotencyKey     = errors.New("duplicate idempotency key")
	ErrOriginalTransactionRequired = errors.New("reversal/refund must reference an original transaction")
	ErrDuplicateTransactionID      = errors.New("transaction ID already exists with a different event")
	ErrInvalidInput                = errors.New("invalid input")
)
