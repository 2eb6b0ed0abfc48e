package domain

import "errors"

// Sentinel errors for the core ledger/movement entities. Service-layer
// packages (internal/simulate, internal/batch, internal/execution,
// internal/ap2, internal/acp) wrap these into *apperrors.Error with the
// taxonomy Kind and request-specific details; domain itself stays free of
// any HTTP/wire concern.
var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountSuspended       = errors.New("account is suspended")
	ErrAccountClosed          = errors.New("account is closed")
	ErrInsufficientBalance    = errors.New("insufficient available balance")
	ErrTransferNotFound       = errors.New("transfer not found")
	ErrTransferNotCancelable  = errors.New("transfer is not in a cancelable state")
	ErrSimulationNotFound     = errors.New("simulation not found")
	ErrSimulationExpired      = errors.New("simulation has expired")
	ErrSimulationCannotExec   = errors.New("simulation cannot be executed")
	ErrSimulationImmutable    = errors.New("simulation action payload is immutable once created")
	ErrBatchSizeOutOfRange    = errors.New("batch size must be between 1 and 1000")
	ErrBatchNotFound          = errors.New("batch not found")
	ErrMandateNotFound        = errors.New("mandate not found")
	ErrMandateNotActive       = errors.New("mandate is not active")
	ErrMandateExceeded        = errors.New("mandate remaining amount exceeded")
	ErrCheckoutNotFound       = errors.New("checkout not found")
	ErrCheckoutNotPending     = errors.New("checkout is not pending")
	ErrCheckoutTotalMismatch  = errors.New("checkout total does not match subtotal + tax + shipping - discount")
	ErrAgentNotFound          = errors.New("agent not found")
	ErrAgentParentNotBusiness = errors.New("agent parent account must be a business account")
	ErrAgentAlreadyInState    = errors.New("agent is already in the requested state")
	ErrAgentHasActiveStreams  = errors.New("agent has active managed streams")
	ErrRefundWindowExpired    = errors.New("refund window has expired")
	ErrRefundExceedsAvailable = errors.New("refund amount exceeds remaining refundable amount")
	ErrRefundNotFound         = errors.New("refund not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrSameAccountTransfer    = errors.New("source and destination accounts must differ")
)
