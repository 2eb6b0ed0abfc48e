package httpapi

import (
	"errors"

	"github.com/haxaco/payos-sub010/internal/apperrors"
	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/webhook"
)

// firstIssueErr converts a simulation's first terminal Issue into an
// *apperrors.Error. Issue.Code is always a string cast of an apperrors.Kind
// constant (the simulation engine constructs issues that way), so this never
// needs mapDomainErr's sentinel-matching chain.
func firstIssueErr(issues []domain.Issue) error {
	if len(issues) == 0 {
		return apperrors.New(apperrors.KindSimulationCannotExecute, "simulation cannot execute", nil)
	}
	iss := issues[0]
	return apperrors.New(apperrors.Kind(iss.Code), iss.Message, iss.Details)
}

// mapDomainErr translates a domain/webhook sentinel error into a typed
// *apperrors.Error via an errors.Is chain covering every entity's terminal
// errors. Errors already wearing *apperrors.Error (from simulate/batch/execution/
// ap2/acp, which construct their own Kind directly) pass through unchanged.
func mapDomainErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*apperrors.Error); ok {
		return err
	}

	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return apperrors.New(apperrors.KindAccountNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrAccountSuspended):
		return apperrors.New(apperrors.KindAccountSuspended, err.Error(), nil)
	case errors.Is(err, domain.ErrAccountClosed):
		return apperrors.New(apperrors.KindAccountClosed, err.Error(), nil)
	case errors.Is(err, domain.ErrInsufficientBalance):
		return apperrors.New(apperrors.KindInsufficientBalance, err.Error(), nil)
	case errors.Is(err, domain.ErrTransferNotFound):
		return apperrors.New(apperrors.KindTransferNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrTransferNotCancelable):
		return apperrors.New(apperrors.KindTransferNotCancellable, err.Error(), nil)
	case errors.Is(err, domain.ErrSimulationNotFound):
		return apperrors.New(apperrors.KindSimulationNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrSimulationExpired):
		return apperrors.New(apperrors.KindSimulationExpired, err.Error(), nil)
	case errors.Is(err, domain.ErrSimulationCannotExec):
		return apperrors.New(apperrors.KindSimulationCannotExecute, err.Error(), nil)
	case errors.Is(err, domain.ErrSimulationImmutable):
		return apperrors.New(apperrors.KindSimulationCannotExecute, err.Error(), nil)
	case errors.Is(err, domain.ErrBatchSizeOutOfRange):
		return apperrors.New(apperrors.KindBatchSizeOutOfRange, err.Error(), nil)
	case errors.Is(err, domain.ErrBatchNotFound):
		return apperrors.New(apperrors.KindBatchNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrMandateNotFound):
		return apperrors.New(apperrors.KindMandateNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrMandateNotActive):
		return apperrors.New(apperrors.KindMandateNotActive, err.Error(), nil)
	case errors.Is(err, domain.ErrMandateExceeded):
		return apperrors.New(apperrors.KindMandateExceeded, err.Error(), nil)
	case errors.Is(err, domain.ErrCheckoutNotFound):
		return apperrors.New(apperrors.KindCheckoutNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrCheckoutNotPending):
		return apperrors.New(apperrors.KindCheckoutNotPending, err.Error(), nil)
	case errors.Is(err, domain.ErrCheckoutTotalMismatch):
		return apperrors.New(apperrors.KindCheckoutTotalMismatch, err.Error(), nil)
	case errors.Is(err, domain.ErrAgentNotFound):
		return apperrors.New(apperrors.KindAgentNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrAgentParentNotBusiness):
		return apperrors.New(apperrors.KindParentMustBeBusiness, err.Error(), nil)
	case errors.Is(err, domain.ErrAgentAlreadyInState):
		return apperrors.New(apperrors.KindAgentAlreadyInState, err.Error(), nil)
	case errors.Is(err, domain.ErrAgentHasActiveStreams):
		return apperrors.New(apperrors.KindAgentHasActiveStreams, err.Error(), nil)
	case errors.Is(err, domain.ErrRefundNotFound):
		return apperrors.New(apperrors.KindNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrRefundWindowExpired):
		return apperrors.New(apperrors.KindRefundWindowExpired, err.Error(), nil)
	case errors.Is(err, domain.ErrRefundExceedsAvailable):
		return apperrors.New(apperrors.KindRefundAmountExceedsAvailable, err.Error(), nil)
	case errors.Is(err, domain.ErrSameAccountTransfer):
		return apperrors.New(apperrors.KindSameAccountTransfer, err.Error(), nil)
	case errors.Is(err, domain.ErrCurrencyMismatch):
		return apperrors.New(apperrors.KindCurrencyMismatch, err.Error(), nil)
	case errors.Is(err, domain.ErrNegativeAmount), errors.Is(err, domain.ErrInvalidInput):
		return apperrors.New(apperrors.KindInvalidAmount, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidCurrency):
		return apperrors.New(apperrors.KindInvalidCurrency, err.Error(), nil)

	case errors.Is(err, webhook.ErrTransactionNotFound):
		return apperrors.New(apperrors.KindOriginalTxNotFound, err.Error(), nil)
	case errors.Is(err, webhook.ErrPurchaseNotApproved):
		return apperrors.New(apperrors.KindTransferNotRefundable, err.Error(), nil)
	case errors.Is(err, webhook.ErrExceedsOriginalAmount):
		return apperrors.New(apperrors.KindRefundAmountExceedsAvailable, err.Error(), nil)
	case errors.Is(err, webhook.ErrAmountOutOfRange):
		return apperrors.New(apperrors.KindInvalidAmount, err.Error(), nil)
	case errors.Is(err, webhook.ErrInvalidEventType):
		return apperrors.New(apperrors.KindInvalidActionType, err.Error(), nil)
	case errors.Is(err, webhook.ErrDuplicateIdempotencyKey):
		return apperrors.New(apperrors.KindIdempotencyKeyConflict, err.Error(), nil)
	case errors.Is(err, webhook.ErrOriginalTransactionRequired):
		return apperrors.New(apperrors.KindMissingRequiredField, err.Error(), nil)
	case errors.Is(err, webhook.ErrDuplicateTransactionID):
		return apperrors.New(apperrors.KindAlreadyExists, err.Error(), nil)
	case errors.Is(err, webhook.ErrInvalidInput):
		return apperrors.New(apperrors.KindValidationFailed, err.Error(), nil)

	default:
		return apperrors.New(apperrors.KindInternalError, err.Error(), nil)
	}
}
