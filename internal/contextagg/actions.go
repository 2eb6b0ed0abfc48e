package contextagg

import "github.com/haxaco/payos-sub010/internal/domain"

// availableActionsForTransfer derives the action list purely from status, as
// the transfer {pending->cancel, completed->refund/dispute/receipt,
// failed->retry} table specifies.
func availableActionsForTransfer(status domain.TransferStatus) []string {
	switch status {
	case domain.TransferStatusPending, domain.TransferStatusProcessing:
		return []string{"cancel"}
	case domain.TransferStatusCompleted:
		return []string{"refund", "dispute", "receipt"}
	case domain.TransferStatusFailed:
		return []string{"retry"}
	default:
		return nil
	}
}

func availableActionsForAgent(status domain.AgentStatus) []string {
	switch status {
	case domain.AgentStatusActive:
		return []string{"make_payment"}
	case domain.AgentStatusSuspended:
		return []string{"activate"}
	default:
		return nil
	}
}

func availableActionsForBatch(anyFailed, anyPending bool) []string {
	var actions []string
	if anyFailed {
		actions = append(actions, "retry_failed")
	}
	if anyPending {
		actions = append(actions, "cancel_pending")
	}
	return actions
}
