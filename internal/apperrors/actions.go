package apperrors

// SuggestedAction is one next-step hint attached to an error envelope.
type SuggestedAction struct {
	Action      string         `json:"action"`
	Description string         `json:"description"`
	Fields      map[string]any `json:"fields,omitempty"`
}

// SuggestedActionsFor derives the context-aware suggested_actions list for a
// kind. details is the same map passed to New/Wrap — actual ids, shortfalls,
// and reset timestamps populate the action's Fields.
func SuggestedActionsFor(kind Kind, details map[string]any) []SuggestedAction {
	switch kind {
	case KindInsufficientBalance, KindInsufficientHoldBalance, KindDestinationInsufficient:
		return []SuggestedAction{
			{Action: "top_up_account", Description: "Add funds to the source account to cover the shortfall.", Fields: pick(details, "shortfall", "currency", "account_id")},
			{Action: "reduce_amount", Description: "Retry with a smaller amount that fits the available balance."},
			{Action: "use_different_account", Description: "Retry the action from an account with sufficient balance."},
		}

	case KindLimitExceeded, KindDailyLimitExceeded, KindMonthlyLimitExceeded, KindPerTransactionLimitExceed:
		return []SuggestedAction{
			{Action: "wait_for_reset", Description: "Retry after the limit window resets.", Fields: pick(details, "reset_at")},
			{Action: "request_limit_increase", Description: "Request a verification tier upgrade to raise this limit."},
			{Action: "reduce_amount", Description: "Retry with an amount within the remaining limit."},
		}

	case KindQuoteExpired, KindFXRateExpired:
		return []SuggestedAction{
			{Action: "refresh_quote", Description: "Create a new simulation to get current rates and fees."},
		}

	case KindComplianceBlock, KindComplianceHold, KindKYCRequired, KindKYBRequired, KindKYARequired,
		KindManualReviewRequired, KindPEPMatch, KindVelocityAnomaly, KindSanctionsHit:
		actions := []SuggestedAction{
			{Action: "contact_support", Description: "Reach out to support to resolve the compliance hold.", Fields: pick(details, "review_id")},
		}
		switch kind {
		case KindKYCRequired:
			actions = append([]SuggestedAction{{Action: "complete_kyc", Description: "Complete identity verification to raise the account's tier."}}, actions...)
		case KindKYBRequired:
			actions = append([]SuggestedAction{{Action: "complete_kyb", Description: "Complete business verification to raise the account's tier."}}, actions...)
		case KindKYARequired:
			actions = append([]SuggestedAction{{Action: "complete_kya", Description: "Complete agent verification to raise the agent's tier."}}, actions...)
		}
		return actions

	case KindNotFound, KindAccountNotFound, KindTransferNotFound, KindAgentNotFound,
		KindBatchNotFound, KindMandateNotFound, KindCheckoutNotFound, KindOriginalTxNotFound:
		return []SuggestedAction{
			{Action: "verify_id", Description: "Double-check the id and tenant scoping of the request."},
		}

	case KindRailUnavailable, KindFacilitatorUnavailable, KindCircuitOpen:
		return []SuggestedAction{
			{Action: "use_alternative_rail", Description: "Retry via a different rail if the corridor supports one.", Fields: pick(details, "rail")},
		}

	case KindMandateExceeded, KindMandateExpired, KindMandateAlreadyTerminal:
		return []SuggestedAction{
			{Action: "create_new_mandate", Description: "The mandate cannot cover this execution; authorize a new one."},
		}

	case KindSimulationExpired, KindSimulationStale:
		return []SuggestedAction{
			{Action: "re_simulate", Description: "Create a fresh simulation before executing."},
		}

	default:
		return nil
	}
}

func pick(details map[string]any, keys ...string) map[string]any {
	if details == nil {
		return nil
	}
	out := map[string]any{}
	for _, k := range keys {
		if v, ok := details[k]; ok {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
