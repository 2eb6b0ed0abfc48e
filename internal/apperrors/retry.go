package apperrors

// BackoffStrategy mirrors the three strategies the retry-guidance table
// names.
type BackoffStrategy string

const (
	BackoffFixed       BackoffStrategy = "fixed"
	BackoffExponential BackoffStrategy = "exponential"
	BackoffLinear      BackoffStrategy = "linear"
)

// Retry is the `retry` object attached to every error envelope.
type Retry struct {
	Retryable         bool             `json:"retryable"`
	RetryAfterSeconds *int             `json:"retry_after_seconds,omitempty"`
	BackoffStrategy   *BackoffStrategy `json:"backoff_strategy,omitempty"`
	MaxRetries        *int             `json:"max_retries,omitempty"`
	RetryAfterAction  string           `json:"retry_after_action,omitempty"`
}

// RetryContext supplies request-specific values the retry table needs
// (a rate-limit header value, seconds until a limit window resets, etc).
// Zero values fall back to the table's documented defaults.
type RetryContext struct {
	RateLimitRetryAfterSeconds int
	SecondsUntilLimitReset     int
}

func intPtr(v int) *int                       { return &v }
func strategyPtr(s BackoffStrategy) *BackoffStrategy { return &s }

// RetryFor derives the retry object for kind per the retry-guidance rule
// table. It is a pure function of (kind, ctx) — no I/O, no clock reads
// beyond what the caller supplies via ctx.
func RetryFor(kind Kind, ctx RetryContext) Retry {
	switch kind {
	case KindRateLimited:
		secs := ctx.RateLimitRetryAfterSeconds
		if secs <= 0 {
			secs = 60
		}
		return Retry{Retryable: true, RetryAfterSeconds: intPtr(secs), BackoffStrategy: strategyPtr(BackoffFixed)}

	case KindDailyLimitExceeded, KindMonthlyLimitExceeded, KindLimitExceeded:
		secs := ctx.SecondsUntilLimitReset
		if secs <= 0 {
			secs = 0
		}
		return Retry{Retryable: true, RetryAfterSeconds: intPtr(secs), BackoffStrategy: strategyPtr(BackoffFixed), RetryAfterAction: "wait_for_reset"}

	case KindInsufficientBalance, KindInsufficientHoldBalance, KindDestinationInsufficient:
		return Retry{Retryable: true, RetryAfterSeconds: intPtr(0), BackoffStrategy: strategyPtr(BackoffFixed), RetryAfterAction: "top_up_account"}

	case KindQuoteExpired, KindFXRateExpired:
		return Retry{Retryable: true, RetryAfterSeconds: intPtr(0), BackoffStrategy: strategyPtr(BackoffFixed), RetryAfterAction: "refresh_quote"}

	case KindServiceUnavailable, KindRailUnavailable, KindFacilitatorUnavailable, KindCircuitOpen:
		return Retry{Retryable: true, RetryAfterSeconds: intPtr(30), BackoffStrategy: strategyPtr(BackoffExponential), MaxRetries: intPtr(5)}

	case KindTimeout:
		return Retry{Retryable: true, RetryAfterSeconds: intPtr(10), BackoffStrategy: strategyPtr(BackoffExponential), MaxRetries: intPtr(3)}

	case KindIdempotencyKeyConflict, KindDuplicateRequest:
		return Retry{Retryable: false}

	case KindConcurrentModification:
		return Retry{Retryable: true, RetryAfterSeconds: intPtr(1), BackoffStrategy: strategyPtr(BackoffExponential)}

	case KindComplianceHold, KindManualReviewRequired, KindPEPMatch, KindVelocityAnomaly:
		return Retry{Retryable: true, RetryAfterSeconds: intPtr(3600), BackoffStrategy: strategyPtr(BackoffFixed), RetryAfterAction: "contact_support"}

	case KindMandateExpired:
		return Retry{Retryable: true, RetryAfterSeconds: intPtr(0), BackoffStrategy: strategyPtr(BackoffFixed), RetryAfterAction: "create_new_mandate"}

	case KindValidationFailed, KindMissingRequiredField, KindInvalidAmount, KindInvalidCurrency,
		KindCurrencyMismatch, KindNotFound, KindAccountNotFound, KindTransferNotFound,
		KindAgentNotFound, KindBatchNotFound, KindMandateNotFound, KindCheckoutNotFound,
		KindOriginalTxNotFound, KindSimulationNotFound, KindSimulationExpired,
		KindSimulationCannotExecute, KindRefundWindowExpired, KindRefundAmountExceedsAvailable,
		KindBatchSizeOutOfRange, KindCheckoutTotalMismatch, KindSameAccountTransfer:
		return Retry{Retryable: false}

	default:
		meta := ForKind(kind)
		if !meta.Retryable {
			return Retry{Retryable: false}
		}
		return Retry{Retryable: true, RetryAfterSeconds: intPtr(5), BackoffStrategy: strategyPtr(BackoffExponential), MaxRetries: intPtr(3)}
	}
}
