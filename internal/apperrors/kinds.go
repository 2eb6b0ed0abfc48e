// Package apperrors implements the closed error taxonomy described in the
// platform's response-envelope contract: every public-facing failure maps to
// exactly one Kind, carrying static metadata (category, HTTP status,
// retryability, expected detail fields, docs link) that internal/envelope
// uses to build the wire error shape.
package apperrors

import "net/http"

// Category partitions the Kind registry into the ten families the response
// envelope groups errors under.
type Category string

const (
	CategoryBalance    Category = "balance"
	CategoryValidation Category = "validation"
	CategoryLimits     Category = "limits"
	CategoryCompliance Category = "compliance"
	CategoryTechnical  Category = "technical"
	CategoryWorkflow   Category = "workflow"
	CategoryAuth       Category = "auth"
	CategoryResource   Category = "resource"
	CategoryState      Category = "state"
	CategoryProtocol   Category = "protocol"
)

// Kind is a closed enumeration of error codes. New kinds must be registered
// in the registry table below or ForKind panics — this keeps the
// taxonomy from silently growing an unmetered tail.
type Kind string

const (
	// Balance
	KindInsufficientBalance       Kind = "INSUFFICIENT_BALANCE"
	KindInsufficientHoldBalance   Kind = "INSUFFICIENT_HOLD_BALANCE"
	KindDestinationInsufficient   Kind = "DESTINATION_INSUFFICIENT_BALANCE"
	KindBalanceWouldGoNegative    Kind = "BALANCE_WOULD_GO_NEGATIVE"
	KindHoldNotFound              Kind = "HOLD_NOT_FOUND"
	KindOverdraftNotPermitted     Kind = "OVERDRAFT_NOT_PERMITTED"

	// Validation
	KindValidationFailed       Kind = "VALIDATION_FAILED"
	KindMissingRequiredField   Kind = "MISSING_REQUIRED_FIELD"
	KindInvalidAmount          Kind = "INVALID_AMOUNT"
	KindInvalidCurrency        Kind = "INVALID_CURRENCY"
	KindCurrencyMismatch       Kind = "CURRENCY_MISMATCH"
	KindInvalidAccountID       Kind = "INVALID_ACCOUNT_ID"
	KindInvalidActionType      Kind = "INVALID_ACTION_TYPE"
	KindInvalidEnumValue       Kind = "INVALID_ENUM_VALUE"
	KindInvalidTimestamp       Kind = "INVALID_TIMESTAMP"
	KindBatchSizeOutOfRange    Kind = "BATCH_SIZE_OUT_OF_RANGE"
	KindCheckoutTotalMismatch  Kind = "CHECKOUT_TOTAL_MISMATCH"
	KindInvalidIdempotencyKey  Kind = "INVALID_IDEMPOTENCY_KEY"
	KindInvalidPagination      Kind = "INVALID_PAGINATION"
	KindInvalidRefundReason    Kind = "INVALID_REFUND_REASON"
	KindSameAccountTransfer    Kind = "SAME_ACCOUNT_TRANSFER"

	// Limits
	KindLimitExceeded             Kind = "LIMIT_EXCEEDED"
	KindDailyLimitExceeded        Kind = "DAILY_LIMIT_EXCEEDED"
	KindMonthlyLimitExceeded      Kind = "MONTHLY_LIMIT_EXCEEDED"
	KindPerTransactionLimitExceed Kind = "PER_TRANSACTION_LIMIT_EXCEEDED"
	KindRateLimited               Kind = "RATE_LIMITED"
	KindAgentSpendingCapExceeded  Kind = "AGENT_SPENDING_CAP_EXCEEDED"
	KindApprovalThresholdExceeded Kind = "APPROVAL_THRESHOLD_EXCEEDED"
	KindBatchTooLarge             Kind = "BATCH_TOO_LARGE"

	// Compliance
	KindComplianceBlock      Kind = "COMPLIANCE_BLOCK"
	KindComplianceHold       Kind = "COMPLIANCE_HOLD"
	KindKYCRequired          Kind = "KYC_REQUIRED"
	KindKYBRequired          Kind = "KYB_REQUIRED"
	KindKYARequired          Kind = "KYA_REQUIRED"
	KindSanctionsHit         Kind = "SANCTIONS_HIT"
	KindPEPMatch             Kind = "PEP_MATCH"
	KindVelocityAnomaly      Kind = "VELOCITY_ANOMALY"
	KindManualReviewRequired Kind = "MANUAL_REVIEW_REQUIRED"

	// Technical
	KindInternalError          Kind = "INTERNAL_ERROR"
	KindServiceUnavailable     Kind = "SERVICE_UNAVAILABLE"
	KindRailUnavailable        Kind = "RAIL_UNAVAILABLE"
	KindFacilitatorUnavailable Kind = "FACILITATOR_UNAVAILABLE"
	KindTimeout                Kind = "TIMEOUT"
	KindUpstreamError          Kind = "UPSTREAM_ERROR"
	KindDatabaseError          Kind = "DATABASE_ERROR"
	KindSerializationError     Kind = "SERIALIZATION_ERROR"
	KindCircuitOpen            Kind = "CIRCUIT_OPEN"

	// Workflow
	KindQuoteExpired                  Kind = "QUOTE_EXPIRED"
	KindFXRateExpired                 Kind = "FX_RATE_EXPIRED"
	KindSimulationExpired             Kind = "SIMULATION_EXPIRED"
	KindSimulationNotFound            Kind = "SIMULATION_NOT_FOUND"
	KindSimulationCannotExecute       Kind = "SIMULATION_CANNOT_EXECUTE"
	KindSimulationFXVarianceExceeded  Kind = "SIMULATION_FX_VARIANCE_EXCEEDED"
	KindSimulationFeeVarianceExceeded Kind = "SIMULATION_FEE_VARIANCE_EXCEEDED"
	KindSimulationStale               Kind = "SIMULATION_STALE"
	KindBatchStopped                  Kind = "BATCH_STOPPED"
	KindRefundWindowExpired           Kind = "REFUND_WINDOW_EXPIRED"
	KindRefundAmountExceedsAvailable  Kind = "REFUND_AMOUNT_EXCEEDS_AVAILABLE"
	KindStreamProjectionUnavailable   Kind = "STREAM_PROJECTION_UNAVAILABLE"

	// Auth
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindForbidden           Kind = "FORBIDDEN"
	KindInvalidAPIKey       Kind = "INVALID_API_KEY"
	KindExpiredAPIKey       Kind = "EXPIRED_API_KEY"
	KindTenantMismatch      Kind = "TENANT_MISMATCH"
	KindInsufficientScope   Kind = "INSUFFICIENT_SCOPE"
	KindSharedTokenInvalid  Kind = "SHARED_PAYMENT_TOKEN_INVALID"
	KindAgentNotAuthorized  Kind = "AGENT_NOT_AUTHORIZED"

	// Resource
	KindNotFound             Kind = "NOT_FOUND"
	KindAccountNotFound      Kind = "ACCOUNT_NOT_FOUND"
	KindTransferNotFound     Kind = "TRANSFER_NOT_FOUND"
	KindAgentNotFound        Kind = "AGENT_NOT_FOUND"
	KindBatchNotFound        Kind = "BATCH_NOT_FOUND"
	KindMandateNotFound      Kind = "MANDATE_NOT_FOUND"
	KindCheckoutNotFound     Kind = "CHECKOUT_NOT_FOUND"
	KindOriginalTxNotFound   Kind = "ORIGINAL_TRANSACTION_NOT_FOUND"
	KindAlreadyExists        Kind = "ALREADY_EXISTS"
	KindDuplicateRequest     Kind = "DUPLICATE_REQUEST"

	// State
	KindAccountSuspended         Kind = "ACCOUNT_SUSPENDED"
	KindAccountClosed            Kind = "ACCOUNT_CLOSED"
	KindTransferNotCancellable   Kind = "TRANSFER_NOT_CANCELLABLE"
	KindTransferNotRefundable    Kind = "TRANSFER_NOT_REFUNDABLE"
	KindMandateNotActive         Kind = "MANDATE_NOT_ACTIVE"
	KindMandateExpired           Kind = "AP2_MANDATE_EXPIRED"
	KindMandateExceeded          Kind = "AP2_MANDATE_EXCEEDED"
	KindMandateAlreadyTerminal   Kind = "MANDATE_ALREADY_TERMINAL"
	KindCheckoutNotPending       Kind = "CHECKOUT_NOT_PENDING"
	KindCheckoutExpired          Kind = "CHECKOUT_EXPIRED"
	KindCheckoutAlreadyTerminal  Kind = "CHECKOUT_ALREADY_TERMINAL"
	KindAgentAlreadyInState      Kind = "AGENT_ALREADY_IN_STATE"
	KindAgentHasActiveStreams    Kind = "AGENT_HAS_ACTIVE_STREAMS"
	KindConcurrentModification   Kind = "CONCURRENT_MODIFICATION"
	KindIdempotencyKeyConflict   Kind = "IDEMPOTENCY_KEY_CONFLICT"
	KindParentMustBeBusiness     Kind = "PARENT_MUST_BE_BUSINESS"

	// Protocol
	KindX402PaymentRequired      Kind = "X402_PAYMENT_REQUIRED"
	KindX402UnsupportedScheme    Kind = "X402_UNSUPPORTED_SCHEME"
	KindX402UnsupportedNetwork   Kind = "X402_UNSUPPORTED_NETWORK"
	KindX402VerificationFailed   Kind = "X402_VERIFICATION_FAILED"
	KindX402SettlementFailed     Kind = "X402_SETTLEMENT_FAILED"
	KindACPCartInvalid           Kind = "ACP_CART_INVALID"
	KindACPTotalPinMismatch      Kind = "ACP_TOTAL_PIN_MISMATCH"
	KindProtocolVersionMismatch  Kind = "PROTOCOL_VERSION_MISMATCH"
)

// DetailField names a field expected inside an error's details payload.
type DetailField string

// Meta is the static, per-Kind metadata the response envelope and retry
// guidance layers read from.
type Meta struct {
	Category              Category
	HTTPStatus             int
	Retryable              bool
	DefaultRetryAction     string
	ExpectedDetailFields   []DetailField
	DocumentationURL       string
}

const docBase = "https://docs.payos.dev/errors/"

func doc(slug string) string { return docBase + slug }

var registry = map[Kind]Meta{
	// Balance
	KindInsufficientBalance:     {CategoryBalance, http.StatusUnprocessableEntity, true, "top_up_account", []DetailField{"shortfall", "currency", "account_id"}, doc("insufficient-balance")},
	KindInsufficientHoldBalance: {CategoryBalance, http.StatusUnprocessableEntity, true, "top_up_account", []DetailField{"shortfall", "currency"}, doc("insufficient-hold-balance")},
	KindDestinationInsufficient: {CategoryBalance, http.StatusUnprocessableEntity, true, "top_up_account", []DetailField{"shortfall", "currency", "account_id"}, doc("destination-insufficient-balance")},
	KindBalanceWouldGoNegative:  {CategoryBalance, http.StatusUnprocessableEntity, false, "", []DetailField{"account_id"}, doc("balance-negative")},
	KindHoldNotFound:            {CategoryBalance, http.StatusNotFound, false, "", []DetailField{"hold_id"}, doc("hold-not-found")},
	KindOverdraftNotPermitted:   {CategoryBalance, http.StatusUnprocessableEntity, false, "", nil, doc("overdraft-not-permitted")},

	// Validation
	KindValidationFailed:      {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"field", "reason"}, doc("validation-failed")},
	KindMissingRequiredField:  {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"field"}, doc("missing-required-field")},
	KindInvalidAmount:         {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"amount"}, doc("invalid-amount")},
	KindInvalidCurrency:       {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"currency"}, doc("invalid-currency")},
	KindCurrencyMismatch:      {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"expected", "actual"}, doc("currency-mismatch")},
	KindInvalidAccountID:      {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"account_id"}, doc("invalid-account-id")},
	KindInvalidActionType:     {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"action_type"}, doc("invalid-action-type")},
	KindInvalidEnumValue:      {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"field", "allowed"}, doc("invalid-enum-value")},
	KindInvalidTimestamp:      {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"field"}, doc("invalid-timestamp")},
	KindBatchSizeOutOfRange:   {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"count", "min", "max"}, doc("batch-size-out-of-range")},
	KindCheckoutTotalMismatch: {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"expected_total", "computed_total"}, doc("checkout-total-mismatch")},
	KindInvalidIdempotencyKey: {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"idempotency_key"}, doc("invalid-idempotency-key")},
	KindInvalidPagination:     {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"cursor"}, doc("invalid-pagination")},
	KindInvalidRefundReason:   {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"reason"}, doc("invalid-refund-reason")},
	KindSameAccountTransfer:   {CategoryValidation, http.StatusBadRequest, false, "", []DetailField{"account_id"}, doc("same-account-transfer")},

	// Limits
	KindLimitExceeded:             {CategoryLimits, http.StatusUnprocessableEntity, true, "wait_for_reset", []DetailField{"kind", "cap", "used", "remaining"}, doc("limit-exceeded")},
	KindDailyLimitExceeded:        {CategoryLimits, http.StatusUnprocessableEntity, true, "wait_for_reset", []DetailField{"cap", "used", "reset_at"}, doc("daily-limit-exceeded")},
	KindMonthlyLimitExceeded:      {CategoryLimits, http.StatusUnprocessableEntity, true, "wait_for_reset", []DetailField{"cap", "used", "reset_at"}, doc("monthly-limit-exceeded")},
	KindPerTransactionLimitExceed: {CategoryLimits, http.StatusUnprocessableEntity, false, "", []DetailField{"cap", "requested"}, doc("per-transaction-limit-exceeded")},
	KindRateLimited:               {CategoryLimits, http.StatusTooManyRequests, true, "wait_for_reset", []DetailField{"retry_after_seconds"}, doc("rate-limited")},
	KindAgentSpendingCapExceeded:  {CategoryLimits, http.StatusUnprocessableEntity, true, "reduce_amount", []DetailField{"cap", "used"}, doc("agent-spending-cap-exceeded")},
	KindApprovalThresholdExceeded: {CategoryLimits, http.StatusUnprocessableEntity, true, "request_limit_increase", []DetailField{"threshold", "amount"}, doc("approval-threshold-exceeded")},
	KindBatchTooLarge:             {CategoryLimits, http.StatusBadRequest, false, "", []DetailField{"count", "max"}, doc("batch-too-large")},

	// Compliance
	KindComplianceBlock:      {CategoryCompliance, http.StatusForbidden, false, "contact_support", []DetailField{"severity", "flags"}, doc("compliance-block")},
	KindComplianceHold:       {CategoryCompliance, http.StatusForbidden, true, "contact_support", []DetailField{"flags", "hold_expires_at"}, doc("compliance-hold")},
	KindKYCRequired:          {CategoryCompliance, http.StatusForbidden, true, "complete_kyc", []DetailField{"current_tier", "required_tier"}, doc("kyc-required")},
	KindKYBRequired:          {CategoryCompliance, http.StatusForbidden, true, "complete_kyb", []DetailField{"current_tier", "required_tier"}, doc("kyb-required")},
	KindKYARequired:          {CategoryCompliance, http.StatusForbidden, true, "complete_kya", []DetailField{"current_tier", "required_tier"}, doc("kya-required")},
	KindSanctionsHit:         {CategoryCompliance, http.StatusForbidden, false, "contact_support", []DetailField{"list"}, doc("sanctions-hit")},
	KindPEPMatch:             {CategoryCompliance, http.StatusForbidden, true, "contact_support", []DetailField{"match_score"}, doc("pep-match")},
	KindVelocityAnomaly:      {CategoryCompliance, http.StatusForbidden, true, "contact_support", []DetailField{"window", "count"}, doc("velocity-anomaly")},
	KindManualReviewRequired: {CategoryCompliance, http.StatusForbidden, true, "contact_support", []DetailField{"review_id"}, doc("manual-review-required")},

	// Technical
	KindInternalError:          {CategoryTechnical, http.StatusInternalServerError, true, "", nil, doc("internal-error")},
	KindServiceUnavailable:     {CategoryTechnical, http.StatusServiceUnavailable, true, "", []DetailField{"service"}, doc("service-unavailable")},
	KindRailUnavailable:        {CategoryTechnical, http.StatusServiceUnavailable, true, "use_alternative_rail", []DetailField{"rail"}, doc("rail-unavailable")},
	KindFacilitatorUnavailable: {CategoryTechnical, http.StatusServiceUnavailable, true, "", []DetailField{"facilitator"}, doc("facilitator-unavailable")},
	KindTimeout:                {CategoryTechnical, http.StatusGatewayTimeout, true, "", nil, doc("timeout")},
	KindUpstreamError:          {CategoryTechnical, http.StatusBadGateway, true, "", []DetailField{"upstream"}, doc("upstream-error")},
	KindDatabaseError:          {CategoryTechnical, http.StatusInternalServerError, true, "", nil, doc("database-error")},
	KindSerializationError:     {CategoryTechnical, http.StatusInternalServerError, false, "", nil, doc("serialization-error")},
	KindCircuitOpen:            {CategoryTechnical, http.StatusServiceUnavailable, true, "use_alternative_rail", []DetailField{"breaker"}, doc("circuit-open")},

	// Workflow
	KindQuoteExpired:                  {CategoryWorkflow, http.StatusConflict, true, "refresh_quote", []DetailField{"quote_id"}, doc("quote-expired")},
	KindFXRateExpired:                 {CategoryWorkflow, http.StatusConflict, true, "refresh_quote", []DetailField{"rate_id"}, doc("fx-rate-expired")},
	KindSimulationExpired:             {CategoryWorkflow, http.StatusGone, false, "re_simulate", []DetailField{"simulation_id", "expired_at"}, doc("simulation-expired")},
	KindSimulationNotFound:            {CategoryWorkflow, http.StatusNotFound, false, "", []DetailField{"simulation_id"}, doc("simulation-not-found")},
	KindSimulationCannotExecute:       {CategoryWorkflow, http.StatusBadRequest, false, "re_simulate", []DetailField{"simulation_id", "errors"}, doc("simulation-cannot-execute")},
	KindSimulationFXVarianceExceeded:  {CategoryWorkflow, http.StatusConflict, true, "re_simulate", []DetailField{"original_rate", "current_rate", "variance_pct"}, doc("simulation-fx-variance-exceeded")},
	KindSimulationFeeVarianceExceeded: {CategoryWorkflow, http.StatusConflict, true, "re_simulate", []DetailField{"original_fee", "current_fee"}, doc("simulation-fee-variance-exceeded")},
	KindSimulationStale:               {CategoryWorkflow, http.StatusConflict, true, "re_simulate", []DetailField{"original_preview", "current_preview", "errors"}, doc("simulation-stale")},
	KindBatchStopped:                  {CategoryWorkflow, http.StatusUnprocessableEntity, false, "", []DetailField{"stopped_at_index"}, doc("batch-stopped")},
	KindRefundWindowExpired:           {CategoryWorkflow, http.StatusUnprocessableEntity, false, "", []DetailField{"days_since_transfer", "window_days"}, doc("refund-window-expired")},
	KindRefundAmountExceedsAvailable:  {CategoryWorkflow, http.StatusUnprocessableEntity, false, "", []DetailField{"requested", "remaining_refundable"}, doc("refund-amount-exceeds-available")},
	KindStreamProjectionUnavailable:   {CategoryWorkflow, http.StatusNotImplemented, false, "", []DetailField{"action_type"}, doc("stream-projection-unavailable")},

	// Auth
	KindUnauthorized:       {CategoryAuth, http.StatusUnauthorized, false, "", nil, doc("unauthorized")},
	KindForbidden:          {CategoryAuth, http.StatusForbidden, false, "", nil, doc("forbidden")},
	KindInvalidAPIKey:      {CategoryAuth, http.StatusUnauthorized, false, "", nil, doc("invalid-api-key")},
	KindExpiredAPIKey:      {CategoryAuth, http.StatusUnauthorized, false, "", nil, doc("expired-api-key")},
	KindTenantMismatch:     {CategoryAuth, http.StatusForbidden, false, "", []DetailField{"tenant"}, doc("tenant-mismatch")},
	KindInsufficientScope:  {CategoryAuth, http.StatusForbidden, false, "", []DetailField{"required_scope"}, doc("insufficient-scope")},
	KindSharedTokenInvalid: {CategoryAuth, http.StatusUnauthorized, false, "", []DetailField{"checkout_id"}, doc("shared-payment-token-invalid")},
	KindAgentNotAuthorized: {CategoryAuth, http.StatusForbidden, false, "", []DetailField{"agent_id"}, doc("agent-not-authorized")},

	// Resource
	KindNotFound:           {CategoryResource, http.StatusNotFound, false, "verify_id", []DetailField{"id"}, doc("not-found")},
	KindAccountNotFound:    {CategoryResource, http.StatusNotFound, false, "verify_id", []DetailField{"account_id"}, doc("account-not-found")},
	KindTransferNotFound:   {CategoryResource, http.StatusNotFound, false, "verify_id", []DetailField{"transfer_id"}, doc("transfer-not-found")},
	KindAgentNotFound:      {CategoryResource, http.StatusNotFound, false, "verify_id", []DetailField{"agent_id"}, doc("agent-not-found")},
	KindBatchNotFound:      {CategoryResource, http.StatusNotFound, false, "verify_id", []DetailField{"batch_id"}, doc("batch-not-found")},
	KindMandateNotFound:    {CategoryResource, http.StatusNotFound, false, "verify_id", []DetailField{"mandate_id"}, doc("mandate-not-found")},
	KindCheckoutNotFound:   {CategoryResource, http.StatusNotFound, false, "verify_id", []DetailField{"checkout_id"}, doc("checkout-not-found")},
	KindOriginalTxNotFound: {CategoryResource, http.StatusNotFound, false, "verify_id", []DetailField{"original_transfer_id"}, doc("original-transaction-not-found")},
	KindAlreadyExists:      {CategoryResource, http.StatusConflict, false, "", []DetailField{"id"}, doc("already-exists")},
	KindDuplicateRequest:   {CategoryResource, http.StatusConflict, false, "", []DetailField{"idempotency_key"}, doc("duplicate-request")},

	// State
	KindAccountSuspended:        {CategoryState, http.StatusForbidden, false, "contact_support", []DetailField{"account_id"}, doc("account-suspended")},
	KindAccountClosed:           {CategoryState, http.StatusForbidden, false, "use_different_account", []DetailField{"account_id"}, doc("account-closed")},
	KindTransferNotCancellable:  {CategoryState, http.StatusConflict, false, "", []DetailField{"transfer_id", "status"}, doc("transfer-not-cancellable")},
	KindTransferNotRefundable:   {CategoryState, http.StatusConflict, false, "", []DetailField{"transfer_id", "status"}, doc("transfer-not-refundable")},
	KindMandateNotActive:        {CategoryState, http.StatusConflict, false, "create_new_mandate", []DetailField{"mandate_id", "status"}, doc("mandate-not-active")},
	KindMandateExpired:          {CategoryState, http.StatusGone, true, "create_new_mandate", []DetailField{"mandate_id", "expired_at"}, doc("ap2-mandate-expired")},
	KindMandateExceeded:         {CategoryState, http.StatusUnprocessableEntity, false, "create_new_mandate", []DetailField{"mandate_id", "remaining_amount", "requested_amount"}, doc("ap2-mandate-exceeded")},
	KindMandateAlreadyTerminal:  {CategoryState, http.StatusConflict, false, "create_new_mandate", []DetailField{"mandate_id", "status"}, doc("mandate-already-terminal")},
	KindCheckoutNotPending:      {CategoryState, http.StatusConflict, false, "", []DetailField{"checkout_id", "status"}, doc("checkout-not-pending")},
	KindCheckoutExpired:         {CategoryState, http.StatusGone, false, "", []DetailField{"checkout_id", "expired_at"}, doc("checkout-expired")},
	KindCheckoutAlreadyTerminal: {CategoryState, http.StatusConflict, false, "", []DetailField{"checkout_id", "status"}, doc("checkout-already-terminal")},
	KindAgentAlreadyInState:     {CategoryState, http.StatusConflict, false, "", []DetailField{"agent_id", "status"}, doc("agent-already-in-state")},
	KindAgentHasActiveStreams:   {CategoryState, http.StatusConflict, false, "", []DetailField{"agent_id", "stream_count"}, doc("agent-has-active-streams")},
	KindConcurrentModification:  {CategoryState, http.StatusConflict, true, "", []DetailField{"resource_id"}, doc("concurrent-modification")},
	KindIdempotencyKeyConflict:  {CategoryState, http.StatusConflict, false, "", []DetailField{"idempotency_key"}, doc("idempotency-key-conflict")},
	KindParentMustBeBusiness:    {CategoryState, http.StatusBadRequest, false, "", []DetailField{"account_id", "account_type"}, doc("parent-must-be-business")},

	// Protocol
	KindX402PaymentRequired:     {CategoryProtocol, http.StatusPaymentRequired, true, "", []DetailField{"accepts"}, doc("x402-payment-required")},
	KindX402UnsupportedScheme:   {CategoryProtocol, http.StatusBadRequest, false, "", []DetailField{"scheme"}, doc("x402-unsupported-scheme")},
	KindX402UnsupportedNetwork:  {CategoryProtocol, http.StatusBadRequest, false, "", []DetailField{"network"}, doc("x402-unsupported-network")},
	KindX402VerificationFailed:  {CategoryProtocol, http.StatusBadRequest, false, "", []DetailField{"reason"}, doc("x402-verification-failed")},
	KindX402SettlementFailed:    {CategoryProtocol, http.StatusUnprocessableEntity, true, "", []DetailField{"reason"}, doc("x402-settlement-failed")},
	KindACPCartInvalid:          {CategoryProtocol, http.StatusBadRequest, false, "", []DetailField{"reason"}, doc("acp-cart-invalid")},
	KindACPTotalPinMismatch:     {CategoryProtocol, http.StatusBadRequest, false, "", []DetailField{"pinned_total", "computed_total"}, doc("acp-total-pin-mismatch")},
	KindProtocolVersionMismatch: {CategoryProtocol, http.StatusBadRequest, false, "", []DetailField{"expected_version", "actual_version"}, doc("protocol-version-mismatch")},
}

// ForKind returns the static metadata for kind. It panics on an unregistered
// kind — every Kind constant must have a registry entry, by construction.
func ForKind(kind Kind) Meta {
	m, ok := registry[kind]
	if !ok {
		panic("apperrors: unregistered kind " + string(kind))
	}
	return m
}

// AllKinds returns every registered kind, for tests asserting the universal
// properties (http_status range, category closure, retry completeness).
func AllKinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	return kinds
}

// Categories is the closed set of valid categories.
func Categories() []Category {
	return []Category{
		CategoryBalance, CategoryValidation, CategoryLimits, CategoryCompliance,
		CategoryTechnical, CategoryWorkflow, CategoryAuth, CategoryResource,
		CategoryState, CategoryProtocol,
	}
}
