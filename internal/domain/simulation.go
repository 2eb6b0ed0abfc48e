package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ActionType string

const (
	ActionTypeTransfer ActionType = "transfer"
	ActionTypeRefund   ActionType = "refund"
	ActionTypeStream   ActionType = "stream"
	ActionTypeBatch    ActionType = "batch"
)

type SimulationStatus string

const (
	SimulationStatusPending   SimulationStatus = "pending"
	SimulationStatusCompleted SimulationStatus = "completed"
	SimulationStatusFailed    SimulationStatus = "failed"
	SimulationStatusExecuted  SimulationStatus = "executed"
	SimulationStatusExpired   SimulationStatus = "expired"
)

// TransferRequest is the frozen input to a transfer simulation.
type TransferRequest struct {
	FromAccount         string
	ToAccount           string
	Amount              Money
	DestinationCurrency string
}

type RefundReason string

const (
	RefundReasonCustomerRequest RefundReason = "customer_request"
	RefundReasonDuplicate       RefundReason = "duplicate_payment"
	RefundReasonFraud           RefundReason = "fraud"
	RefundReasonError           RefundReason = "error"
	RefundReasonOther           RefundReason = "other"
)

// RefundRequest is the frozen input to a refund simulation.
type RefundRequest struct {
	OriginalTransferID string
	Amount             Money
	Reason             RefundReason
}

// StreamRequest is a placeholder payload shape. The full projection algorithm
// for the "stream" action type is not specified; the POST /v1/simulate handler rejects it
// with a terminal STREAM_PROJECTION_UNAVAILABLE error rather than guessing
// at fee/timing math (see DESIGN.md Open Question decisions).
type StreamRequest struct {
	AgentID  string
	Amount   Money
	Interval time.Duration
}

// BatchRequest is the frozen input to a batch simulation — a slice of
// transfer requests processed under a shared cumulative-balance view.
type BatchRequest struct {
	Items            []TransferRequest
	StopOnFirstError bool
}

// ActionPayload is a tagged union over the four action shapes a Simulation
// may project. Exactly one of the pointer fields is non-nil, selected by Kind.
type ActionPayload struct {
	Kind     ActionType
	Transfer *TransferRequest
	Refund   *RefundRequest
	Stream   *StreamRequest
	Batch    *BatchRequest
}

func TransferPayload(req TransferRequest) ActionPayload {
	return ActionPayload{Kind: ActionTypeTransfer, Transfer: &req}
}

func RefundPayload(req RefundRequest) ActionPayload {
	return ActionPayload{Kind: ActionTypeRefund, Refund: &req}
}

func StreamPayload(req StreamRequest) ActionPayload {
	return ActionPayload{Kind: ActionTypeStream, Stream: &req}
}

func BatchPayload(req BatchRequest) ActionPayload {
	return ActionPayload{Kind: ActionTypeBatch, Batch: &req}
}

// Warning is a non-terminal preview annotation — can_execute is unaffected.
type Warning struct {
	Code    string
	Message string
	Details map[string]any
}

// Issue is a terminal preview annotation that forces CanExecute=false.
type Issue struct {
	Code    string
	Message string
	Details map[string]any
}

type FXPreview struct {
	Rate       decimal.Decimal
	Spread     decimal.Decimal
	RateLocked bool
}

type TimingPreview struct {
	Rail                     Rail
	EstimatedDurationSeconds int64
	EstimatedArrival         time.Time
}

type AccountSnapshot struct {
	AccountID     string
	BalanceBefore Money
	BalanceAfter  Money
}

// TransferPreview is the frozen projection produced by a transfer simulation.
type TransferPreview struct {
	Source      AccountSnapshot
	Destination AccountSnapshot
	FX          *FXPreview
	Fees        FeeBreakdown
	Timing      TimingPreview
}

type RefundEligibility struct {
	CanRefund     bool
	WindowExpires time.Time
	Reasons       []string
}

// RefundPreview is the frozen projection produced by a refund simulation.
type RefundPreview struct {
	RefundType  string
	Source      AccountSnapshot
	Destination AccountSnapshot
	Eligibility RefundEligibility
	Timing      TimingPreview
}

type VarianceLevel string

const (
	VarianceLow    VarianceLevel = "low"
	VarianceMedium VarianceLevel = "medium"
	VarianceHigh   VarianceLevel = "high"
)

// Variance captures the drift between a Simulation's frozen preview and the
// actual state observed at execution time.
type Variance struct {
	FXRateChange            decimal.Decimal
	FeeChange                decimal.Decimal
	DestinationAmountChange decimal.Decimal
	TimingChange            time.Duration
	Level                   VarianceLevel
}

// Simulation is an immutable projection of a proposed action. Re-simulating
// the same payload always produces a new id; the ActionPayload is never
// mutated after creation.
type Simulation struct {
	ID                  string
	Tenant              string
	ActionType          ActionType
	Payload             ActionPayload
	Status              SimulationStatus
	CanExecute          bool
	Preview             any
	Warnings            []Warning
	Errors              []Issue
	Executed            bool
	ExecutionResultID   string
	ExecutionResultType string
	Variance            *Variance
	CreatedAt           time.Time
	ExpiresAt           time.Time
}

const SimulationTTL = time.Hour

func NewSimulation(id, tenant string, payload ActionPayload, canExecute bool, preview any, warnings []Warning, errs []Issue) (Simulation, error) {
	if id == "" {
		return Simulation{}, fmt.Errorf("%w: simulation id is required", ErrInvalidInput)
	}
	status := SimulationStatusPending
	if len(errs) > 0 {
		status = SimulationStatusFailed
	} else if !canExecute {
		status = SimulationStatusFailed
	} else {
		status = SimulationStatusCompleted
	}
	now := time.Now()
	return Simulation{
		ID:         id,
		Tenant:     tenant,
		ActionType: payload.Kind,
		Payload:    payload,
		Status:     status,
		CanExecute: canExecute,
		Preview:    preview,
		Warnings:   warnings,
		Errors:     errs,
		CreatedAt:  now,
		ExpiresAt:  now.Add(SimulationTTL),
	}, nil
}

func (s Simulation) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// MarkExecuted atomically-in-value transitions the simulation into its
// executed terminal state. Callers holding the store's write lock use this
// to build the replacement value for the conditional UPDATE described by
// the execution gate.
func (s Simulation) MarkExecuted(resultID, resultType string, variance Variance) Simulation {
	s.Executed = true
	s.Status = SimulationStatusExecuted
	s.ExecutionResultID = resultID
	s.ExecutionResultType = resultType
	s.Variance = &variance
	return s
}

func (s Simulation) MarkExecutionFailed() Simulation {
	s.Executed = false
	s.Status = SimulationStatusFailed
	return s
}
