package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type MandateType string

const (
	MandateTypeIntent  MandateType = "intent"
	MandateTypeCart    MandateType = "cart"
	MandateTypePayment MandateType = "payment"
)

type MandateStatus string

const (
	MandateStatusActive    MandateStatus = "active"
	MandateStatusCompleted MandateStatus = "completed"
	MandateStatusCancelled MandateStatus = "cancelled"
	MandateStatusExpired   MandateStatus = "expired"
)

func (s MandateStatus) IsTerminal() bool {
	switch s {
	case MandateStatusCompleted, MandateStatusCancelled, MandateStatusExpired:
		return true
	}
	return false
}

// MandateExecution records one partial payment against a Mandate's envelope.
// ExecutionIndex is monotonic per mandate.
type MandateExecution struct {
	ExecutionIndex int
	TransferID     string
	Amount         Money
	Timestamp      time.Time
	Status         TransferStatus
}

// Mandate is a pre-authorized agent spending envelope under AP2.
// Invariant: UsedAmount + RemainingAmount == AuthorizedAmount at all times.
type Mandate struct {
	ID               string
	MandateType      MandateType
	AgentID          string
	AccountID        string
	AuthorizedAmount Money
	UsedAmount       Money
	RemainingAmount  Money
	ExecutionCount   int
	Status           MandateStatus
	Executions       []MandateExecution
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

func NewMandate(id string, mandateType MandateType, agentID, accountID string, authorized Money, expiresAt time.Time) (Mandate, error) {
	if id == "" {
		return Mandate{}, fmt.Errorf("%w: mandate id is required", ErrInvalidInput)
	}
	if agentID == "" || accountID == "" {
		return Mandate{}, fmt.Errorf("%w: agent_id and account_id are required", ErrInvalidInput)
	}
	used := Zero(authorized.Currency)
	return Mandate{
		ID:               id,
		MandateType:      mandateType,
		AgentID:          agentID,
		AccountID:        accountID,
		AuthorizedAmount: authorized,
		UsedAmount:       used,
		RemainingAmount:  authorized,
		Status:           MandateStatusActive,
		CreatedAt:        time.Now(),
		ExpiresAt:        expiresAt,
	}, nil
}

// RefreshExpiry lazily transitions an active mandate to expired when read
// after its expiry timestamp — mirroring the ACP checkout's lazy-expiry rule.
func (m Mandate) RefreshExpiry(now time.Time) Mandate {
	if m.Status == MandateStatusActive && now.After(m.ExpiresAt) {
		m.Status = MandateStatusExpired
	}
	return m
}

// Execute applies one partial payment against the mandate's remaining
// envelope, returning the updated Mandate (value semantics — callers persist
// the returned copy under a conditional write keyed on the prior Status and
// RemainingAmount, per the store's atomic-update contract).
func (m Mandate) Execute(transferID string, amount Money, at time.Time) (Mandate, MandateExecution, error) {
	if m.Status != MandateStatusActive {
		return Mandate{}, MandateExecution{}, ErrMandateNotActive
	}
	exceeds, err := amount.GreaterThan(m.RemainingAmount)
	if err != nil {
		return Mandate{}, MandateExecution{}, err
	}
	if exceeds {
		return Mandate{}, MandateExecution{}, ErrMandateExceeded
	}
	used, err := m.UsedAmount.Add(amount)
	if err != nil {
		return Mandate{}, MandateExecution{}, err
	}
	remaining, err := m.RemainingAmount.Sub(amount)
	if err != nil {
		return Mandate{}, MandateExecution{}, err
	}
	m.UsedAmount = used
	m.RemainingAmount = remaining
	m.ExecutionCount++
	if remaining.Amount.Equal(decimal.Zero) {
		m.Status = MandateStatusCompleted
	}
	exec := MandateExecution{
		ExecutionIndex: m.ExecutionCount,
		TransferID:     transferID,
		Amount:         amount,
		Timestamp:      at,
		Status:         TransferStatusCompleted,
	}
	m.Executions = append(m.Executions, exec)
	return m, exec, nil
}

func (m Mandate) Cancel() (Mandate, error) {
	if m.Status.IsTerminal() {
		return Mandate{}, fmt.Errorf("%w: mandate already %s", ErrMandateNotActive, m.Status)
	}
	m.Status = MandateStatusCancelled
	return m, nil
}
