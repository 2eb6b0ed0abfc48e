package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type AgentStatus string

const (
	AgentStatusActive    AgentStatus = "active"
	AgentStatusSuspended AgentStatus = "suspended"
)

type KYATier int

// SpendingPolicy bounds an Agent's autonomous spend.
type SpendingPolicy struct {
	DailyCap          decimal.Decimal
	MonthlyCap        decimal.Decimal
	PerTransactionCap decimal.Decimal
	Allowlist         []string
	ApprovalThreshold decimal.Decimal
}

// Agent is a spending actor owned by a business Account.
type Agent struct {
	ID                   string
	ParentAccountID      string
	Status               AgentStatus
	KYATier              KYATier
	Policy               SpendingPolicy
	ActiveManagedStreams int
	CreatedAt            time.Time
}

func NewAgent(id, parentAccountID string, parentType AccountType, policy SpendingPolicy) (Agent, error) {
	if id == "" {
		return Agent{}, fmt.Errorf("%w: agent id is required", ErrInvalidInput)
	}
	if parentType != AccountTypeBusiness {
		return Agent{}, ErrAgentParentNotBusiness
	}
	return Agent{
		ID:              id,
		ParentAccountID: parentAccountID,
		Status:          AgentStatusActive,
		Policy:          policy,
		CreatedAt:       time.Now(),
	}, nil
}

func (a Agent) Suspend() (Agent, error) {
	if a.Status == AgentStatusSuspended {
		return Agent{}, ErrAgentAlreadyInState
	}
	a.Status = AgentStatusSuspended
	return a, nil
}

func (a Agent) Activate() (Agent, error) {
	if a.Status == AgentStatusActive {
		return Agent{}, ErrAgentAlreadyInState
	}
	a.Status = AgentStatusActive
	return a, nil
}

func (a Agent) Delete() error {
	if a.ActiveManagedStreams > 0 {
		return ErrAgentHasActiveStreams
	}
	return nil
}
