package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypePerson   AccountType = "person"
	AccountTypeBusiness AccountType = "business"
)

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusClosed    AccountStatus = "closed"
)

// VerificationTier gates per-transaction, daily, and monthly transfer caps.
// Tier 3 and above share the same cap table (tier "3+" in the cap schedule).
type VerificationTier int

const (
	TierZero VerificationTier = 0
	TierOne  VerificationTier = 1
	TierTwo  VerificationTier = 2
	TierThree VerificationTier = 3
)

// Balance tracks the four buckets of a single currency ledger inside an
// Account. Invariant: Available ≥ 0 and Available+Holds ≤ Total at all times;
// callers mutate it only through Account methods that preserve the invariant.
type Balance struct {
	Available  decimal.Decimal
	PendingIn  decimal.Decimal
	PendingOut decimal.Decimal
	Holds      decimal.Decimal
}

func (b Balance) Total() decimal.Decimal {
	return b.Available.Add(b.PendingIn).Sub(b.PendingOut).Add(b.Holds)
}

// Account is a partner-owned ledger bucket, one Balance per currency.
type Account struct {
	ID               string
	Tenant           string
	Type             AccountType
	Status           AccountStatus
	VerificationTier VerificationTier
	Balances         map[string]Balance
	CreatedAt        time.Time
}

func NewAccount(id, tenant string, accType AccountType, tier VerificationTier) (Account, error) {
	if id == "" {
		return Account{}, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	if accType != AccountTypePerson && accType != AccountTypeBusiness {
		return Account{}, fmt.Errorf("%w: unknown account type %q", ErrInvalidInput, accType)
	}
	return Account{
		ID:               id,
		Tenant:           tenant,
		Type:             accType,
		Status:           AccountStatusActive,
		VerificationTier: tier,
		Balances:         make(map[string]Balance),
		CreatedAt:        time.Now(),
	}, nil
}

func (a Account) BalanceOf(currency string) Balance {
	return a.Balances[currency]
}

func (a Account) IsUsable() error {
	switch a.Status {
	case AccountStatusSuspended:
		return ErrAccountSuspended
	case AccountStatusClosed:
		return ErrAccountClosed
	}
	return nil
}

// Debit reduces Available by amount, rejecting the change if it would drive
// Available negative. Returns the post-debit Balance without mutating a.
func (a Account) Debit(currency string, amount decimal.Decimal) (Balance, error) {
	bal := a.Balances[currency]
	if bal.Available.LessThan(amount) {
		return Balance{}, ErrInsufficientBalance
	}
	bal.Available = bal.Available.Sub(amount)
	return bal, nil
}

func (a Account) Credit(currency string, amount decimal.Decimal) Balance {
	bal := a.Balances[currency]
	bal.Available = bal.Available.Add(amount)
	return bal
}

// CapSchedule is the per-tier per-transaction/day/month ceiling in USD terms.
type CapSchedule struct {
	PerTransaction decimal.Decimal
	Daily          decimal.Decimal
	Monthly        decimal.Decimal
}

func CapsFor(tier VerificationTier) CapSchedule {
	switch {
	case tier <= TierZero:
		return CapSchedule{PerTransaction: decimal.NewFromInt(500), Daily: decimal.NewFromInt(1000), Monthly: decimal.NewFromInt(5000)}
	case tier == TierOne:
		return CapSchedule{PerTransaction: decimal.NewFromInt(5000), Daily: decimal.NewFromInt(10000), Monthly: decimal.NewFromInt(50000)}
	case tier == TierTwo:
		return CapSchedule{PerTransaction: decimal.NewFromInt(25000), Daily: decimal.NewFromInt(50000), Monthly: decimal.NewFromInt(250000)}
	default:
		return CapSchedule{PerTransaction: decimal.NewFromInt(100000), Daily: decimal.NewFromInt(100000), Monthly: decimal.NewFromInt(1000000)}
	}
}
