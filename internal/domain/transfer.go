package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransferStatus string

const (
	TransferStatusPending    TransferStatus = "pending"
	TransferStatusProcessing TransferStatus = "processing"
	TransferStatusCompleted  TransferStatus = "completed"
	TransferStatusFailed     TransferStatus = "failed"
	TransferStatusCancelled  TransferStatus = "cancelled"
)

func (s TransferStatus) IsTerminal() bool {
	switch s {
	case TransferStatusCompleted, TransferStatusFailed, TransferStatusCancelled:
		return true
	}
	return false
}

type Rail string

const (
	RailInternal Rail = "internal"
	RailPix      Rail = "pix"
	RailSpei     Rail = "spei"
	RailCvu      Rail = "cvu"
	RailPse      Rail = "pse"
	RailWire     Rail = "wire"
)

// EstimatedDuration returns the expected settlement time for the rail, used
// for preview.timing.estimated_duration_seconds in the simulation engine.
func (r Rail) EstimatedDuration() time.Duration {
	switch r {
	case RailInternal:
		return 5 * time.Second
	case RailPix:
		return 120 * time.Second
	case RailSpei:
		return 180 * time.Second
	case RailCvu:
		return 300 * time.Second
	case RailPse:
		return 600 * time.Second
	default:
		return 86400 * time.Second
	}
}

// FeeBreakdown captures every fee component, all expressed in source currency.
type FeeBreakdown struct {
	Platform    decimal.Decimal
	CrossBorder decimal.Decimal
	Corridor    decimal.Decimal
	Total       decimal.Decimal
	Currency    string
}

// Transfer is an atomic outbound ledger movement. Once in a terminal status,
// Amount and the account linkage are immutable — callers must never mutate
// those fields after FromAccount/ToAccount/Amount/Currency have been set and
// Status has transitioned to a terminal value.
type Transfer struct {
	ID                  string
	FromAccount         string
	ToAccount           string
	Amount              Money
	DestinationCurrency string
	Status              TransferStatus
	Rail                Rail
	Fees                FeeBreakdown
	FXRate              *decimal.Decimal
	CreatedAt           time.Time
	CompletedAt         *time.Time
	FailureCode         string
}

func NewTransfer(id, fromAccount, toAccount string, amount Money, destinationCurrency string, rail Rail, fees FeeBreakdown) (Transfer, error) {
	if id == "" {
		return Transfer{}, fmt.Errorf("%w: transfer id is required", ErrInvalidInput)
	}
	if fromAccount == "" || toAccount == "" {
		return Transfer{}, fmt.Errorf("%w: from_account and to_account are required", ErrInvalidInput)
	}
	if fromAccount == toAccount {
		return Transfer{}, ErrSameAccountTransfer
	}
	return Transfer{
		ID:                  id,
		FromAccount:         fromAccount,
		ToAccount:           toAccount,
		Amount:              amount,
		DestinationCurrency: destinationCurrency,
		Status:              TransferStatusPending,
		Rail:                rail,
		Fees:                fees,
		CreatedAt:           time.Now(),
	}, nil
}

func (t *Transfer) Complete(at time.Time) {
	t.Status = TransferStatusCompleted
	t.CompletedAt = &at
}

func (t *Transfer) Fail(code string) {
	t.Status = TransferStatusFailed
	t.FailureCode = code
}

// Cancel transitions a pending transfer to cancelled. Only pending transfers
// are cancelable; anything else returns ErrTransferNotCancelable.
func (t *Transfer) Cancel() error {
	if t.Status != TransferStatusPending {
		return ErrTransferNotCancelable
	}
	t.Status = TransferStatusCancelled
	return nil
}
