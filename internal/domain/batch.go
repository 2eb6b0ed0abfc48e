package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	BatchMinItems = 1
	BatchMaxItems = 1000
)

// BatchItem is one sequential slot in a Batch — the simulated result (or the
// BATCH_STOPPED placeholder) for a single TransferRequest.
type BatchItem struct {
	Index      int
	Request    TransferRequest
	CanExecute bool
	Preview    *TransferPreview
	Warnings   []Warning
	Errors     []Issue
}

type CurrencyTotal struct {
	Currency string
	Count    int
	Total    decimal.Decimal
}

type RailTotal struct {
	Rail  Rail
	Count int
	Total decimal.Decimal
}

// Batch is an ordered set of 1..1000 sub-simulations processed under a
// shared cumulative-balance view; item i's balance check reflects items
// 0..i-1 that would succeed.
type Batch struct {
	ID               string
	Tenant           string
	Items            []BatchItem
	TotalCount       int
	Successful       int
	Failed           int
	CanExecuteAll    bool
	AmountByCurrency map[string]decimal.Decimal
	FeesByCurrency   map[string]decimal.Decimal
	ByCurrency       []CurrencyTotal
	ByRail           []RailTotal
}

func ValidateBatchSize(n int) error {
	if n < BatchMinItems || n > BatchMaxItems {
		return fmt.Errorf("%w: got %d items", ErrBatchSizeOutOfRange, n)
	}
	return nil
}

func NewBatch(id, tenant string, items []BatchItem) (Batch, error) {
	if err := ValidateBatchSize(len(items)); err != nil {
		return Batch{}, err
	}
	b := Batch{
		ID:               id,
		Tenant:           tenant,
		Items:            items,
		TotalCount:       len(items),
		AmountByCurrency: make(map[string]decimal.Decimal),
		FeesByCurrency:   make(map[string]decimal.Decimal),
	}
	for _, item := range items {
		if item.CanExecute {
			b.Successful++
		} else {
			b.Failed++
		}
	}
	b.CanExecuteAll = b.Failed == 0
	return b, nil
}
