package contextagg

import (
	"context"

	"github.com/haxaco/payos-sub010/internal/domain"
)

// BatchContext is the composed /context/batch/{id} response body.
type BatchContext struct {
	Batch            domain.Batch `json:"batch"`
	AnyFailed        bool         `json:"any_failed"`
	AnyPending       bool         `json:"any_pending"`
	AvailableActions []string     `json:"available_actions"`
}

func (a *Aggregator) Batch(ctx context.Context, id string) (BatchContext, bool, error) {
	b, err := a.store.GetBatch(id)
	if err != nil {
		return BatchContext{}, false, err
	}

	anyFailed := b.Failed > 0
	anyPending := b.Successful+b.Failed < b.TotalCount

	return BatchContext{
		Batch:            b,
		AnyFailed:        anyFailed,
		AnyPending:       anyPending,
		AvailableActions: availableActionsForBatch(anyFailed, anyPending),
	}, false, nil
}
