// Package batch implements the batch processor described alongside the
// simulation engine: a sequence of transfer requests is walked in order
// under a single cumulative-balance view, so item N's balance check sees
// the effect of every item before it that would succeed. It reuses the
// simulation engine's fee table and rail selection rather than re-deriving
// them, tracking a per-currency balance map rather than a single running
// total.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/haxaco/payos-sub010/internal/apperrors"
	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/fx"
	"github.com/haxaco/payos-sub010/internal/metrics"
	"github.com/haxaco/payos-sub010/internal/simulate"
	"github.com/haxaco/payos-sub010/internal/store"
)

const batchStoppedDetail = "skipped: a prior item failed and stop_on_first_error is set"

// Processor runs the batch algorithm against a Store. Batches are processed
// strictly sequentially — item ordering determines the balance view each
// item sees — but independent Process calls may run concurrently.
type Processor struct {
	store *store.Store
	fx    fx.Provider
	newID func() string
}

func New(s *store.Store, fxProvider fx.Provider) *Processor {
	return &Processor{store: s, fx: fxProvider, newID: uuid.NewString}
}

// accountIDs returns the deduplicated set of accounts a batch touches, for
// the single pre-fetch the algorithm performs before the sequential walk.
func accountIDs(items []domain.TransferRequest) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, it := range items {
		for _, id := range []string{it.FromAccount, it.ToAccount} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Process runs every item through the transfer-simulation shape against a
// shared in-memory balance view seeded from a single account pre-fetch, then
// persists the resulting Batch.
func (p *Processor) Process(ctx context.Context, tenant string, items []domain.TransferRequest, stopOnFirstError bool) (domain.Batch, error) {
	timer := prometheus.NewTimer(metrics.BatchDuration.WithLabelValues(tenant))
	defer timer.ObserveDuration()

	accounts := p.store.GetAccounts(accountIDs(items))
	balances := make(map[string]map[string]decimal.Decimal) // accountID -> currency -> available

	for id, acc := range accounts {
		balances[id] = make(map[string]decimal.Decimal)
		for currency, bal := range acc.Balances {
			balances[id][currency] = bal.Available
		}
	}

	batchItems := make([]domain.BatchItem, 0, len(items))
	stopped := false

	for i, req := range items {
		if stopped {
			batchItems = append(batchItems, domain.BatchItem{
				Index:      i,
				Request:    req,
				CanExecute: false,
				Errors: []domain.Issue{{
					Code:    string(apperrors.KindBatchStopped),
					Message: batchStoppedDetail,
				}},
			})
			continue
		}

		item := p.simulateItem(i, req, accounts, balances)
		batchItems = append(batchItems, item)
		if !item.CanExecute && stopOnFirstError {
			stopped = true
		}
	}

	b, err := domain.NewBatch(p.newID(), tenant, batchItems)
	if err != nil {
		return domain.Batch{}, err
	}
	summarize(&b)
	p.store.PutBatch(b)
	return b, nil
}

// simulateItem runs one item's balance/fee/rail check against the memoized
// view and, on success, mutates that view in place so later items see it.
func (p *Processor) simulateItem(index int, req domain.TransferRequest, accounts map[string]domain.Account, balances map[string]map[string]decimal.Decimal) domain.BatchItem {
	var issues []domain.Issue
	var warnings []domain.Warning

	from, fromOK := accounts[req.FromAccount]
	if !fromOK {
		issues = append(issues, domain.Issue{
			Code:    string(apperrors.KindAccountNotFound),
			Message: "source account not found",
			Details: map[string]any{"account_id": req.FromAccount},
		})
	} else if usableErr := from.IsUsable(); usableErr != nil {
		issues = append(issues, domain.Issue{
			Code:    string(apperrors.KindAccountSuspended),
			Message: usableErr.Error(),
			Details: map[string]any{"account_id": req.FromAccount},
		})
	}

	_, toOK := accounts[req.ToAccount]
	if !toOK {
		issues = append(issues, domain.Issue{
			Code:    string(apperrors.KindAccountNotFound),
			Message: "destination account not found",
			Details: map[string]any{"account_id": req.ToAccount},
		})
	}

	destCurrency := req.DestinationCurrency
	if destCurrency == "" {
		destCurrency = req.Amount.Currency
	}

	var fxPreview *domain.FXPreview
	if destCurrency != req.Amount.Currency {
		rate, err := p.fx.Rate(req.Amount.Currency, destCurrency)
		if err != nil {
			issues = append(issues, domain.Issue{
				Code:    string(apperrors.KindFacilitatorUnavailable),
				Message: "no fx rate available for this corridor",
				Details: map[string]any{"from": req.Amount.Currency, "to": destCurrency},
			})
		} else {
			fxPreview = &domain.FXPreview{Rate: rate, Spread: fx.SpreadPercent(destCurrency), RateLocked: false}
		}
	}

	fees := simulate.ComputeFees(req.Amount, destCurrency)
	rail := simulate.SelectRail(req.Amount.Currency, destCurrency)
	if w := simulate.RailMaintenanceWarning(rail, time.Now()); w != nil {
		warnings = append(warnings, *w)
	}

	var sourceSnapshot, destSnapshot domain.AccountSnapshot
	if fromOK {
		available := balances[req.FromAccount][req.Amount.Currency]
		total := req.Amount.Amount.Add(fees.Total)
		if available.LessThan(total) {
			issues = append(issues, domain.Issue{
				Code:    string(apperrors.KindInsufficientBalance),
				Message: "source account balance cannot cover amount plus fees given prior items in this batch",
				Details: map[string]any{"shortfall": req.Amount.Amount.Sub(available).StringFixed(2), "currency": req.Amount.Currency, "account_id": req.FromAccount},
			})
		} else {
			beforeMoney, _ := domain.NewMoney(available, req.Amount.Currency)
			afterAvailable := available.Sub(total)
			afterMoney, _ := domain.NewMoney(afterAvailable, req.Amount.Currency)
			sourceSnapshot = domain.AccountSnapshot{AccountID: req.FromAccount, BalanceBefore: beforeMoney, BalanceAfter: afterMoney}
			balances[req.FromAccount][req.Amount.Currency] = afterAvailable
			if toOK {
				destAvailable := balances[req.ToAccount][destCurrency]
				balances[req.ToAccount][destCurrency] = destAvailable.Add(req.Amount.Amount)
			}
		}
	}
	if toOK {
		destAvailable := balances[req.ToAccount][destCurrency]
		beforeMoney, _ := domain.NewMoney(destAvailable, destCurrency)
		destSnapshot = domain.AccountSnapshot{AccountID: req.ToAccount, BalanceBefore: beforeMoney, BalanceAfter: beforeMoney}
	}

	preview := &domain.TransferPreview{
		Source:      sourceSnapshot,
		Destination: destSnapshot,
		FX:          fxPreview,
		Fees:        fees,
		Timing: domain.TimingPreview{
			Rail:                     rail,
			EstimatedDurationSeconds: int64(rail.EstimatedDuration().Seconds()),
			EstimatedArrival:         time.Now().Add(rail.EstimatedDuration()),
		},
	}

	return domain.BatchItem{
		Index:      index,
		Request:    req,
		CanExecute: len(issues) == 0,
		Preview:    preview,
		Warnings:   warnings,
		Errors:     issues,
	}
}

// summarize fills in the aggregate totals the response shape reports
// alongside the per-item results.
func summarize(b *domain.Batch) {
	currencyIdx := make(map[string]int)
	railIdx := make(map[domain.Rail]int)

	for _, item := range b.Items {
		if item.Preview == nil {
			continue
		}
		currency := item.Request.Amount.Currency
		b.AmountByCurrency[currency] = b.AmountByCurrency[currency].Add(item.Request.Amount.Amount)
		b.FeesByCurrency[currency] = b.FeesByCurrency[currency].Add(item.Preview.Fees.Total)

		if idx, ok := currencyIdx[currency]; ok {
			b.ByCurrency[idx].Count++
			b.ByCurrency[idx].Total = b.ByCurrency[idx].Total.Add(item.Request.Amount.Amount)
		} else {
			currencyIdx[currency] = len(b.ByCurrency)
			b.ByCurrency = append(b.ByCurrency, domain.CurrencyTotal{Currency: currency, Count: 1, Total: item.Request.Amount.Amount})
		}

		rail := item.Preview.Timing.Rail
		if idx, ok := railIdx[rail]; ok {
			b.ByRail[idx].Count++
			b.ByRail[idx].Total = b.ByRail[idx].Total.Add(item.Request.Amount.Amount)
		} else {
			railIdx[rail] = len(b.ByRail)
			b.ByRail = append(b.ByRail, domain.RailTotal{Rail: rail, Count: 1, Total: item.Request.Amount.Amount})
		}
	}
}
