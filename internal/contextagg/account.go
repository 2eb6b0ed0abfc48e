package contextagg

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/store"
)

const activityWindow = 30 * 24 * time.Hour

// ActivitySummary rolls up an account's recent transfer history.
type ActivitySummary struct {
	TransferCount30d int                        `json:"transfer_count_30d"`
	SuccessRate      decimal.Decimal            `json:"success_rate"`
	FeeTotals        map[string]decimal.Decimal `json:"fee_totals"`
}

// SpendRemaining is the cumulative-spend-remaining eligibility field: how
// much of the account's tier cap is left for today/this month.
type SpendRemaining struct {
	DailyRemaining   decimal.Decimal `json:"daily_remaining"`
	MonthlyRemaining decimal.Decimal `json:"monthly_remaining"`
}

// AccountContext is the composed /context/account/{id} response body.
type AccountContext struct {
	Account        domain.Account  `json:"account"`
	Activity       ActivitySummary `json:"activity"`
	Risk           Risk            `json:"risk"`
	AgentCount     int             `json:"agent_count"`
	SpendRemaining SpendRemaining  `json:"spend_remaining"`
}

// Aggregator fans reads for the four context endpoints out across the
// underlying store as concurrent errgroup reads, since a production backing
// store would make each of these a separate round trip.
type Aggregator struct {
	store *store.Store
}

func New(s *store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// Account builds the composed account context. Root fetch failure (account
// not found) propagates as-is so the caller surfaces NOT_FOUND normally;
// sub-query failures degrade to a partial response instead.
func (a *Aggregator) Account(ctx context.Context, id string) (AccountContext, bool, error) {
	acc, err := a.store.GetAccount(id)
	if err != nil {
		return AccountContext{}, false, err
	}

	var (
		mu        sync.Mutex
		transfers []domain.Transfer
		agents    []domain.Agent
		partial   bool
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		ts := a.store.TransfersForAccount(id)
		mu.Lock()
		transfers = ts
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		ag := a.store.AgentsForAccount(id)
		mu.Lock()
		agents = ag
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		// The in-memory store never returns an error here today, but a
		// remote-backed store could; a sub-query failure degrades rather
		// than failing the whole context.
		partial = true
	}

	activity := summarizeActivity(transfers)
	risk := deriveAccountRisk(acc, len(agents))
	spend := spendRemaining(acc, transfers)

	return AccountContext{
		Account:        acc,
		Activity:       activity,
		Risk:           risk,
		AgentCount:     len(agents),
		SpendRemaining: spend,
	}, partial, nil
}

func summarizeActivity(transfers []domain.Transfer) ActivitySummary {
	cutoff := time.Now().Add(-activityWindow)
	feeTotals := make(map[string]decimal.Decimal)
	count, succeeded := 0, 0
	for _, tr := range transfers {
		if tr.CreatedAt.Before(cutoff) {
			continue
		}
		count++
		if tr.Status == domain.TransferStatusCompleted {
			succeeded++
		}
		feeTotals[tr.Fees.Currency] = feeTotals[tr.Fees.Currency].Add(tr.Fees.Total)
	}
	rate := decimal.Zero
	if count > 0 {
		rate = decimal.NewFromInt(int64(succeeded)).Div(decimal.NewFromInt(int64(count)))
	}
	return ActivitySummary{TransferCount30d: count, SuccessRate: rate, FeeTotals: feeTotals}
}

func spendRemaining(acc domain.Account, transfers []domain.Transfer) SpendRemaining {
	caps := domain.CapsFor(acc.VerificationTier)
	now := time.Now()
	dayCutoff := now.AddDate(0, 0, -1)
	monthCutoff := now.AddDate(0, -1, 0)

	usedDaily := decimal.Zero
	usedMonthly := decimal.Zero
	for _, tr := range transfers {
		if tr.FromAccount != acc.ID || tr.Status.IsTerminal() && tr.Status != domain.TransferStatusCompleted {
			continue
		}
		if tr.CreatedAt.After(dayCutoff) {
			usedDaily = usedDaily.Add(tr.Amount.Amount)
		}
		if tr.CreatedAt.After(monthCutoff) {
			usedMonthly = usedMonthly.Add(tr.Amount.Amount)
		}
	}
	return SpendRemaining{
		DailyRemaining:   caps.Daily.Sub(usedDaily),
		MonthlyRemaining: caps.Monthly.Sub(usedMonthly),
	}
}
