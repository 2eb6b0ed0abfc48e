// Package simulate implements the projection algorithms behind
// POST /v1/simulate: given a frozen action payload, it resolves accounts,
// computes fees/rail/FX, checks tier limits, and persists an immutable
// Simulation the execution gate can later materialize, following a
// validate-then-persist shape extended from a single transaction type to
// the transfer and refund action kinds (batches go through internal/batch;
// stream requests are rejected at the HTTP layer).
package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haxaco/payos-sub010/internal/apperrors"
	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/fx"
	"github.com/haxaco/payos-sub010/internal/store"
)

const (
	platformFeeRate     = "0.005" // 0.5%
	crossBorderFeeRate  = "0.002" // 0.2%
	brlCorridorFlatFee  = "1.50"
	largeTransferUSD    = "10000"
	lowBalanceThreshold = "100"
	approachingLimitPct = "0.80"
)

// Engine runs the transfer and refund simulation algorithms against a Store.
type Engine struct {
	store *store.Store
	fx    fx.Provider
	newID func() string
}

func New(s *store.Store, fxProvider fx.Provider) *Engine {
	return &Engine{store: s, fx: fxProvider, newID: uuid.NewString}
}

// SimulateTransfer runs the transfer-simulation algorithm and persists the
// resulting Simulation regardless of whether can_execute ends up true.
func (e *Engine) SimulateTransfer(ctx context.Context, tenant string, req domain.TransferRequest) (domain.Simulation, error) {
	var warnings []domain.Warning
	var issues []domain.Issue

	from, fromErr := e.store.GetAccount(req.FromAccount)
	if fromErr != nil {
		issues = append(issues, accountIssue(req.FromAccount, fromErr))
	} else if usableErr := from.IsUsable(); usableErr != nil {
		issues = append(issues, stateIssue(req.FromAccount, usableErr))
	}

	to, toErr := e.store.GetAccount(req.ToAccount)
	if toErr != nil {
		issues = append(issues, accountIssue(req.ToAccount, toErr))
	} else if usableErr := to.IsUsable(); usableErr != nil {
		issues = append(issues, stateIssue(req.ToAccount, usableErr))
	}

	destCurrency := req.DestinationCurrency
	if destCurrency == "" {
		destCurrency = req.Amount.Currency
	}

	var fxPreview *domain.FXPreview
	if destCurrency != req.Amount.Currency {
		rate, err := e.fx.Rate(req.Amount.Currency, destCurrency)
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

	fees := ComputeFees(req.Amount, destCurrency)
	rail := SelectRail(req.Amount.Currency, destCurrency)

	if fromErr == nil {
		checkLimits(e.store, from, req.Amount.Amount, &warnings, &issues)
	}

	var sourceSnapshot, destSnapshot domain.AccountSnapshot
	if fromErr == nil {
		before := from.BalanceOf(req.Amount.Currency)
		total := req.Amount.Amount.Add(fees.Total)
		after, debitErr := from.Debit(req.Amount.Currency, total)
		if debitErr != nil {
			shortfall := req.Amount.Amount.Sub(before.Available)
			issues = append(issues, domain.Issue{
				Code:    string(apperrors.KindInsufficientBalance),
				Message: "source account balance cannot cover amount plus fees",
				Details: map[string]any{"shortfall": shortfall.StringFixed(2), "currency": req.Amount.Currency, "account_id": req.FromAccount},
			})
		} else {
			if after.Available.LessThan(decimal.RequireFromString(lowBalanceThreshold)) {
				warnings = append(warnings, domain.Warning{Code: "LOW_BALANCE_AFTER", Message: "source balance will be low after this transfer"})
			}
			beforeMoney, _ := domain.NewMoney(before.Available, req.Amount.Currency)
			afterMoney, _ := domain.NewMoney(after.Available, req.Amount.Currency)
			sourceSnapshot = domain.AccountSnapshot{AccountID: req.FromAccount, BalanceBefore: beforeMoney, BalanceAfter: afterMoney}
		}
	}
	if toErr == nil {
		before := to.BalanceOf(destCurrency)
		beforeMoney, _ := domain.NewMoney(before.Available, destCurrency)
		destSnapshot = domain.AccountSnapshot{AccountID: req.ToAccount, BalanceBefore: beforeMoney, BalanceAfter: beforeMoney}
	}

	if req.Amount.Amount.GreaterThan(decimal.RequireFromString(largeTransferUSD)) {
		warnings = append(warnings, domain.Warning{Code: "LARGE_TRANSFER", Message: "transfer exceeds $10,000"})
	}
	if maintenanceWarning := RailMaintenanceWarning(rail, time.Now()); maintenanceWarning != nil {
		warnings = append(warnings, *maintenanceWarning)
	}

	preview := domain.TransferPreview{
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

	canExecute := len(issues) == 0
	sim, err := domain.NewSimulation(e.newID(), tenant, domain.TransferPayload(req), canExecute, preview, warnings, issues)
	if err != nil {
		return domain.Simulation{}, err
	}
	e.store.PutSimulation(sim)
	return sim, nil
}

// SimulateRefund runs the refund-simulation algorithm.
func (e *Engine) SimulateRefund(ctx context.Context, tenant string, req domain.RefundRequest) (domain.Simulation, error) {
	var warnings []domain.Warning
	var issues []domain.Issue

	original, err := e.store.GetTransfer(req.OriginalTransferID)
	if err != nil {
		issues = append(issues, domain.Issue{
			Code:    string(apperrors.KindOriginalTxNotFound),
			Message: "original transfer not found",
			Details: map[string]any{"original_transfer_id": req.OriginalTransferID},
		})
		sim, buildErr := domain.NewSimulation(e.newID(), tenant, domain.RefundPayload(req), false, nil, warnings, issues)
		if buildErr != nil {
			return domain.Simulation{}, buildErr
		}
		e.store.PutSimulation(sim)
		return sim, nil
	}

	if original.Status != domain.TransferStatusCompleted && original.Status != domain.TransferStatusProcessing {
		issues = append(issues, domain.Issue{
			Code:    string(apperrors.KindTransferNotRefundable),
			Message: "original transfer is not in a refundable state",
			Details: map[string]any{"status": string(original.Status)},
		})
	}

	var eligibility domain.RefundEligibility
	var remaining domain.Money
	if original.CompletedAt != nil {
		within := domain.WithinWindow(*original.CompletedAt, time.Now())
		if !within {
			issues = append(issues, domain.Issue{
				Code:    string(apperrors.KindRefundWindowExpired),
				Message: "refund window has expired",
				Details: map[string]any{
					"days_since_transfer": int(time.Since(*original.CompletedAt).Hours() / 24),
					"window_days":         30,
				},
			})
		} else if time.Until(original.CompletedAt.Add(domain.RefundWindow)) < 7*24*time.Hour {
			warnings = append(warnings, domain.Warning{Code: "REFUND_WINDOW_EXPIRING_SOON", Message: "refund window closes within 7 days"})
		}
		eligibility = domain.RefundEligibility{CanRefund: within, WindowExpires: original.CompletedAt.Add(domain.RefundWindow)}
	}

	alreadyRefunded := domain.Zero(original.Amount.Currency)
	for _, r := range e.store.RefundsFor(req.OriginalTransferID) {
		alreadyRefunded, _ = alreadyRefunded.Add(r.Amount)
	}
	remaining, _ = domain.RemainingRefundable(original.Amount, alreadyRefunded)
	if req.Amount.Amount.GreaterThan(remaining.Amount) {
		issues = append(issues, domain.Issue{
			Code:    string(apperrors.KindRefundAmountExceedsAvailable),
			Message: "requested refund exceeds remaining refundable amount",
			Details: map[string]any{"requested": req.Amount.Amount.StringFixed(2), "remaining_refundable": remaining.Amount.StringFixed(2)},
		})
	}

	half := original.Amount.Amount.Div(decimal.NewFromInt(2))
	if req.Amount.Amount.GreaterThan(half) {
		warnings = append(warnings, domain.Warning{Code: "LARGE_PARTIAL_REFUND", Message: "refund exceeds 50% of the original transfer"})
	}

	refundType := "full"
	if req.Amount.Amount.LessThan(original.Amount.Amount) {
		refundType = "partial"
	}

	var sourceSnapshot domain.AccountSnapshot
	if dest, destErr := e.store.GetAccount(original.FromAccount); destErr == nil {
		before := dest.BalanceOf(original.Amount.Currency)
		beforeMoney, _ := domain.NewMoney(before.Available, original.Amount.Currency)
		afterBal := dest.Credit(original.Amount.Currency, req.Amount.Amount)
		afterMoney, _ := domain.NewMoney(afterBal.Available, original.Amount.Currency)
		sourceSnapshot = domain.AccountSnapshot{AccountID: original.FromAccount, BalanceBefore: beforeMoney, BalanceAfter: afterMoney}
	} else {
		issues = append(issues, domain.Issue{
			Code:    string(apperrors.KindDestinationInsufficient),
			Message: "original source account could not be found to receive the restore",
			Details: map[string]any{"account_id": original.FromAccount},
		})
	}

	preview := domain.RefundPreview{
		RefundType:  refundType,
		Source:      sourceSnapshot,
		Eligibility: eligibility,
		Timing: domain.TimingPreview{
			Rail:                     domain.RailInternal,
			EstimatedDurationSeconds: int64(domain.RailInternal.EstimatedDuration().Seconds()),
			EstimatedArrival:         time.Now().Add(domain.RailInternal.EstimatedDuration()),
		},
	}

	canExecute := len(issues) == 0
	sim, buildErr := domain.NewSimulation(e.newID(), tenant, domain.RefundPayload(req), canExecute, preview, warnings, issues)
	if buildErr != nil {
		return domain.Simulation{}, buildErr
	}
	e.store.PutSimulation(sim)
	return sim, nil
}

func accountIssue(accountID string, err error) domain.Issue {
	return domain.Issue{
		Code:    string(apperrors.KindAccountNotFound),
		Message: fmt.Sprintf("account %s not found", accountID),
		Details: map[string]any{"account_id": accountID},
	}
}

func stateIssue(accountID string, err error) domain.Issue {
	code := apperrors.KindAccountSuspended
	if err == domain.ErrAccountClosed {
		code = apperrors.KindAccountClosed
	}
	return domain.Issue{
		Code:    string(code),
		Message: err.Error(),
		Details: map[string]any{"account_id": accountID},
	}
}

// ComputeFees implements the platform/cross-border/corridor fee table, all
// expressed in the source currency. Exported so the batch processor can
// apply the same fee table to each item in a batch.
func ComputeFees(amount domain.Money, destCurrency string) domain.FeeBreakdown {
	platform := amount.Amount.Mul(decimal.RequireFromString(platformFeeRate))
	crossBorder := decimal.Zero
	if destCurrency != amount.Currency {
		crossBorder = amount.Amount.Mul(decimal.RequireFromString(crossBorderFeeRate))
	}
	corridor := decimal.Zero
	if destCurrency == "BRL" {
		corridor = decimal.RequireFromString(brlCorridorFlatFee)
	}
	total := platform.Add(crossBorder).Add(corridor)
	return domain.FeeBreakdown{
		Platform:    platform,
		CrossBorder: crossBorder,
		Corridor:    corridor,
		Total:       total,
		Currency:    amount.Currency,
	}
}

// SelectRail implements the destination-currency-to-rail table.
func SelectRail(sourceCurrency, destCurrency string) domain.Rail {
	if destCurrency == sourceCurrency || destCurrency == "USD" || destCurrency == "USDC" {
		return domain.RailInternal
	}
	switch destCurrency {
	case "BRL":
		return domain.RailPix
	case "MXN":
		return domain.RailSpei
	case "ARS":
		return domain.RailCvu
	case "COP":
		return domain.RailPse
	default:
		return domain.RailWire
	}
}

// RailMaintenanceWarning flags SPEI's documented overnight maintenance
// window (22:00-06:00 UTC); other rails have no known maintenance window.
func RailMaintenanceWarning(rail domain.Rail, at time.Time) *domain.Warning {
	if rail != domain.RailSpei {
		return nil
	}
	hour := at.UTC().Hour()
	if hour >= 22 || hour < 6 {
		return &domain.Warning{Code: "RAIL_MAINTENANCE_WINDOW", Message: "spei is in its overnight maintenance window (22:00-06:00 UTC)"}
	}
	return nil
}

// checkLimits applies the tier cap table against the account's trailing
// day/month transfer volume, emitting APPROACHING_*_LIMIT warnings or a
// terminal LIMIT_EXCEEDED issue.
func checkLimits(s *store.Store, from domain.Account, amount decimal.Decimal, warnings *[]domain.Warning, issues *[]domain.Issue) {
	caps := domain.CapsFor(from.VerificationTier)
	if amount.GreaterThan(caps.PerTransaction) {
		*issues = append(*issues, domain.Issue{
			Code:    string(apperrors.KindPerTransactionLimitExceed),
			Message: "amount exceeds the per-transaction cap for this verification tier",
			Details: map[string]any{"cap": caps.PerTransaction.StringFixed(2), "requested": amount.StringFixed(2)},
		})
		return
	}

	now := time.Now()
	dayCutoff := now.AddDate(0, 0, -1)
	monthCutoff := now.AddDate(0, -1, 0)
	usedDaily, usedMonthly := decimal.Zero, decimal.Zero
	for _, tr := range s.TransfersForAccount(from.ID) {
		if tr.FromAccount != from.ID || tr.Status == domain.TransferStatusFailed || tr.Status == domain.TransferStatusCancelled {
			continue
		}
		if tr.CreatedAt.After(dayCutoff) {
			usedDaily = usedDaily.Add(tr.Amount.Amount)
		}
		if tr.CreatedAt.After(monthCutoff) {
			usedMonthly = usedMonthly.Add(tr.Amount.Amount)
		}
	}

	if usedDaily.Add(amount).GreaterThan(caps.Daily) {
		*issues = append(*issues, domain.Issue{
			Code:    string(apperrors.KindDailyLimitExceeded),
			Message: "amount would exceed the daily transfer cap",
			Details: map[string]any{"cap": caps.Daily.StringFixed(2), "used": usedDaily.StringFixed(2)},
		})
	} else if usedDaily.Add(amount).GreaterThan(caps.Daily.Mul(decimal.RequireFromString(approachingLimitPct))) {
		*warnings = append(*warnings, domain.Warning{Code: "APPROACHING_DAILY_LIMIT", Message: "this transfer uses over 80% of the daily cap"})
	}

	if usedMonthly.Add(amount).GreaterThan(caps.Monthly) {
		*issues = append(*issues, domain.Issue{
			Code:    string(apperrors.KindMonthlyLimitExceeded),
			Message: "amount would exceed the monthly transfer cap",
			Details: map[string]any{"cap": caps.Monthly.StringFixed(2), "used": usedMonthly.StringFixed(2)},
		})
	} else if usedMonthly.Add(amount).GreaterThan(caps.Monthly.Mul(decimal.RequireFromString(approachingLimitPct))) {
		*warnings = append(*warnings, domain.Warning{Code: "APPROACHING_MONTHLY_LIMIT", Message: "this transfer uses over 80% of the monthly cap"})
	}
}
