// Package execution implements the execution gate that turns a Simulation
// into a real Transfer or Refund, through a two-phase compare-and-swap:
// TryExecuteSimulation claims the single writer slot, FinishExecution
// attaches the outcome.
package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haxaco/payos-sub010/internal/apperrors"
	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/metrics"
	"github.com/haxaco/payos-sub010/internal/simulate"
	"github.com/haxaco/payos-sub010/internal/store"
)

const (
	fxVarianceThresholdPct  = "2"    // percent drift on the fx rate
	feeVarianceFloorUSD     = "5"    // absolute fee drift floor
	feeVarianceThresholdPct = "0.10" // fractional fee drift
	mediumFXThresholdPct    = "0.5"
	mediumFeeThresholdUSD   = "1"
)

// Result is the execution gate's response body.
type Result struct {
	SimulationID    string           `json:"simulation_id"`
	Status          string           `json:"status"`
	ExecutionResult ExecutionOutcome `json:"execution_result"`
	Variance        *domain.Variance `json:"variance,omitempty"`
	ResourceURL     string           `json:"resource_url"`
	AlreadyExecuted bool             `json:"-"`
}

type ExecutionOutcome struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Gate executes simulations against a Store, re-simulating at execution
// time to detect drift from the frozen preview.
type Gate struct {
	store  *store.Store
	engine *simulate.Engine
	newID  func() string
}

func New(s *store.Store, engine *simulate.Engine) *Gate {
	return &Gate{store: s, engine: engine, newID: uuid.NewString}
}

// Execute runs the full execution-gate algorithm for simulationID: pre-flight
// checks, re-simulation variance check, atomic claim, and materialization.
func (g *Gate) Execute(ctx context.Context, tenant, simulationID string) (Result, error) {
	sim, err := g.store.GetSimulation(simulationID)
	if err != nil {
		return Result{}, apperrors.New(apperrors.KindSimulationNotFound, "simulation not found", map[string]any{"simulation_id": simulationID})
	}
	if sim.Tenant != tenant {
		return Result{}, apperrors.New(apperrors.KindSimulationNotFound, "simulation not found", map[string]any{"simulation_id": simulationID})
	}
	if sim.IsExpired(time.Now()) {
		return Result{}, apperrors.New(apperrors.KindSimulationExpired, "simulation has expired", map[string]any{"expired_at": sim.ExpiresAt})
	}
	if !sim.CanExecute {
		return Result{}, apperrors.New(apperrors.KindSimulationCannotExecute, "simulation cannot be executed", map[string]any{"errors": sim.Errors})
	}

	variance, varianceErr := g.checkVariance(ctx, tenant, sim)
	if varianceErr != nil {
		return Result{}, varianceErr
	}

	claimed, won, err := g.store.TryExecuteSimulation(ctx, simulationID)
	if err != nil {
		return Result{}, apperrors.New(apperrors.KindSimulationNotFound, "simulation not found", map[string]any{"simulation_id": simulationID})
	}
	if !won {
		metrics.ExecutionContention.WithLabelValues(tenant).Inc()
		// claimed is the winner's committed result: TryExecuteSimulation blocks
		// every loser until FinishExecution has populated the result fields, so
		// ExecutionResult.ID is never the empty in-flight placeholder.
		return Result{
			SimulationID: simulationID,
			Status:       string(claimed.Status),
			ExecutionResult: ExecutionOutcome{
				Type:   claimed.ExecutionResultType,
				ID:     claimed.ExecutionResultID,
				Status: "already executed",
			},
			Variance:        claimed.Variance,
			ResourceURL:     resourceURL(claimed.ExecutionResultType, claimed.ExecutionResultID),
			AlreadyExecuted: true,
		}, nil
	}

	resultType, resultID, materializeErr := g.materialize(sim)
	if materializeErr != nil {
		g.store.FinishExecution(claimed.MarkExecutionFailed())
		return Result{}, materializeErr
	}

	updated := claimed.MarkExecuted(resultID, resultType, variance)
	g.store.FinishExecution(updated)

	return Result{
		SimulationID: simulationID,
		Status:       string(updated.Status),
		ExecutionResult: ExecutionOutcome{
			Type:   resultType,
			ID:     resultID,
			Status: "completed",
		},
		Variance:    &variance,
		ResourceURL: resourceURL(resultType, resultID),
	}, nil
}

// materialize creates the real resource (Transfer for a transfer action,
// Refund for a refund action) from the simulation's frozen payload.
func (g *Gate) materialize(sim domain.Simulation) (resultType, resultID string, err error) {
	switch sim.ActionType {
	case domain.ActionTypeTransfer:
		return g.materializeTransfer(sim)
	case domain.ActionTypeRefund:
		return g.materializeRefund(sim)
	default:
		return "", "", apperrors.New(apperrors.KindInvalidActionType, "execution is not implemented for this action type", map[string]any{"action_type": string(sim.ActionType)})
	}
}

func (g *Gate) materializeTransfer(sim domain.Simulation) (string, string, error) {
	req := sim.Payload.Transfer
	preview, _ := sim.Preview.(domain.TransferPreview)

	from, err := g.store.GetAccount(req.FromAccount)
	if err != nil {
		return "", "", apperrors.New(apperrors.KindAccountNotFound, "source account not found", map[string]any{"account_id": req.FromAccount})
	}
	to, err := g.store.GetAccount(req.ToAccount)
	if err != nil {
		return "", "", apperrors.New(apperrors.KindAccountNotFound, "destination account not found", map[string]any{"account_id": req.ToAccount})
	}

	destCurrency := req.DestinationCurrency
	if destCurrency == "" {
		destCurrency = req.Amount.Currency
	}

	priorFromBalance := from.BalanceOf(req.Amount.Currency)
	total := req.Amount.Amount.Add(preview.Fees.Total)
	nextFromBalance, debitErr := from.Debit(req.Amount.Currency, total)
	if debitErr != nil {
		return "", "", apperrors.New(apperrors.KindInsufficientBalance, "source balance moved since the simulation was created", map[string]any{"account_id": req.FromAccount})
	}
	if err := g.store.UpdateAccountBalance(req.FromAccount, req.Amount.Currency, priorFromBalance, nextFromBalance); err != nil {
		return "", "", apperrors.New(apperrors.KindInsufficientBalance, "concurrent modification of the source balance", map[string]any{"account_id": req.FromAccount})
	}

	priorToBalance := to.BalanceOf(destCurrency)
	nextToBalance := to.Credit(destCurrency, req.Amount.Amount)
	if err := g.store.UpdateAccountBalance(req.ToAccount, destCurrency, priorToBalance, nextToBalance); err != nil {
		// Roll back the debit since the credit leg failed.
		g.store.UpdateAccountBalance(req.FromAccount, req.Amount.Currency, nextFromBalance, priorFromBalance)
		return "", "", apperrors.New(apperrors.KindConcurrentModification, "concurrent modification of the destination balance", map[string]any{"account_id": req.ToAccount})
	}

	tr, err := domain.NewTransfer(g.newID(), req.FromAccount, req.ToAccount, req.Amount, destCurrency, preview.Timing.Rail, preview.Fees)
	if err != nil {
		return "", "", err
	}
	tr.Complete(time.Now())
	g.store.PutTransfer(tr)
	return "transfer", tr.ID, nil
}

func (g *Gate) materializeRefund(sim domain.Simulation) (string, string, error) {
	req := sim.Payload.Refund

	original, err := g.store.GetTransfer(req.OriginalTransferID)
	if err != nil {
		return "", "", apperrors.New(apperrors.KindOriginalTxNotFound, "original transfer not found", map[string]any{"original_transfer_id": req.OriginalTransferID})
	}

	from, err := g.store.GetAccount(original.FromAccount)
	if err != nil {
		return "", "", apperrors.New(apperrors.KindAccountNotFound, "original source account not found", map[string]any{"account_id": original.FromAccount})
	}
	priorBalance := from.BalanceOf(original.Amount.Currency)
	nextBalance := from.Credit(original.Amount.Currency, req.Amount.Amount)
	if err := g.store.UpdateAccountBalance(original.FromAccount, original.Amount.Currency, priorBalance, nextBalance); err != nil {
		return "", "", apperrors.New(apperrors.KindConcurrentModification, "concurrent modification while crediting the refund", map[string]any{"account_id": original.FromAccount})
	}

	refund, err := domain.NewRefund(g.newID(), req.OriginalTransferID, req.Amount, req.Reason)
	if err != nil {
		return "", "", err
	}
	g.store.AddRefund(refund)
	return "refund", refund.ID, nil
}

// checkVariance re-runs the simulation algorithm against the frozen payload
// and compares the fresh preview against the one persisted on the
// simulation. It fails with the FX or fee variance-exceeded kind when drift
// exceeds the thresholds, and with SIMULATION_STALE when the stored preview
// is malformed or the fresh simulation can no longer execute.
func (g *Gate) checkVariance(ctx context.Context, tenant string, sim domain.Simulation) (domain.Variance, error) {
	if sim.ActionType != domain.ActionTypeTransfer {
		return domain.Variance{Level: domain.VarianceLow}, nil
	}
	frozen, ok := sim.Preview.(domain.TransferPreview)
	if !ok {
		return domain.Variance{}, apperrors.New(apperrors.KindSimulationStale, "simulation preview is missing or malformed", nil)
	}

	fresh, err := g.engine.SimulateTransfer(ctx, tenant, *sim.Payload.Transfer)
	if err != nil {
		return domain.Variance{}, err
	}
	if !fresh.CanExecute {
		return domain.Variance{}, apperrors.New(apperrors.KindSimulationStale, "account state changed since the simulation was created", map[string]any{"errors": fresh.Errors})
	}
	freshPreview, _ := fresh.Preview.(domain.TransferPreview)

	var fxChange decimal.Decimal
	if frozen.FX != nil && freshPreview.FX != nil && !frozen.FX.Rate.IsZero() {
		fxChange = freshPreview.FX.Rate.Sub(frozen.FX.Rate).Div(frozen.FX.Rate).Mul(decimal.NewFromInt(100))
		if fxChange.Abs().GreaterThan(decimal.RequireFromString(fxVarianceThresholdPct)) {
			return domain.Variance{}, apperrors.New(apperrors.KindSimulationFXVarianceExceeded, "fx rate moved more than 2% since the simulation was created", map[string]any{"change_pct": fxChange.StringFixed(4)})
		}
	}

	feeChange := freshPreview.Fees.Total.Sub(frozen.Fees.Total)
	feeThreshold := frozen.Fees.Total.Mul(decimal.RequireFromString(feeVarianceThresholdPct))
	floor := decimal.RequireFromString(feeVarianceFloorUSD)
	if feeThreshold.LessThan(floor) {
		feeThreshold = floor
	}
	if feeChange.Abs().GreaterThan(feeThreshold) {
		return domain.Variance{}, apperrors.New(apperrors.KindSimulationFeeVarianceExceeded, "fees moved more than the allowed variance since the simulation was created", map[string]any{"change": feeChange.StringFixed(2)})
	}

	destChange := freshPreview.Destination.BalanceBefore.Amount.Sub(frozen.Destination.BalanceBefore.Amount)
	timingChange := time.Duration(freshPreview.Timing.EstimatedDurationSeconds-frozen.Timing.EstimatedDurationSeconds) * time.Second

	level := domain.VarianceLow
	if fxChange.Abs().GreaterThan(decimal.RequireFromString(mediumFXThresholdPct)) || feeChange.Abs().GreaterThan(decimal.RequireFromString(mediumFeeThresholdUSD)) {
		level = domain.VarianceMedium
	}

	return domain.Variance{
		FXRateChange:            fxChange,
		FeeChange:               feeChange,
		DestinationAmountChange: destChange,
		TimingChange:            timingChange,
		Level:                   level,
	}, nil
}

func resourceURL(resultType, resultID string) string {
	if resultType == "" || resultID == "" {
		return ""
	}
	return fmt.Sprintf("/v1/%ss/%s", resultType, resultID)
}
