// Package fx resolves cross-currency conversion rates. The sandbox Provider
// returns fixed, deterministic rates suitable for simulation previews; a
// production deployment would swap in a rail-specific FX quote service
// behind the same interface (mirroring the sandbox-facilitator isolation
// pattern described for the x402 facilitator).
package fx

import (
	"fmt"

	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrRateUnavailable = fmt.Errorf("fx rate unavailable for corridor")

// Provider resolves a spot rate for converting 1 unit of from into to.
type Provider interface {
	Rate(from, to string) (decimal.Decimal, error)
}

// sandboxRates holds fixed illustrative corridor rates, keyed "FROM/TO".
var sandboxRates = map[string]decimal.Decimal{
	"USD/BRL": decimal.RequireFromString("5.40"),
	"USD/MXN": decimal.RequireFromString("18.10"),
	"USD/ARS": decimal.RequireFromString("980.00"),
	"USD/COP": decimal.RequireFromString("4050.00"),
	"BRL/USD": decimal.RequireFromString("0.185"),
	"MXN/USD": decimal.RequireFromString("0.0552"),
	"ARS/USD": decimal.RequireFromString("0.00102"),
	"COP/USD": decimal.RequireFromString("0.000247"),
}

type SandboxProvider struct{}

func NewSandboxProvider() SandboxProvider { return SandboxProvider{} }

func (SandboxProvider) Rate(from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := sandboxRates[from+"/"+to]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s->%s", ErrRateUnavailable, from, to)
	}
	return rate, nil
}

// SpreadPercent returns the spread applied on top of the spot rate: 0.35%
// for emerging-market destination currencies (BRL/MXN/ARS/COP), 0.20% for
// everything else.
func SpreadPercent(destinationCurrency string) decimal.Decimal {
	if domain.IsEmergingMarket(destinationCurrency) {
		return decimal.RequireFromString("0.35")
	}
	return decimal.RequireFromString("0.20")
}
