// Package domain holds the platform's core entities — the ledger, movement,
// and protocol types every other package composes. Constructors validate
// their own invariants and return sentinel errors.
package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrInvalidCurrency  = errors.New("invalid currency code")
)

// EmergingMarketCurrencies carries the wider FX spread (0.35% vs 0.20%) per
// the transfer-simulation algorithm.
var EmergingMarketCurrencies = map[string]bool{
	"BRL": true, "MXN": true, "ARS": true, "COP": true,
}

// Money is an immutable value object representing a decimal amount in a
// given ISO-4217-ish currency code, using arbitrary-precision
// decimal.Decimal since the platform handles many currencies and
// fractional FX spreads, not just whole-cent amounts.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney constructs a Money, rejecting negative amounts and malformed
// currency codes.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// ParseMoney parses a decimal-string amount (the wire format per the
// external-interfaces contract) alongside its currency.
func ParseMoney(amountStr, currency string) (Money, error) {
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrNegativeAmount, amountStr)
	}
	return NewMoney(amount, currency)
}

// Zero returns a zero-value Money in currency.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

func (m Money) String() string {
	return m.Amount.StringFixed(2)
}

func (m Money) IsZero() bool { return m.Amount.IsZero() }

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

func (m Money) GreaterThan(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return m.Amount.GreaterThan(other.Amount), nil
}

func (m Money) LessThan(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return m.Amount.LessThan(other.Amount), nil
}

// MulPercent returns m multiplied by a percentage (e.g. 0.5 for 0.5%).
func (m Money) MulPercent(pct decimal.Decimal) Money {
	factor := pct.Div(decimal.NewFromInt(100))
	return Money{Amount: m.Amount.Mul(factor).Round(2), Currency: m.Currency}
}

// IsEmergingMarket reports whether currency carries the wider FX spread.
func IsEmergingMarket(currency string) bool {
	return EmergingMarketCurrencies[currency]
}
