// Package facilitator implements the sandbox x402 facilitator: a
// local, in-process stand-in for the verify/settle/supported contract real
// x402 facilitators expose over HTTP. It borrows the scheme/network
// registry shape from the x402 resource-server reference implementation
// (its SupportedCache / Kinds list), but verify/settle never touch a chain —
// settle mints a synthetic transaction hash and verify never checks
// signatures, matching the sandbox contract.
package facilitator

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/hex"
	"math/rand"
	"time"

	"github.com/sony/gobreaker"

	"github.com/haxaco/payos-sub010/internal/apperrors"
	"github.com/haxaco/payos-sub010/internal/metrics"
)

// Kind is one supported (x402 version, scheme, network) triple, mirroring
// the wire shape of the real facilitator's GET /supported response.
type Kind struct {
	X402Version int    `json:"x402_version"`
	Scheme      string `json:"scheme"`
	Network     string `json:"network"`
}

const (
	SchemeExactEVM     = "exact-evm"
	NetworkBaseMainnet = "base"
	NetworkBaseSepolia = "base-sepolia"
)

// Payment is the minimal shape this sandbox needs from an x402 payment
// payload to validate structure and route by scheme/network.
type Payment struct {
	Scheme  string  `json:"scheme"`
	Network string  `json:"network"`
	Payer   string  `json:"payer"`
	Payee   string  `json:"payee"`
	Amount  string  `json:"amount"`
	Nonce   string  `json:"nonce"`
}

// VerifyResult is the sandbox verify(payment) response.
type VerifyResult struct {
	IsValid      bool   `json:"is_valid"`
	InvalidReason string `json:"invalid_reason,omitempty"`
}

// SettleResult is the sandbox settle(payment) response.
type SettleResult struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transaction_hash,omitempty"`
	Network         string `json:"network"`
}

// Config tunes the sandbox's synthetic latency/failure injection, exposed
// for scenario and load testing.
type Config struct {
	SettlementDelay time.Duration
	FailureRate     float64 // 0..1, fraction of settle() calls that fail
}

// Facilitator is the in-process x402 facilitator. Settle calls run through a
// circuit breaker: each sandbox-injected failure is returned as
// X402_SETTLEMENT_FAILED, and after five consecutive failures the breaker
// opens and calls fail fast with CIRCUIT_OPEN. An untyped error from the
// breaker surfaces as FACILITATOR_UNAVAILABLE.
type Facilitator struct {
	cfg     Config
	kinds   []Kind
	breaker *gobreaker.CircuitBreaker
	rand    func() float64
}

func New(cfg Config) *Facilitator {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "x402-facilitator-settle",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Facilitator{
		cfg: cfg,
		kinds: []Kind{
			{X402Version: 1, Scheme: SchemeExactEVM, Network: NetworkBaseMainnet},
			{X402Version: 1, Scheme: SchemeExactEVM, Network: NetworkBaseSepolia},
		},
		breaker: breaker,
		rand:    rand.Float64,
	}
}

// Supported lists the accepted scheme/network combinations.
func (f *Facilitator) Supported() []Kind {
	return f.kinds
}

func (f *Facilitator) supports(scheme, network string) bool {
	for _, k := range f.kinds {
		if k.Scheme == scheme && k.Network == network {
			return true
		}
	}
	return false
}

// Verify validates payment structure and scheme/network support. It
// deliberately never checks signatures — that is the sandbox's defining
// simplification.
func (f *Facilitator) Verify(ctx context.Context, p Payment) (result VerifyResult, err error) {
	defer func(start time.Time) {
		metrics.FacilitatorLatency.WithLabelValues("verify", outcomeLabel(err)).Observe(time.Since(start).Seconds())
	}(time.Now())

	if p.Scheme == "" || p.Network == "" || p.Payer == "" || p.Payee == "" || p.Amount == "" {
		return VerifyResult{}, apperrors.New(apperrors.KindX402VerificationFailed, "payment is missing required fields", map[string]any{"reason": "incomplete payload"})
	}
	if !schemeKnown(p.Scheme) {
		return VerifyResult{}, apperrors.New(apperrors.KindX402UnsupportedScheme, "unsupported payment scheme", map[string]any{"scheme": p.Scheme})
	}
	if !f.supports(p.Scheme, p.Network) {
		return VerifyResult{}, apperrors.New(apperrors.KindX402UnsupportedNetwork, "unsupported network for this scheme", map[string]any{"scheme": p.Scheme, "network": p.Network})
	}
	return VerifyResult{IsValid: true}, nil
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Settle generates a synthetic transaction hash for a verified payment,
// applying the configured settlement delay and injected failure rate. It
// runs through a circuit breaker so a sustained failure injection trips
// CIRCUIT_OPEN rather than exhausting every caller's own retry budget.
func (f *Facilitator) Settle(ctx context.Context, p Payment) (settleResult SettleResult, err error) {
	defer func(start time.Time) {
		metrics.FacilitatorLatency.WithLabelValues("settle", outcomeLabel(err)).Observe(time.Since(start).Seconds())
	}(time.Now())

	if _, verr := f.Verify(ctx, p); verr != nil {
		return SettleResult{}, verr
	}

	result, err := f.breaker.Execute(func() (interface{}, error) {
		if f.cfg.SettlementDelay > 0 {
			select {
			case <-time.After(f.cfg.SettlementDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if f.cfg.FailureRate > 0 && f.rand() < f.cfg.FailureRate {
			return nil, apperrors.New(apperrors.KindX402SettlementFailed, "sandbox-injected settlement failure", map[string]any{"reason": "random_failure_injection"})
		}
		hash, hashErr := syntheticTxHash()
		if hashErr != nil {
			return nil, hashErr
		}
		return SettleResult{Success: true, TransactionHash: hash, Network: p.Network}, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return SettleResult{}, ctx.Err()
		}
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return SettleResult{}, apperrors.New(apperrors.KindCircuitOpen, "facilitator circuit is open after repeated settlement failures", map[string]any{"breaker": "x402-facilitator-settle"})
		}
		if apperrors.KindOf(err) != apperrors.KindInternalError {
			return SettleResult{}, err
		}
		return SettleResult{}, apperrors.New(apperrors.KindFacilitatorUnavailable, "facilitator settlement failed", map[string]any{"facilitator": "sandbox"})
	}
	return result.(SettleResult), nil
}

func schemeKnown(scheme string) bool {
	return scheme == SchemeExactEVM
}

// syntheticTxHash returns a 32-byte hex string prefixed like a real EVM
// transaction hash, though it settles nothing on any chain.
func syntheticTxHash() (string, error) {
	buf := make([]byte, 32)
	if _, err := cryptorand.Read(buf); err != nil {
		return "", apperrors.New(apperrors.KindInternalError, "failed to generate synthetic transaction hash", nil)
	}
	return "0x" + hex.EncodeToString(buf), nil
}
