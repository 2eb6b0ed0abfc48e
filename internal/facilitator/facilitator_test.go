package facilitator

import (
	"context"
	"testing"

	"github.com/haxaco/payos-sub010/internal/apperrors"
)

func validPayment() Payment {
	return Payment{
		Scheme:  SchemeExactEVM,
		Network: NetworkBaseSepolia,
		Payer:   "0xpayer",
		Payee:   "0xpayee",
		Amount:  "10.00",
		Nonce:   "n1",
	}
}

func TestVerifyAcceptsSupportedSchemeAndNetwork(t *testing.T) {
	f := New(Config{})
	result, err := f.Verify(context.Background(), validPayment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsValid {
		t.Error("expected verification to succeed")
	}
}

func TestVerifyRejectsUnsupportedScheme(t *testing.T) {
	f := New(Config{})
	p := validPayment()
	p.Scheme = "unknown-scheme"
	_, err := f.Verify(context.Background(), p)
	if apperrors.KindOf(err) != apperrors.KindX402UnsupportedScheme {
		t.Fatalf("expected X402_UNSUPPORTED_SCHEME, got %v", err)
	}
}

func TestVerifyRejectsUnsupportedNetwork(t *testing.T) {
	f := New(Config{})
	p := validPayment()
	p.Network = "ethereum-mainnet"
	_, err := f.Verify(context.Background(), p)
	if apperrors.KindOf(err) != apperrors.KindX402UnsupportedNetwork {
		t.Fatalf("expected X402_UNSUPPORTED_NETWORK, got %v", err)
	}
}

func TestSettleGeneratesA32ByteHexHash(t *testing.T) {
	f := New(Config{})
	result, err := f.Settle(context.Background(), validPayment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatal("expected settlement success")
	}
	hash := result.TransactionHash
	if len(hash) != 66 || hash[:2] != "0x" { // 0x + 64 hex chars = 32 bytes
		t.Errorf("expected a 0x-prefixed 32-byte hex hash, got %q (len=%d)", hash, len(hash))
	}
}

func TestSettleAlwaysFailsWithFailureRateOne(t *testing.T) {
	f := New(Config{FailureRate: 1})
	_, err := f.Settle(context.Background(), validPayment())
	if err == nil {
		t.Fatal("expected a sandbox-injected settlement failure")
	}
}

func TestSupportedListsDefaultKinds(t *testing.T) {
	f := New(Config{})
	kinds := f.Supported()
	found := false
	for _, k := range kinds {
		if k.Scheme == SchemeExactEVM && k.Network == NetworkBaseMainnet {
			found = true
		}
	}
	if !found {
		t.Error("expected exact-evm on base mainnet to be a supported kind")
	}
}
