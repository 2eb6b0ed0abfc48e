package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/haxaco/payos-sub010/internal/acp"
	"github.com/haxaco/payos-sub010/internal/ap2"
	"github.com/haxaco/payos-sub010/internal/batch"
	"github.com/haxaco/payos-sub010/internal/cache"
	"github.com/haxaco/payos-sub010/internal/capabilities"
	"github.com/haxaco/payos-sub010/internal/contextagg"
	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/execution"
	"github.com/haxaco/payos-sub010/internal/facilitator"
	"github.com/haxaco/payos-sub010/internal/fx"
	"github.com/haxaco/payos-sub010/internal/simulate"
	"github.com/haxaco/payos-sub010/internal/store"
	"github.com/haxaco/payos-sub010/internal/webhook"
)

// newTestServer wires every dependency against a fresh in-memory store, the
// same way cmd/server/main.go does, so handler tests exercise the real
// simulation/execution/idempotency logic rather than mocks.
func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st := store.New()
	fxProvider := fx.NewSandboxProvider()
	engine := simulate.New(st, fxProvider)
	respCache := cache.New()
	srv := New(Config{
		Store:        st,
		Engine:       engine,
		Batch:        batch.New(st, fxProvider),
		Gate:         execution.New(st, engine),
		AP2:          ap2.New(st),
		ACP:          acp.New(st),
		Facilitator:  facilitator.New(facilitator.Config{}),
		Context:      contextagg.New(st),
		Cache:        respCache,
		Capabilities: capabilities.New(respCache),
		Webhook:      webhook.NewService(webhook.NewStore()),
		Environment:  "test",
		Production:   false,
	})
	return srv, st
}

func seedAccount(t *testing.T, st *store.Store, id, currency, available string) {
	t.Helper()
	acc, err := domain.NewAccount(id, defaultTenant, domain.AccountTypePerson, domain.TierTwo)
	if err != nil {
		t.Fatalf("seed account %s: %v", id, err)
	}
	amt, err := decimal.NewFromString(available)
	if err != nil {
		t.Fatalf("parse amount %s: %v", available, err)
	}
	acc.Balances = map[string]domain.Balance{currency: {Available: amt}}
	st.PutAccount(acc)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body=%s)", err, w.Body.String())
	}
	return env
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCapabilitiesServesETag(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/v1/capabilities", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag header")
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/capabilities", nil)
	req.Header.Set("If-None-Match", etag)
	w2 := httptest.NewRecorder()
	srv.Router().ServeHTTP(w2, req)
	if w2.Code != http.StatusNotModified {
		t.Fatalf("expected 304 on matching If-None-Match, got %d", w2.Code)
	}
}

func TestSimulateTransferInternal(t *testing.T) {
	srv, st := newTestServer(t)
	seedAccount(t, st, "acct-src", "USD", "500.00")
	seedAccount(t, st, "acct-dst", "USD", "0.00")

	w := doJSON(t, srv, http.MethodPost, "/v1/simulate", map[string]any{
		"action_type": "transfer",
		"transfer": map[string]any{
			"from_account": "acct-src",
			"to_account":   "acct-dst",
			"amount":       map[string]any{"amount": "100.00", "currency": "USD"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body=%s)", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", env)
	}
	if _, ok := data["ID"]; !ok {
		t.Fatalf("expected simulation to carry an ID field, got %v", data)
	}
}

func TestSimulateTransferInsufficientBalance(t *testing.T) {
	srv, st := newTestServer(t)
	seedAccount(t, st, "acct-thin", "USD", "10.00")
	seedAccount(t, st, "acct-dst", "USD", "0.00")

	w := doJSON(t, srv, http.MethodPost, "/v1/simulate", map[string]any{
		"action_type": "transfer",
		"transfer": map[string]any{
			"from_account": "acct-thin",
			"to_account":   "acct-dst",
			"amount":       map[string]any{"amount": "999.00", "currency": "USD"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 (simulation records the negative outcome), got %d (body=%s)", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	data := env["data"].(map[string]any)
	if canExecute, _ := data["CanExecute"].(bool); canExecute {
		t.Fatalf("expected can_execute=false for an over-balance transfer, got %v", data)
	}

	errs, _ := data["Errors"].([]any)
	if len(errs) == 0 {
		t.Fatalf("expected at least one issue explaining the insufficient balance, got %v", data)
	}
	issue := errs[0].(map[string]any)
	details, _ := issue["Details"].(map[string]any)
	// shortfall is reported against the requested amount, not amount+fees:
	// 999.00 - 10.00 = 989.00, not ~993.95 if the 0.5% fee were included.
	if got := details["shortfall"]; got != "989.00" {
		t.Errorf("expected shortfall=989.00 (amount minus available, no fees), got %v", got)
	}
}

func TestExecuteSimulationIsIdempotent(t *testing.T) {
	srv, st := newTestServer(t)
	seedAccount(t, st, "acct-src", "USD", "500.00")
	seedAccount(t, st, "acct-dst", "USD", "0.00")

	simResp := doJSON(t, srv, http.MethodPost, "/v1/simulate", map[string]any{
		"action_type": "transfer",
		"transfer": map[string]any{
			"from_account": "acct-src",
			"to_account":   "acct-dst",
			"amount":       map[string]any{"amount": "25.00", "currency": "USD"},
		},
	})
	env := decodeEnvelope(t, simResp)
	id, _ := env["data"].(map[string]any)["ID"].(string)
	if id == "" {
		t.Fatalf("expected a simulation id, got %v", env)
	}

	first := doJSON(t, srv, http.MethodPost, "/v1/simulate/"+id+"/execute", nil)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected first execute to return 201, got %d (body=%s)", first.Code, first.Body.String())
	}
	second := doJSON(t, srv, http.MethodPost, "/v1/simulate/"+id+"/execute", nil)
	if second.Code != http.StatusOK {
		t.Fatalf("expected replayed execute to return 200, got %d (body=%s)", second.Code, second.Body.String())
	}
}

func TestCreateTransferRejectsUnknownAccount(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/v1/transfers", map[string]any{
		"from_account": "nobody",
		"to_account":   "nobody-else",
		"amount":       map[string]any{"amount": "10.00", "currency": "USD"},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown source account, got %d (body=%s)", w.Code, w.Body.String())
	}
}

func TestContextAccountCacheHeaders(t *testing.T) {
	srv, st := newTestServer(t)
	seedAccount(t, st, "acct-ctx", "USD", "100.00")

	first := doJSON(t, srv, http.MethodGet, "/v1/context/account/acct-ctx", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body=%s)", first.Code, first.Body.String())
	}
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("expected X-Cache: MISS on first read, got %q", got)
	}

	second := doJSON(t, srv, http.MethodGet, "/v1/context/account/acct-ctx", nil)
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("expected X-Cache: HIT on second read, got %q", got)
	}
}

func TestContextUnknownEntity(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/v1/context/widget/anything", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown context entity, got %d (body=%s)", w.Code, w.Body.String())
	}
}

func TestMandateLifecycle(t *testing.T) {
	srv, st := newTestServer(t)
	seedAccount(t, st, "acct-mandate", "USD", "1000.00")

	create := doJSON(t, srv, http.MethodPost, "/v1/ap2/mandates", map[string]any{
		"mandate_type":      "intent",
		"agent_id":          "agent-1",
		"account_id":        "acct-mandate",
		"authorized_amount": map[string]any{"amount": "50.00", "currency": "USD"},
	})
	if create.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body=%s)", create.Code, create.Body.String())
	}
	env := decodeEnvelope(t, create)
	id, _ := env["data"].(map[string]any)["ID"].(string)
	if id == "" {
		t.Fatalf("expected a mandate id, got %v", env)
	}

	exec := doJSON(t, srv, http.MethodPost, "/v1/ap2/mandates/"+id+"/execute", map[string]any{
		"transfer_id": "transfer-under-mandate",
		"amount":      map[string]any{"amount": "60.00", "currency": "USD"},
	})
	if exec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an over-mandate execution, got %d (body=%s)", exec.Code, exec.Body.String())
	}
}
