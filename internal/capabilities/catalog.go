// Package capabilities builds the machine-readable tool-discovery catalog
// served from GET /v1/capabilities: one entry per operation plus API limits,
// supported currencies/rails, and webhook events. It generalizes a hand-rolled
// JSON-schema inputSchema-per-tool table from four simulation tools to the
// full HTTP operation surface, and fronts it with the same response cache
// used for /context/* reads.
package capabilities

import (
	"net/url"

	"github.com/haxaco/payos-sub010/internal/cache"
	"github.com/haxaco/payos-sub010/internal/domain"
)

// HTTPRoute names the method+path an operation is invoked over.
type HTTPRoute struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

// Operation is one catalog entry: a single callable action a human or an
// agent framework can invoke, described in enough detail to build a
// tool-call schema without reading documentation.
type Operation struct {
	Name                string         `json:"name"`
	Category            string         `json:"category"`
	Description         string         `json:"description"`
	HTTP                HTTPRoute      `json:"http"`
	ParametersSchema    map[string]any `json:"parameters_schema"`
	ReturnsSchema       map[string]any `json:"returns_schema"`
	ErrorCodes          []string       `json:"error_codes"`
	SupportsSimulation  bool           `json:"supports_simulation"`
	SupportsIdempotency bool           `json:"supports_idempotency"`
}

// Limits describes the API-wide operating envelope, independent of any
// single tenant's account tier caps.
type Limits struct {
	BatchMinItems          int `json:"batch_min_items"`
	BatchMaxItems          int `json:"batch_max_items"`
	DefaultRequestTimeoutS int `json:"default_request_timeout_seconds"`
	FacilitatorTimeoutS    int `json:"facilitator_timeout_seconds"`
	SimulationTTLSeconds   int `json:"simulation_ttl_seconds"`
	CheckoutTTLSeconds     int `json:"checkout_ttl_seconds"`
}

// Catalog is the full GET /v1/capabilities response body.
type Catalog struct {
	Operations          []Operation `json:"operations"`
	Limits              Limits      `json:"limits"`
	SupportedCurrencies []string    `json:"supported_currencies"`
	SupportedRails      []string    `json:"supported_rails"`
	WebhookEvents       []string    `json:"webhook_events"`
}

// ToolSchema is the {name, description, parameters} shape most agent
// frameworks expect when registering a callable function.
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Registry serves the catalog, caching the rendered body per tenant for an
// hour via the shared response cache — the catalog itself never varies by
// tenant today, but caching is keyed by tenant anyway so a future
// per-tenant feature-flag filter doesn't require a cache-layer change.
type Registry struct {
	catalog Catalog
	cache   *cache.Cache
}

func New(c *cache.Cache) *Registry {
	return &Registry{catalog: buildCatalog(), cache: c}
}

// Get returns the full catalog, serving a cached rendering for tenant when
// one exists. body/contentType mirror the contract of the /context/* cache
// so the same middleware can set X-Cache/ETag headers for this route too.
func (r *Registry) Get(tenant string, render func(Catalog) []byte) (body []byte, hit bool) {
	key := cache.Key(tenant, "/v1/capabilities", url.Values{})
	if res, ok := r.cache.Get(key); ok {
		return res.Body, true
	}
	body = render(r.catalog)
	r.cache.Set(key, cache.BucketCapabilities, "application/json", body)
	return body, false
}

// Filter returns the subset of operations matching category and/or name
// (case-sensitive exact match; empty string means "don't filter on this").
func (r *Registry) Filter(category, name string) []Operation {
	out := make([]Operation, 0, len(r.catalog.Operations))
	for _, op := range r.catalog.Operations {
		if category != "" && op.Category != category {
			continue
		}
		if name != "" && op.Name != name {
			continue
		}
		out = append(out, op)
	}
	return out
}

// ToolSchemas derives the agent-tool-call view of the full catalog.
func (r *Registry) ToolSchemas() []ToolSchema {
	schemas := make([]ToolSchema, 0, len(r.catalog.Operations))
	for _, op := range r.catalog.Operations {
		schemas = append(schemas, ToolSchema{
			Name:        op.Name,
			Description: op.Description,
			Parameters:  op.ParametersSchema,
		})
	}
	return schemas
}

func schema(typ string, properties map[string]any, required ...string) map[string]any {
	s := map[string]any{"type": typ}
	if properties != nil {
		s["properties"] = properties
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func buildCatalog() Catalog {
	moneyProp := map[string]any{
		"type":        "object",
		"description": "decimal amount + ISO currency",
		"properties": map[string]any{
			"amount":   prop("string", "decimal string, e.g. \"125.50\""),
			"currency": prop("string", "ISO 4217 currency code"),
		},
		"required": []string{"amount", "currency"},
	}

	ops := []Operation{
		{
			Name: "simulate_action", Category: "simulation",
			Description: "Create a simulation for a transfer, refund, or stream without moving money.",
			HTTP:        HTTPRoute{"/v1/simulate", "POST"},
			ParametersSchema: schema("object", map[string]any{
				"action_type": prop("string", "transfer | refund | stream"),
				"amount":      moneyProp,
			}, "action_type"),
			ReturnsSchema:       schema("object", map[string]any{"simulation_id": prop("string", "id to pass to execute_simulation")}),
			ErrorCodes:          []string{"VALIDATION_FAILED", "ACCOUNT_NOT_FOUND", "INSUFFICIENT_BALANCE"},
			SupportsSimulation:  true,
			SupportsIdempotency: false,
		},
		{
			Name: "get_simulation", Category: "simulation",
			Description:        "Fetch a previously created simulation by id.",
			HTTP:                HTTPRoute{"/v1/simulate/{id}", "GET"},
			ParametersSchema:    schema("object", map[string]any{"id": prop("string", "simulation id")}, "id"),
			ReturnsSchema:       schema("object", nil),
			ErrorCodes:          []string{"SIMULATION_NOT_FOUND"},
			SupportsSimulation:  false,
			SupportsIdempotency: false,
		},
		{
			Name: "execute_simulation", Category: "simulation",
			Description: "Materialize a simulation into a real transfer or refund. Idempotent: replays return the original result.",
			HTTP:        HTTPRoute{"/v1/simulate/{id}/execute", "POST"},
			ParametersSchema: schema("object", map[string]any{
				"id": prop("string", "simulation id"),
			}, "id"),
			ReturnsSchema:       schema("object", map[string]any{"execution_result": schema("object", nil)}),
			ErrorCodes:          []string{"SIMULATION_EXPIRED", "SIMULATION_CANNOT_EXECUTE", "SIMULATION_FX_VARIANCE_EXCEEDED", "SIMULATION_FEE_VARIANCE_EXCEEDED", "SIMULATION_STALE"},
			SupportsSimulation:  false,
			SupportsIdempotency: true,
		},
		{
			Name: "simulate_batch", Category: "simulation",
			Description: "Simulate up to 1000 transfers in one call, with cumulative per-item balance checks.",
			HTTP:        HTTPRoute{"/v1/simulate/batch", "POST"},
			ParametersSchema: schema("object", map[string]any{
				"items":               schema("array", nil),
				"stop_on_first_error": prop("boolean", "stop simulating once an item fails"),
			}, "items"),
			ReturnsSchema:       schema("object", map[string]any{"can_execute_all": prop("boolean", "")}),
			ErrorCodes:          []string{"BATCH_SIZE_OUT_OF_RANGE"},
			SupportsSimulation:  true,
			SupportsIdempotency: false,
		},
		{
			Name: "create_transfer", Category: "transfers",
			Description:         "Create a transfer directly, without a prior simulation step.",
			HTTP:                HTTPRoute{"/v1/transfers", "POST"},
			ParametersSchema:    schema("object", map[string]any{"from_account": prop("string", ""), "to_account": prop("string", ""), "amount": moneyProp}, "from_account", "to_account", "amount"),
			ReturnsSchema:       schema("object", nil),
			ErrorCodes:          []string{"INSUFFICIENT_BALANCE", "ACCOUNT_NOT_FOUND", "SAME_ACCOUNT_TRANSFER"},
			SupportsSimulation:  false,
			SupportsIdempotency: true,
		},
		{
			Name: "get_transfer", Category: "transfers",
			Description:        "Fetch a transfer by id.",
			HTTP:                HTTPRoute{"/v1/transfers/{id}", "GET"},
			ParametersSchema:    schema("object", map[string]any{"id": prop("string", "")}, "id"),
			ReturnsSchema:       schema("object", nil),
			ErrorCodes:          []string{"TRANSFER_NOT_FOUND"},
			SupportsSimulation:  false,
			SupportsIdempotency: false,
		},
		{
			Name: "cancel_transfer", Category: "transfers",
			Description:        "Cancel a pending transfer.",
			HTTP:                HTTPRoute{"/v1/transfers/{id}/cancel", "POST"},
			ParametersSchema:    schema("object", map[string]any{"id": prop("string", "")}, "id"),
			ReturnsSchema:       schema("object", nil),
			ErrorCodes:          []string{"TRANSFER_NOT_CANCELLABLE"},
			SupportsSimulation:  false,
			SupportsIdempotency: true,
		},
		{
			Name: "create_refund", Category: "refunds",
			Description:         "Refund all or part of a completed transfer.",
			HTTP:                HTTPRoute{"/v1/refunds", "POST"},
			ParametersSchema:    schema("object", map[string]any{"original_transfer_id": prop("string", ""), "amount": moneyProp, "reason": prop("string", "")}, "original_transfer_id", "amount"),
			ReturnsSchema:       schema("object", nil),
			ErrorCodes:          []string{"ORIGINAL_TRANSACTION_NOT_FOUND", "REFUND_WINDOW_EXPIRED", "REFUND_AMOUNT_EXCEEDS_AVAILABLE"},
			SupportsSimulation:  true,
			SupportsIdempotency: true,
		},
		{
			Name: "create_mandate", Category: "ap2",
			Description:         "Pre-authorize an agent spending envelope under AP2.",
			HTTP:                HTTPRoute{"/v1/ap2/mandates", "POST"},
			ParametersSchema:    schema("object", map[string]any{"agent_id": prop("string", ""), "account_id": prop("string", ""), "authorized_amount": moneyProp, "expires_at": prop("string", "RFC 3339 timestamp")}, "agent_id", "account_id", "authorized_amount"),
			ReturnsSchema:       schema("object", nil),
			ErrorCodes:          []string{"ACCOUNT_NOT_FOUND", "VALIDATION_FAILED"},
			SupportsSimulation:  false,
			SupportsIdempotency: true,
		},
		{
			Name: "execute_mandate", Category: "ap2",
			Description:         "Apply one partial payment against a mandate's remaining envelope.",
			HTTP:                HTTPRoute{"/v1/ap2/mandates/{id}/execute", "POST"},
			ParametersSchema:    schema("object", map[string]any{"id": prop("string", ""), "amount": moneyProp}, "id", "amount"),
			ReturnsSchema:       schema("object", nil),
			ErrorCodes:          []string{"MANDATE_NOT_ACTIVE", "AP2_MANDATE_EXPIRED", "AP2_MANDATE_EXCEEDED", "MANDATE_ALREADY_TERMINAL"},
			SupportsSimulation:  false,
			SupportsIdempotency: true,
		},
		{
			Name: "cancel_mandate", Category: "ap2",
			Description:         "Cancel an active mandate before its envelope is exhausted.",
			HTTP:                HTTPRoute{"/v1/ap2/mandates/{id}/cancel", "PATCH"},
			ParametersSchema:    schema("object", map[string]any{"id": prop("string", "")}, "id"),
			ReturnsSchema:       schema("object", nil),
			ErrorCodes:          []string{"MANDATE_ALREADY_TERMINAL", "AP2_MANDATE_EXPIRED"},
			SupportsSimulation:  false,
			SupportsIdempotency: true,
		},
		{
			Name: "create_checkout", Category: "acp",
			Description:         "Create a cart checkout with a total pinned at creation.",
			HTTP:                HTTPRoute{"/v1/acp/checkouts", "POST"},
			ParametersSchema:    schema("object", map[string]any{"merchant_id": prop("string", ""), "agent_id": prop("string", ""), "items": schema("array", nil), "total": moneyProp}, "merchant_id", "items", "total"),
			ReturnsSchema:       schema("object", map[string]any{"shared_payment_token": prop("string", "single-use token required to complete this checkout")}),
			ErrorCodes:          []string{"CHECKOUT_TOTAL_MISMATCH"},
			SupportsSimulation:  false,
			SupportsIdempotency: true,
		},
		{
			Name: "complete_checkout", Category: "acp",
			Description:         "Complete a pending checkout by presenting its shared payment token.",
			HTTP:                HTTPRoute{"/v1/acp/checkouts/{id}/complete", "POST"},
			ParametersSchema:    schema("object", map[string]any{"id": prop("string", ""), "shared_payment_token": prop("string", "")}, "id", "shared_payment_token"),
			ReturnsSchema:       schema("object", nil),
			ErrorCodes:          []string{"SHARED_PAYMENT_TOKEN_INVALID", "CHECKOUT_NOT_PENDING", "CHECKOUT_EXPIRED", "CHECKOUT_ALREADY_TERMINAL"},
			SupportsSimulation:  false,
			SupportsIdempotency: true,
		},
		{
			Name: "cancel_checkout", Category: "acp",
			Description:         "Cancel a pending checkout.",
			HTTP:                HTTPRoute{"/v1/acp/checkouts/{id}/cancel", "PATCH"},
			ParametersSchema:    schema("object", map[string]any{"id": prop("string", "")}, "id"),
			ReturnsSchema:       schema("object", nil),
			ErrorCodes:          []string{"CHECKOUT_NOT_PENDING", "CHECKOUT_ALREADY_TERMINAL"},
			SupportsSimulation:  false,
			SupportsIdempotency: true,
		},
		{
			Name: "x402_verify", Category: "x402",
			Description:         "Validate an x402 payment's structure and scheme/network support, without checking signatures.",
			HTTP:                HTTPRoute{"/v1/x402/facilitator/verify", "POST"},
			ParametersSchema:    schema("object", map[string]any{"payment": schema("object", nil)}, "payment"),
			ReturnsSchema:       schema("object", map[string]any{"is_valid": prop("boolean", "")}),
			ErrorCodes:          []string{"X402_UNSUPPORTED_SCHEME", "X402_UNSUPPORTED_NETWORK", "X402_VERIFICATION_FAILED"},
			SupportsSimulation:  false,
			SupportsIdempotency: false,
		},
		{
			Name: "x402_settle", Category: "x402",
			Description:         "Settle a verified x402 payment, returning a synthetic transaction hash.",
			HTTP:                HTTPRoute{"/v1/x402/facilitator/settle", "POST"},
			ParametersSchema:    schema("object", map[string]any{"payment": schema("object", nil)}, "payment"),
			ReturnsSchema:       schema("object", map[string]any{"transaction_hash": prop("string", "")}),
			ErrorCodes:          []string{"X402_SETTLEMENT_FAILED", "FACILITATOR_UNAVAILABLE"},
			SupportsSimulation:  false,
			SupportsIdempotency: false,
		},
		{
			Name: "get_context", Category: "context",
			Description:         "Fetch a 360-degree aggregated view of an account, transfer, agent, or batch.",
			HTTP:                HTTPRoute{"/v1/context/{entity}/{id}", "GET"},
			ParametersSchema:    schema("object", map[string]any{"entity": prop("string", "account | transfer | agent | batch"), "id": prop("string", "")}, "entity", "id"),
			ReturnsSchema:       schema("object", nil),
			ErrorCodes:          []string{"NOT_FOUND"},
			SupportsSimulation:  false,
			SupportsIdempotency: false,
		},
	}

	return Catalog{
		Operations: ops,
		Limits: Limits{
			BatchMinItems:          domain.BatchMinItems,
			BatchMaxItems:          domain.BatchMaxItems,
			DefaultRequestTimeoutS: 30,
			FacilitatorTimeoutS:    10,
			SimulationTTLSeconds:   int(domain.SimulationTTL.Seconds()),
			CheckoutTTLSeconds:     int(domain.CheckoutTTL.Seconds()),
		},
		SupportedCurrencies: []string{"USD", "USDC", "BRL", "MXN", "ARS", "COP"},
		SupportedRails: []string{
			string(domain.RailInternal), string(domain.RailPix), string(domain.RailSpei),
			string(domain.RailCvu), string(domain.RailPse), string(domain.RailWire),
		},
		WebhookEvents: []string{
			"transfer.completed", "transfer.failed", "transfer.cancelled",
			"refund.completed", "mandate.exhausted", "mandate.expired",
			"checkout.completed", "checkout.expired",
		},
	}
}
