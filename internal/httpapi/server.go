// Package httpapi is the platform's HTTP edge: a chi router covering the
// full operation surface the capabilities catalog advertises. Every
// handler returns through
// internal/envelope's Tracker rather than writing JSON directly, and every
// error returned by a domain/service package is normalized through
// mapDomainErr before it reaches the tracker.
package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haxaco/payos-sub010/internal/acp"
	"github.com/haxaco/payos-sub010/internal/ap2"
	"github.com/haxaco/payos-sub010/internal/batch"
	"github.com/haxaco/payos-sub010/internal/cache"
	"github.com/haxaco/payos-sub010/internal/capabilities"
	"github.com/haxaco/payos-sub010/internal/contextagg"
	"github.com/haxaco/payos-sub010/internal/execution"
	"github.com/haxaco/payos-sub010/internal/facilitator"
	"github.com/haxaco/payos-sub010/internal/simulate"
	"github.com/haxaco/payos-sub010/internal/store"
	"github.com/haxaco/payos-sub010/internal/webhook"
)

// Server holds every dependency a handler needs. It carries no per-request
// state — Router() builds a fresh chi.Mux wired against these singletons.
type Server struct {
	Store         *store.Store
	Engine        *simulate.Engine
	Batch         *batch.Processor
	Gate          *execution.Gate
	AP2           *ap2.Service
	ACP           *acp.Service
	Facilitator   *facilitator.Facilitator
	Context       *contextagg.Aggregator
	Cache         *cache.Cache
	Capabilities  *capabilities.Registry
	Webhook       *webhook.Service

	Validate    *validator.Validate
	Environment string
	Production  bool
}

// Config bundles the constructor dependencies, avoiding a ten-argument New.
type Config struct {
	Store        *store.Store
	Engine       *simulate.Engine
	Batch        *batch.Processor
	Gate         *execution.Gate
	AP2          *ap2.Service
	ACP          *acp.Service
	Facilitator  *facilitator.Facilitator
	Context      *contextagg.Aggregator
	Cache        *cache.Cache
	Capabilities *capabilities.Registry
	Webhook      *webhook.Service
	Environment  string
	Production   bool
}

func New(cfg Config) *Server {
	return &Server{
		Store:        cfg.Store,
		Engine:       cfg.Engine,
		Batch:        cfg.Batch,
		Gate:         cfg.Gate,
		AP2:          cfg.AP2,
		ACP:          cfg.ACP,
		Facilitator:  cfg.Facilitator,
		Context:      cfg.Context,
		Cache:        cfg.Cache,
		Capabilities: cfg.Capabilities,
		Webhook:      cfg.Webhook,
		Validate:     validator.New(validator.WithRequiredStructEnabled()),
		Environment:  cfg.Environment,
		Production:   cfg.Production,
	}
}

// Router builds the full chi.Mux: middleware chain, then every route the
// capabilities catalog advertises plus the settlement-callback ingest route.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	s.mountMiddleware(r)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/v1/capabilities", s.handleCapabilities)

	r.Post("/v1/simulate", s.handleSimulate)
	r.Get("/v1/simulate/{id}", s.handleGetSimulation)
	r.Post("/v1/simulate/{id}/execute", s.handleExecuteSimulation)
	r.Post("/v1/simulate/batch", s.handleSimulateBatch)

	r.Post("/v1/transfers", s.handleCreateTransfer)
	r.Get("/v1/transfers/{id}", s.handleGetTransfer)
	r.Post("/v1/transfers/{id}/cancel", s.handleCancelTransfer)

	r.Post("/v1/refunds", s.handleCreateRefund)

	r.Post("/v1/ap2/mandates", s.handleCreateMandate)
	r.Get("/v1/ap2/mandates/{id}", s.handleGetMandate)
	r.Post("/v1/ap2/mandates/{id}/execute", s.handleExecuteMandate)
	r.Patch("/v1/ap2/mandates/{id}/cancel", s.handleCancelMandate)

	r.Post("/v1/acp/checkouts", s.handleCreateCheckout)
	r.Get("/v1/acp/checkouts/{id}", s.handleGetCheckout)
	r.Post("/v1/acp/checkouts/{id}/complete", s.handleCompleteCheckout)
	r.Patch("/v1/acp/checkouts/{id}/cancel", s.handleCancelCheckout)

	r.Post("/v1/x402/facilitator/verify", s.handleFacilitatorVerify)
	r.Post("/v1/x402/facilitator/settle", s.handleFacilitatorSettle)

	r.Get("/v1/context/{entity}/{id}", s.handleContext)

	r.Post("/v1/webhooks/transactions", s.handleWebhookTransaction)

	return r
}
