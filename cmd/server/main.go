package main

import (
	"net/http"
	"os"

	"github.com/haxaco/payos-sub010/internal/acp"
	"github.com/haxaco/payos-sub010/internal/ap2"
	"github.com/haxaco/payos-sub010/internal/batch"
	"github.com/haxaco/payos-sub010/internal/cache"
	"github.com/haxaco/payos-sub010/internal/capabilities"
	"github.com/haxaco/payos-sub010/internal/config"
	"github.com/haxaco/payos-sub010/internal/contextagg"
	"github.com/haxaco/payos-sub010/internal/execution"
	"github.com/haxaco/payos-sub010/internal/facilitator"
	"github.com/haxaco/payos-sub010/internal/fx"
	"github.com/haxaco/payos-sub010/internal/httpapi"
	"github.com/haxaco/payos-sub010/internal/logging"
	"github.com/haxaco/payos-sub010/internal/simulate"
	"github.com/haxaco/payos-sub010/internal/store"
	"github.com/haxaco/payos-sub010/internal/webhook"
)

func main() {
	cfg, err := config.Load(os.Getenv("PAYOS_CONFIG_FILE"))
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logging.New(cfg.Environment)
	if err != nil {
		os.Stderr.WriteString("logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	st := store.New()
	fxProvider := fx.NewSandboxProvider()
	engine := simulate.New(st, fxProvider)
	batchProc := batch.New(st, fxProvider)
	gate := execution.New(st, engine)
	ap2Svc := ap2.New(st)
	acpSvc := acp.New(st)
	facilitatorSvc := facilitator.New(facilitator.Config{})
	respCache := cache.New()
	respCache.StartSweeper()
	defer respCache.StopSweeper()
	contextAgg := contextagg.New(st)
	capReg := capabilities.New(respCache)
	webhookSvc := webhook.NewService(webhook.NewStore())

	srv := httpapi.New(httpapi.Config{
		Store:        st,
		Engine:       engine,
		Batch:        batchProc,
		Gate:         gate,
		AP2:          ap2Svc,
		ACP:          acpSvc,
		Facilitator:  facilitatorSvc,
		Context:      contextAgg,
		Cache:        respCache,
		Capabilities: capReg,
		Webhook:      webhookSvc,
		Environment:  cfg.Environment,
		Production:   cfg.Environment == "production",
	})

	addr := cfg.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	log.Info("payos server listening", "addr", addr, "environment", cfg.Environment)
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		log.Error(err, "server failed")
		os.Exit(1)
	}
}

