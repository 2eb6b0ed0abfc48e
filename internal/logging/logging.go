// Package logging wires the platform's structured logger: a zap.Logger
// under the hood, exposed through go-logr's Logger interface so every
// package (including those grounded on controller-runtime-style call sites)
// takes a logr.Logger rather than importing zap directly.
package logging

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logr.Logger backed by zap. environment selects the encoder:
// "production" gets JSON output at info level, anything else gets a
// human-readable console encoder at debug level.
func New(environment string) (logr.Logger, error) {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return logr.Logger{}, err
	}
	return zapr.NewLogger(zl), nil
}

type ctxKey struct{}

// Into attaches logger to ctx so downstream calls can recover it with From.
func Into(ctx context.Context, logger logr.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From recovers the request-scoped logger attached by Into, falling back to
// the package-level discard logger so callers never need a nil check.
func From(ctx context.Context) logr.Logger {
	if l, ok := ctx.Value(ctxKey{}).(logr.Logger); ok {
		return l
	}
	return logr.Discard()
}

// WithRequest enriches logger with the fields every access-log line and
// downstream handler trace carries.
func WithRequest(logger logr.Logger, requestID, method, path, tenant string) logr.Logger {
	return logger.WithValues("request_id", requestID, "method", method, "path", path, "tenant", tenant)
}
