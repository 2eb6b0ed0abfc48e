package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/haxaco/payos-sub010/internal/logging"
)

func (s *Server) mountMiddleware(r chi.Router) {
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Idempotency-Key", "Authorization", "If-None-Match"},
		ExposedHeaders:   []string{"X-Cache", "X-Cache-Age", "ETag", "Retry-After"},
		MaxAge:           300,
	}))
	r.Use(s.accessLog)
}

// accessLog threads a request-scoped logger through ctx and emits one
// structured line per request, via logr field accumulation.
func (s *Server) accessLog(next http.Handler) http.Handler {
	base, _ := logging.New(s.Environment)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := chimw.GetReqID(r.Context())
		tenant := r.Header.Get("X-Tenant-ID")
		logger := logging.WithRequest(base, requestID, r.Method, r.URL.Path, tenant)
		ctx := logging.Into(r.Context(), logger)

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.Info("request completed",
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
