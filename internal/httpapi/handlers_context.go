package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haxaco/payos-sub010/internal/apperrors"
	"github.com/haxaco/payos-sub010/internal/cache"
)

// handleContext serves GET /v1/context/{entity}/{id}, dispatching to the
// aggregator method for entity and fronting the render with the shared
// response cache. Account context is cached under BucketAccountMetadata
// (5-minute TTL); transfer, agent and batch context under BucketDetail
// (2-minute TTL).
func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	entity := chi.URLParam(r, "entity")
	id := chi.URLParam(r, "id")

	key := cache.Key(tenantOf(r), r.URL.Path, r.URL.Query())
	if _, served := s.Cache.ServeOrMiss(w, r, key); served {
		return
	}

	var (
		body    any
		bucket  cache.Bucket
		partial bool
		err     error
	)
	switch entity {
	case "account":
		body, partial, err = s.Context.Account(r.Context(), id)
		bucket = cache.BucketAccountMetadata
	case "transfer":
		body, partial, err = s.Context.Transfer(r.Context(), id)
		bucket = cache.BucketDetail
	case "agent":
		body, partial, err = s.Context.AgentContextFor(r.Context(), id)
		bucket = cache.BucketDetail
	case "batch":
		body, partial, err = s.Context.Batch(r.Context(), id)
		bucket = cache.BucketDetail
	default:
		t.WriteError(w, apperrors.New(apperrors.KindInvalidActionType, "unknown context entity: "+entity, nil), s.Production)
		return
	}
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}

	rendered, err := json.Marshal(envelopeBody(body, partial))
	if err != nil {
		t.WriteError(w, apperrors.New(apperrors.KindInternalError, err.Error(), nil), s.Production)
		return
	}
	res := s.Cache.Set(key, bucket, "application/json", rendered)
	cache.WriteMiss(w, res, http.StatusOK)
}

// envelopeBody tags a partial aggregation so callers can tell a degraded
// sub-query apart from a clean one without inspecting every sub-field.
func envelopeBody(body any, partial bool) any {
	return struct {
		Data    any  `json:"data"`
		Partial bool `json:"partial"`
	}{Data: body, Partial: partial}
}
