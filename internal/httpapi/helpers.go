package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/haxaco/payos-sub010/internal/apperrors"
	"github.com/haxaco/payos-sub010/internal/envelope"
)

const defaultTenant = "default"

func tenantOf(r *http.Request) string {
	if t := r.Header.Get("X-Tenant-ID"); t != "" {
		return t
	}
	return defaultTenant
}

func (s *Server) tracker(r *http.Request) *envelope.Tracker {
	return envelope.NewTracker(r.Header.Get("X-Request-Id"), s.Environment)
}

// decode parses the JSON request body into dst and runs struct validation.
// Decode errors and validation failures are both surfaced as
// KindValidationFailed — the request never reached a domain constructor.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.New(apperrors.KindValidationFailed, "malformed request body", map[string]any{"parse_error": err.Error()})
	}
	if err := s.Validate.Struct(dst); err != nil {
		return apperrors.New(apperrors.KindValidationFailed, "request validation failed", map[string]any{"validation_error": err.Error()})
	}
	return nil
}

// createIdempotent runs create only if key hasn't already been claimed,
// a two-phase "advisory check, then atomic reserve" idempotency idiom.
// On replay, fetch recovers the previously created resource by the id the
// key was reserved against.
func (s *Server) createIdempotent(
	key string,
	create func() (id string, body any, err error),
	fetch func(id string) (any, error),
) (body any, replayed bool, err error) {
	if key != "" {
		if existingID, found := s.Store.PeekIdempotencyKey(key); found {
			b, ferr := fetch(existingID)
			return b, true, ferr
		}
	}
	id, body, err := create()
	if err != nil {
		return nil, false, err
	}
	if key != "" {
		s.Store.ReserveIdempotencyKey(key, id)
	}
	return body, false, nil
}
