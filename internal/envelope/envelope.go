// Package envelope implements the response-wrapper pipeline stage: every
// public API response is either a SuccessResponse or an ErrorResponse, never
// a raw, unwrapped payload. Handlers return data or a typed error; this
// package performs the wrapping exactly once (WriteSuccess/WriteError never
// double-wrap an already-wrapped value).
package envelope

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/haxaco/payos-sub010/internal/apperrors"
)

const APIVersion = "2025-01-01"

type Meta struct {
	RequestID        string `json:"request_id"`
	Timestamp        string `json:"timestamp"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
	APIVersion       string `json:"api_version"`
	Environment      string `json:"environment"`
}

type SuccessResponse struct {
	Success     bool                        `json:"success"`
	Data        any                         `json:"data"`
	Meta        Meta                        `json:"meta"`
	Links       map[string]string           `json:"links,omitempty"`
	NextActions []apperrors.SuggestedAction `json:"next_actions,omitempty"`
}

type ErrorDetail struct {
	Code             apperrors.Kind              `json:"code"`
	Category         apperrors.Category          `json:"category"`
	Message          string                      `json:"message"`
	Details          map[string]any              `json:"details,omitempty"`
	SuggestedActions []apperrors.SuggestedAction `json:"suggested_actions,omitempty"`
	Retry            apperrors.Retry             `json:"retry"`
	DocumentationURL string                      `json:"documentation_url"`
}

type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// IsSuccess, IsError and IsPaginated are total type guards over a decoded
// envelope body, used by aggregator and client code that doesn't know ahead
// of time which shape it received.
func IsSuccess(v map[string]any) bool {
	ok, _ := v["success"].(bool)
	return ok
}

func IsError(v map[string]any) bool {
	ok, present := v["success"].(bool)
	return present && !ok
}

func IsPaginated(v map[string]any) bool {
	if !IsSuccess(v) {
		return false
	}
	_, hasCursor := v["next_cursor"]
	_, hasItems := v["items"]
	return hasCursor || hasItems
}

// Tracker measures processing time from inbound decode to outbound encode
// and carries the request-scoped identifiers the envelope needs.
type Tracker struct {
	RequestID   string
	Environment string
	start       time.Time
}

// NewTracker starts a response-wrapper measurement window. If the caller
// supplied an Idempotency/X-Request-Id style id it is honored; otherwise one
// is minted.
func NewTracker(requestID, environment string) *Tracker {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &Tracker{RequestID: requestID, Environment: environment, start: time.Now()}
}

func (t *Tracker) meta() Meta {
	return Meta{
		RequestID:        t.RequestID,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		ProcessingTimeMs: time.Since(t.start).Milliseconds(),
		APIVersion:       APIVersion,
		Environment:      t.Environment,
	}
}

type WriteOption func(*SuccessResponse)

func WithLinks(links map[string]string) WriteOption {
	return func(r *SuccessResponse) { r.Links = links }
}

func WithNextActions(actions []apperrors.SuggestedAction) WriteOption {
	return func(r *SuccessResponse) { r.NextActions = actions }
}

// WriteSuccess wraps data in the success envelope and writes it with status.
// It never re-wraps a value that is already a SuccessResponse or
// ErrorResponse.
func (t *Tracker) WriteSuccess(w http.ResponseWriter, status int, data any, opts ...WriteOption) {
	switch data.(type) {
	case SuccessResponse, *SuccessResponse, ErrorResponse, *ErrorResponse:
		writeJSON(w, status, data)
		return
	}
	resp := SuccessResponse{Success: true, Data: data, Meta: t.meta()}
	for _, opt := range opts {
		opt(&resp)
	}
	writeJSON(w, status, resp)
}

// WriteError converts err into the error envelope. Non-*apperrors.Error
// values are treated as INTERNAL_ERROR and never leak their message in
// production environments.
func (t *Tracker) WriteError(w http.ResponseWriter, err error, production bool) {
	appErr, ok := asAppError(err)
	if !ok {
		appErr = apperrors.New(apperrors.KindInternalError, "internal server error", nil)
	}
	meta := apperrors.ForKind(appErr.Kind)
	retry := apperrors.RetryFor(appErr.Kind, apperrors.RetryContext{})
	message := appErr.Message
	if production && meta.Category == apperrors.CategoryTechnical {
		message = "internal server error"
	}

	resp := ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:             appErr.Kind,
			Category:         meta.Category,
			Message:          message,
			Details:          appErr.Details,
			SuggestedActions: apperrors.SuggestedActionsFor(appErr.Kind, appErr.Details),
			Retry:            retry,
			DocumentationURL: meta.DocumentationURL,
		},
		RequestID: t.RequestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if retry.Retryable && appErr.Kind == apperrors.KindRateLimited && retry.RetryAfterSeconds != nil {
		w.Header().Set("Retry-After", strconv.Itoa(*retry.RetryAfterSeconds))
	}
	writeJSON(w, meta.HTTPStatus, resp)
}

func asAppError(err error) (*apperrors.Error, bool) {
	if err == nil {
		return nil, false
	}
	if e, ok := err.(*apperrors.Error); ok {
		return e, true
	}
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return asAppError(u.Unwrap())
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
