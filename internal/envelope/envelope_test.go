package envelope

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/haxaco/payos-sub010/internal/apperrors"
)

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return m
}

func TestWriteSuccessShape(t *testing.T) {
	tr := NewTracker("req-1", "sandbox")
	w := httptest.NewRecorder()
	tr.WriteSuccess(w, 200, map[string]string{"account_id": "acc1"})

	if w.Code != 200 {
		t.Errorf("expected 200, got %d", w.Code)
	}
	body := decodeMap(t, w)
	if !IsSuccess(body) {
		t.Error("expected success envelope")
	}
	if IsError(body) {
		t.Error("success envelope must not also read as error")
	}
	meta, ok := body["meta"].(map[string]any)
	if !ok {
		t.Fatal("expected meta object")
	}
	if meta["request_id"] != "req-1" {
		t.Errorf("expected request_id req-1, got %v", meta["request_id"])
	}
	if meta["environment"] != "sandbox" {
		t.Errorf("expected environment sandbox, got %v", meta["environment"])
	}
}

func TestWriteErrorShape(t *testing.T) {
	tr := NewTracker("req-2", "sandbox")
	w := httptest.NewRecorder()
	err := apperrors.New(apperrors.KindInsufficientBalance, "balance too low", map[string]any{
		"shortfall": "15.00", "currency": "USD", "account_id": "acc1",
	})
	tr.WriteError(w, err, false)

	if w.Code != 422 {
		t.Errorf("expected 422, got %d", w.Code)
	}
	body := decodeMap(t, w)
	if !IsError(body) {
		t.Error("expected error envelope")
	}
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatal("expected error object")
	}
	if errObj["code"] != string(apperrors.KindInsufficientBalance) {
		t.Errorf("expected code INSUFFICIENT_BALANCE, got %v", errObj["code"])
	}
	if errObj["category"] != string(apperrors.CategoryBalance) {
		t.Errorf("expected category balance, got %v", errObj["category"])
	}
	actions, ok := errObj["suggested_actions"].([]any)
	if !ok || len(actions) == 0 {
		t.Error("expected non-empty suggested_actions for insufficient balance")
	}
}

func TestWriteErrorHidesInternalMessageInProduction(t *testing.T) {
	tr := NewTracker("req-3", "production")
	w := httptest.NewRecorder()
	err := apperrors.New(apperrors.KindInternalError, "nil pointer at store.go:42", nil)
	tr.WriteError(w, err, true)

	body := decodeMap(t, w)
	errObj := body["error"].(map[string]any)
	if errObj["message"] != "internal server error" {
		t.Errorf("expected generic message in production, got %v", errObj["message"])
	}
}

func TestWriteErrorUntypedErrorBecomesInternal(t *testing.T) {
	tr := NewTracker("req-4", "sandbox")
	w := httptest.NewRecorder()
	tr.WriteError(w, errPlain("boom"), false)

	if w.Code != 500 {
		t.Errorf("expected 500 for untyped error, got %d", w.Code)
	}
	body := decodeMap(t, w)
	errObj := body["error"].(map[string]any)
	if errObj["code"] != string(apperrors.KindInternalError) {
		t.Errorf("expected INTERNAL_ERROR code, got %v", errObj["code"])
	}
}

func TestWriteSuccessNeverDoubleWraps(t *testing.T) {
	tr := NewTracker("req-5", "sandbox")
	already := SuccessResponse{Success: true, Data: "payload", Meta: tr.meta()}

	w := httptest.NewRecorder()
	tr.WriteSuccess(w, 200, already)
	body := decodeMap(t, w)
	// Passing an already-wrapped value must pass it through untouched, not
	// nest it under a second "data" key.
	if body["data"] != "payload" {
		t.Errorf("expected data to be the already-wrapped payload, got %v", body["data"])
	}
}

func TestRetryAfterHeaderSetForRateLimited(t *testing.T) {
	tr := NewTracker("req-6", "sandbox")
	w := httptest.NewRecorder()
	err := apperrors.New(apperrors.KindRateLimited, "too many requests", nil)
	tr.WriteError(w, err, false)

	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on rate-limited error")
	}
}

type errPlain string

func (e errPlain) Error() string { return string(e) }
