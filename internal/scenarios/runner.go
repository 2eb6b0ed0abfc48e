// Package scenarios runs the platform's seed end-to-end scenarios against a
// live server over HTTP: a step-capture runner extended from a fixed
// PURCHASE/REVERSAL/REFUND webhook table into a registry of named scenarios
// covering transfer/batch/mandate/checkout/refund/cache flows.
package scenarios

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StepResult captures one HTTP call a scenario made and whether its status
// matched expectation.
type StepResult struct {
	Step            int               `json:"step"`
	Description     string            `json:"description"`
	Method          string            `json:"method"`
	URL             string            `json:"url"`
	RequestBody     any               `json:"request_body,omitempty"`
	ResponseStatus  int               `json:"response_status"`
	ResponseBody    any               `json:"response_body,omitempty"`
	ResponseHeaders map[string]string `json:"response_headers,omitempty"`
	ExpectedStatus  int               `json:"expected_status"`
	Passed          bool              `json:"passed"`
}

// Result aggregates every step a scenario ran plus its overall outcome.
type Result struct {
	Name    string       `json:"name"`
	Steps   []StepResult `json:"steps"`
	Success bool         `json:"success"`
	Summary string       `json:"summary"`
}

// Runner issues HTTP calls against baseURL and records each as a step.
type Runner struct {
	baseURL string
	client  *http.Client
	steps   []StepResult
}

func NewRunner(baseURL string) *Runner {
	return &Runner{baseURL: baseURL, client: &http.Client{Timeout: 10 * time.Second}}
}

func (r *Runner) call(method, path, desc string, body any, expectedStatus int) (map[string]any, error) {
	return r.callWithHeaders(method, path, desc, body, nil, expectedStatus)
}

func (r *Runner) callWithHeaders(method, path, desc string, body any, headers map[string]string, expectedStatus int) (map[string]any, error) {
	step := StepResult{
		Step:           len(r.steps) + 1,
		Description:    desc,
		Method:         method,
		URL:            path,
		RequestBody:    body,
		ExpectedStatus: expectedStatus,
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, r.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	step.ResponseStatus = resp.StatusCode
	step.Passed = resp.StatusCode == expectedStatus
	step.ResponseHeaders = map[string]string{
		"X-Cache":     resp.Header.Get("X-Cache"),
		"X-Cache-Age": resp.Header.Get("X-Cache-Age"),
		"ETag":        resp.Header.Get("ETag"),
	}

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	step.ResponseBody = decoded

	r.steps = append(r.steps, step)
	return decoded, nil
}

func (r *Runner) result(name string) Result {
	success := true
	for _, s := range r.steps {
		if !s.Passed {
			success = false
			break
		}
	}
	return Result{
		Name:    name,
		Steps:   r.steps,
		Success: success,
		Summary: fmt.Sprintf("%d/%d steps passed", countPassed(r.steps), len(r.steps)),
	}
}

func countPassed(steps []StepResult) int {
	n := 0
	for _, s := range steps {
		if s.Passed {
			n++
		}
	}
	return n
}

func money(amount, currency string) map[string]any {
	return map[string]any{"amount": amount, "currency": currency}
}
