package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/haxaco/payos-sub010/internal/capabilities"
)

func (s *Server) toolSimulateTransfer(args json.RawMessage) (string, error) {
	var req struct {
		FromAccount         string         `json:"from_account"`
		ToAccount           string         `json:"to_account"`
		Amount              map[string]any `json:"amount"`
		DestinationCurrency string         `json:"destination_currency,omitempty"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	body := map[string]any{
		"action_type": "transfer",
		"transfer": map[string]any{
			"from_account":         req.FromAccount,
			"to_account":           req.ToAccount,
			"amount":               req.Amount,
			"destination_currency": req.DestinationCurrency,
		},
	}
	decoded, _, err := s.client.do("POST", "/v1/simulate", body)
	if err != nil {
		return "", err
	}
	return marshalResult(decoded)
}

func (s *Server) toolSimulateRefund(args json.RawMessage) (string, error) {
	var req struct {
		OriginalTransferID string         `json:"original_transfer_id"`
		Amount             map[string]any `json:"amount"`
		Reason             string         `json:"reason,omitempty"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if req.OriginalTransferID == "" {
		return "", fmt.Errorf("original_transfer_id is required")
	}
	body := map[string]any{
		"action_type": "refund",
		"refund": map[string]any{
			"original_transfer_id": req.OriginalTransferID,
			"amount":               req.Amount,
			"reason":               req.Reason,
		},
	}
	decoded, _, err := s.client.do("POST", "/v1/simulate", body)
	if err != nil {
		return "", err
	}
	return marshalResult(decoded)
}

func (s *Server) toolSimulateBatch(args json.RawMessage) (string, error) {
	var req struct {
		Items            []map[string]any `json:"items"`
		StopOnFirstError bool              `json:"stop_on_first_error"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if len(req.Items) == 0 {
		return "", fmt.Errorf("items must not be empty")
	}
	decoded, _, err := s.client.do("POST", "/v1/simulate/batch", map[string]any{
		"items":               req.Items,
		"stop_on_first_error": req.StopOnFirstError,
	})
	if err != nil {
		return "", err
	}
	return marshalResult(decoded)
}

func (s *Server) toolExecuteSimulation(args json.RawMessage) (string, error) {
	var req struct {
		SimulationID string `json:"simulation_id"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if req.SimulationID == "" {
		return "", fmt.Errorf("simulation_id is required")
	}
	decoded, _, err := s.client.do("POST", "/v1/simulate/"+req.SimulationID+"/execute", nil)
	if err != nil {
		return "", err
	}
	return marshalResult(decoded)
}

// toolGetCapabilities serves straight from the in-process registry rather
// than a round trip, since the MCP server and the catalog it advertises are
// always built from the same binary's capabilities.Registry.
func (s *Server) toolGetCapabilities() (string, error) {
	body, _ := s.registry.Get("default", renderCatalogJSON)
	return string(body), nil
}

func renderCatalogJSON(c capabilities.Catalog) []byte {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return []byte(`{}`)
	}
	return b
}
