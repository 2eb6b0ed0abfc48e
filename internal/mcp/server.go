// Package mcp implements a JSON-RPC 2.0 tool server over stdin/stdout, the
// transport agent frameworks speak to register callable tools. It keeps a
// familiar wire format (request/response/error envelopes, line-delimited
// JSON, tools/list+tools/call dispatch) and generalizes the tool set from
// four purchase/reversal/refund/scenario tools driving a webhook endpoint to
// five agent-facing tools defined in this package, each one (apart from
// get_capabilities, which reads the in-process registry) a thin HTTP client
// call against a running server instance.
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/haxaco/payos-sub010/internal/capabilities"
)

const protocolVersion = "2024-11-05"

type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      any           `json:"id"`
	Result  any           `json:"result,omitempty"`
	Error   *jsonRPCError `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type toolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolCallResult struct {
	Content []contentItem `json:"content"`
}

// Server runs the tool-call JSON-RPC loop over stdin/stdout, dispatching
// each tool call to an HTTP request against baseURL.
type Server struct {
	baseURL  string
	registry *capabilities.Registry
	client   *apiClient
	logger   *slog.Logger
	writer   *bufio.Writer
}

// NewServer builds a server that calls baseURL for every tool invocation.
// registry backs the get_capabilities tool with the same catalog
// GET /v1/capabilities serves; tools/list is served from toolDefinitions.
func NewServer(baseURL string, registry *capabilities.Registry) *Server {
	return &Server{
		baseURL:  baseURL,
		registry: registry,
		client:   newAPIClient(baseURL),
		logger:   slog.New(slog.NewTextHandler(os.Stderr, nil)),
		writer:   bufio.NewWriter(os.Stdout),
	}
}

func (s *Server) Run() {
	s.logger.Info("mcp server started", "baseURL", s.baseURL)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req jsonRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Error("failed to parse request", "err", err)
			s.writeError(nil, -32700, "parse error")
			continue
		}
		s.logger.Info("request received", "method", req.Method, "id", req.ID)
		s.dispatch(req)
	}
	if err := scanner.Err(); err != nil {
		s.logger.Error("scanner error", "err", err)
	}
}

func (s *Server) dispatch(req jsonRPCRequest) {
	switch req.Method {
	case "initialize":
		s.writeResult(req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]any{"name": "payos-mcp", "version": "1.0.0"},
		})
	case "notifications/initialized":
	case "tools/list":
		s.writeResult(req.ID, map[string]any{"tools": s.toolDefinitions()})
	case "tools/call":
		s.handleToolCall(req)
	default:
		s.writeError(req.ID, -32601, fmt.Sprintf("method not found: %s", req.Method))
	}
}

func (s *Server) handleToolCall(req jsonRPCRequest) {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.writeError(req.ID, -32602, "invalid params")
		return
	}

	var resultText string
	var toolErr error

	switch params.Name {
	case "simulate_transfer":
		resultText, toolErr = s.toolSimulateTransfer(params.Arguments)
	case "simulate_refund":
		resultText, toolErr = s.toolSimulateRefund(params.Arguments)
	case "simulate_batch":
		resultText, toolErr = s.toolSimulateBatch(params.Arguments)
	case "execute_simulation":
		resultText, toolErr = s.toolExecuteSimulation(params.Arguments)
	case "get_capabilities":
		resultText, toolErr = s.toolGetCapabilities()
	default:
		s.writeError(req.ID, -32601, fmt.Sprintf("unknown tool: %s", params.Name))
		return
	}

	if toolErr != nil {
		s.writeError(req.ID, -32603, toolErr.Error())
		return
	}
	s.writeResult(req.ID, toolCallResult{Content: []contentItem{{Type: "text", Text: resultText}}})
}

// toolDefinitions hand-rolls the five agent-facing tools as a literal
// table. These are finer-grained than the raw capabilities catalog (one
// simulate_action operation covers both transfer and refund previews over
// HTTP); MCP callers get the friendlier, explicitly named split instead.
func (s *Server) toolDefinitions() []toolDefinition {
	return []toolDefinition{
		{
			Name:        "simulate_transfer",
			Description: "Preview a transfer between two accounts without executing it",
			InputSchema: schema(map[string]any{
				"from_account":         prop("string", "source account id"),
				"to_account":           prop("string", "destination account id"),
				"amount":               prop("object", "{amount, currency}"),
				"destination_currency": prop("string", "optional destination currency override"),
			}, "from_account", "to_account", "amount"),
		},
		{
			Name:        "simulate_refund",
			Description: "Preview a refund against a completed transfer without executing it",
			InputSchema: schema(map[string]any{
				"original_transfer_id": prop("string", "id of the completed transfer being refunded"),
				"amount":                prop("object", "{amount, currency}"),
				"reason":                prop("string", "refund reason code"),
			}, "original_transfer_id", "amount"),
		},
		{
			Name:        "simulate_batch",
			Description: "Preview a batch of transfers evaluated against cumulative balance",
			InputSchema: schema(map[string]any{
				"items":               prop("array", "list of transfer requests"),
				"stop_on_first_error": prop("boolean", "stop evaluating once an item fails"),
			}, "items"),
		},
		{
			Name:        "execute_simulation",
			Description: "Execute a previously created simulation by id",
			InputSchema: schema(map[string]any{
				"simulation_id": prop("string", "id returned by a simulate_* tool"),
			}, "simulation_id"),
		},
		{
			Name:        "get_capabilities",
			Description: "List every operation this server supports, with schemas and limits",
			InputSchema: schema(map[string]any{}),
		},
	}
}

func schema(properties map[string]any, required ...string) map[string]any {
	s := map[string]any{"type": "object"}
	if len(properties) > 0 {
		s["properties"] = properties
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func marshalResult(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Server) writeResult(id any, result any) {
	s.write(jsonRPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) writeError(id any, code int, message string) {
	s.write(jsonRPCResponse{JSONRPC: "2.0", ID: id, Error: &jsonRPCError{Code: code, Message: message}})
}

func (s *Server) write(resp jsonRPCResponse) {
	b, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to marshal response", "err", err)
		return
	}
	s.logger.Info("response sent", "id", resp.ID)
	s.writer.Write(b)
	s.writer.WriteByte('\n')
	s.writer.Flush()
}
