// ABOUTME: JSON-RPC 2.0 envelope types and MCP result shapes for the /mcp endpoint
// ABOUTME: Maps JSON-RPC error codes onto the HTTP statuses the endpoint returns

package mcp

import (
	"encoding/json"
	"net/http"
)

// latestProtocolVersion is the version we advertise in initialize responses
const latestProtocolVersion = "2025-11-25"

// ServerName identifies the gateway in initialize responses and /health.
const ServerName = "n8n-mcp-fixed"

// MaxRequestBodySize is the maximum allowed size for request bodies (1MB).
const MaxRequestBodySize = 1 << 20

// JSON-RPC 2.0 types

// JSONRPCRequest represents an inbound envelope. Method is a pointer so a
// missing key can be told apart from an empty string.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  *string         `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Standard JSON-RPC error codes
const (
	JSONRPCInvalidRequest = -32600
	JSONRPCMethodNotFound = -32601
	JSONRPCInvalidParams  = -32602
	JSONRPCInternalError  = -32603
)

// httpStatusFor returns the HTTP status sent alongside a JSON-RPC error code.
func httpStatusFor(code int) int {
	switch code {
	case JSONRPCInvalidRequest, JSONRPCMethodNotFound, JSONRPCInvalidParams:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// defaultID is mirrored back when the request carried no id.
var defaultID = json.RawMessage("0")

// responseID returns the id to mirror for a request id.
func responseID(id json.RawMessage) json.RawMessage {
	if !hasID(id) {
		return defaultID
	}
	return id
}

func hasID(id json.RawMessage) bool {
	return len(id) > 0 && string(id) != "null"
}

// MCP-specific types

// MCPCallToolParams are the params for tools/call.
type MCPCallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// MCPCallToolResult is the result for tools/call. It always holds exactly one
// text block.
type MCPCallToolResult struct {
	Content []MCPContent `json:"content"`
}

// MCPContent represents content in a tool result.
type MCPContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// textResult wraps a summary line in the tools/call result shape.
func textResult(text string) MCPCallToolResult {
	return MCPCallToolResult{Content: []MCPContent{{Type: "text", Text: text}}}
}
