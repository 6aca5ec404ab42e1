// ABOUTME: MCP JSON-RPC endpoint that routes initialize, tools/list and tools/call
// ABOUTME: Every path ends in one envelope; panics become -32603 internal errors

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Config holds configuration for the MCP server.
type Config struct {
	Backend WorkflowBackend
	Logger  *slog.Logger
	Version string // reported in serverInfo
}

// Server implements the /mcp endpoint. It holds no per-request state and is
// safe for concurrent use.
type Server struct {
	backend WorkflowBackend
	logger  *slog.Logger
	version string
	tools   map[string]*toolEntry
	methods map[string]methodHandler
}

// methodHandler produces either a result or an error for one envelope.
type methodHandler func(ctx context.Context, req JSONRPCRequest) (any, *JSONRPCError)

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Backend == nil {
		return nil, errors.New("backend is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	version := cfg.Version
	if version == "" {
		version = "1.0.0"
	}

	s := &Server{
		backend: cfg.Backend,
		logger:  logger,
		version: version,
	}

	tools, err := newToolTable(map[string]ToolHandler{
		ToolCreateWorkflow: s.handleCreateWorkflow,
		ToolListWorkflows:  s.handleListWorkflows,
		ToolGetWorkflow:    s.handleGetWorkflow,
	})
	if err != nil {
		return nil, err
	}
	s.tools = tools

	s.methods = map[string]methodHandler{
		"initialize": s.handleInitialize,
		"tools/list": s.handleToolsList,
		"tools/call": s.handleToolsCall,
	}

	return s, nil
}

// ServeHTTP handles POST /mcp. Authentication is applied by the caller's
// middleware before this runs.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		s.sendJSONRPCError(w, nil, JSONRPCInternalError, "Failed to read request body: "+err.Error())
		return
	}
	if int64(len(body)) > MaxRequestBodySize {
		s.sendJSONRPCError(w, nil, JSONRPCInvalidRequest, "request body too large")
		return
	}

	status, resp := s.Handle(r.Context(), body)
	if resp == nil {
		w.WriteHeader(status)
		return
	}
	s.writeResponse(w, status, resp)
}

// Handle dispatches one raw request body and returns the HTTP status and the
// envelope to send. A nil envelope means an accepted notification (no body).
func (s *Server) Handle(ctx context.Context, body []byte) (status int, resp *JSONRPCResponse) {
	var id json.RawMessage

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("panic handling MCP request", "panic", rec)
			status, resp = errorResponse(id, JSONRPCInternalError, fmt.Sprint(rec))
		}
	}()

	// An unreadable body is an internal error, like any other failure before routing.
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		s.logger.Warn("unparseable MCP request body", "error", err)
		return errorResponse(nil, JSONRPCInternalError, "Failed to parse request body: "+err.Error())
	}

	var req JSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return errorResponse(nil, JSONRPCInvalidRequest, "Invalid MCP request format")
	}
	id = req.ID

	if req.Method == nil {
		s.logger.Warn("invalid MCP request format")
		return errorResponse(id, JSONRPCInvalidRequest, "Invalid MCP request format")
	}
	method := *req.Method

	s.logger.Debug("MCP request", "method", method, "id", string(req.ID))

	// Notifications expect no response body.
	if !hasID(req.ID) && strings.HasPrefix(method, "notifications/") {
		s.logger.Debug("accepted MCP notification", "method", method)
		return http.StatusAccepted, nil
	}

	handler, ok := s.methods[method]
	if !ok {
		s.logger.Warn("unknown MCP method", "method", method)
		return errorResponse(id, JSONRPCMethodNotFound, "Unknown method: "+method)
	}

	result, rpcErr := handler(ctx, req)
	if rpcErr != nil {
		return errorResponse(id, rpcErr.Code, rpcErr.Message)
	}

	return http.StatusOK, &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      responseID(id),
		Result:  result,
	}
}

// handleInitialize returns the static capabilities and server info.
func (s *Server) handleInitialize(_ context.Context, _ JSONRPCRequest) (any, *JSONRPCError) {
	return map[string]any{
		"protocolVersion": latestProtocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    ServerName,
			"version": s.version,
		},
	}, nil
}

// handleToolsList returns the static tool catalog.
func (s *Server) handleToolsList(_ context.Context, _ JSONRPCRequest) (any, *JSONRPCError) {
	return map[string]any{"tools": Catalog()}, nil
}

// handleToolsCall routes a tools/call to the named tool's handler.
func (s *Server) handleToolsCall(ctx context.Context, req JSONRPCRequest) (any, *JSONRPCError) {
	if len(req.Params) == 0 || string(req.Params) == "null" {
		return nil, &JSONRPCError{Code: JSONRPCInvalidParams, Message: "Missing params in tool call"}
	}

	var params MCPCallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, &JSONRPCError{Code: JSONRPCInvalidParams, Message: "invalid params"}
	}

	tool, ok := s.tools[params.Name]
	if !ok {
		s.logger.Warn("unknown tool", "tool_name", params.Name)
		return nil, &JSONRPCError{Code: JSONRPCMethodNotFound, Message: "Unknown tool: " + params.Name}
	}

	args, err := tool.prepareArguments(params.Arguments)
	if err != nil {
		return nil, toRPCError(err)
	}

	// Generate request ID for correlation
	requestID := uuid.New().String()
	logger := s.logger.With("tool_name", params.Name, "request_id", requestID)
	logger.Info("calling tool")

	outcome, err := tool.handler(ctx, args)
	if err != nil {
		logger.Error("tool call failed", "error", err)
		return nil, toRPCError(err)
	}
	for _, warning := range outcome.Warnings {
		logger.Warn("tool call completed with warning", "warning", warning)
	}

	logger.Debug("tool call complete")
	return textResult(outcome.Text), nil
}

// toRPCError converts a handler error into a JSON-RPC error object.
// Errors without a code are internal errors carrying their message.
func toRPCError(err error) *JSONRPCError {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return &JSONRPCError{Code: toolErr.Code, Message: toolErr.Message}
	}
	return &JSONRPCError{Code: JSONRPCInternalError, Message: err.Error()}
}

func errorResponse(id json.RawMessage, code int, message string) (int, *JSONRPCResponse) {
	return httpStatusFor(code), &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      responseID(id),
		Error:   &JSONRPCError{Code: code, Message: message},
	}
}

// sendJSONRPCError sends a JSON-RPC error response with the mapped HTTP status.
func (s *Server) sendJSONRPCError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	status, resp := errorResponse(id, code, message)
	s.writeResponse(w, status, resp)
}

func (s *Server) writeResponse(w http.ResponseWriter, status int, resp *JSONRPCResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to encode JSON-RPC response", "error", err)
	}
}
