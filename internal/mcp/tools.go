// ABOUTME: Static tool catalog and the name-to-handler lookup table for tools/call
// ABOUTME: Applies argument defaults and validates against each tool's JSON Schema

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/xeipuuv/gojsonschema"
)

// Tool names exposed through tools/call.
const (
	ToolCreateWorkflow = "n8n_create_workflow"
	ToolListWorkflows  = "n8n_list_workflows"
	ToolGetWorkflow    = "n8n_get_workflow"
)

// DefaultWorkflowName is used when n8n_create_workflow gets no name.
const DefaultWorkflowName = "Untitled Workflow"

// ToolHandler executes one tool with already validated arguments.
type ToolHandler func(ctx context.Context, args map[string]any) (ToolOutcome, error)

// ToolOutcome is a successful tool run. Warnings record secondary failures
// that did not fail the call; they are logged, never sent to the caller.
type ToolOutcome struct {
	Text     string
	Warnings []string
}

// ToolError is a tool failure carrying the JSON-RPC code to report.
type ToolError struct {
	Code    int
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

func invalidParams(format string, args ...any) *ToolError {
	return &ToolError{Code: JSONRPCInvalidParams, Message: fmt.Sprintf(format, args...)}
}

func internalError(format string, args ...any) *ToolError {
	return &ToolError{Code: JSONRPCInternalError, Message: fmt.Sprintf(format, args...)}
}

// toolSpec is the static description of one tool.
type toolSpec struct {
	name        string
	description string
	inputSchema string
	// defaults returns fresh values for omitted arguments, applied before validation.
	defaults func() map[string]any
}

var toolSpecs = []toolSpec{
	{
		name:        ToolCreateWorkflow,
		description: "Create a new workflow in n8n",
		inputSchema: `{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Workflow name"},
				"nodes": {"type": "array", "description": "Array of workflow nodes"},
				"connections": {"type": "object", "description": "Node connections"},
				"active": {"type": "boolean", "description": "Whether to activate the workflow"}
			},
			"required": ["name", "nodes", "connections"]
		}`,
		defaults: func() map[string]any {
			return map[string]any{
				"name":        DefaultWorkflowName,
				"nodes":       []any{},
				"connections": map[string]any{},
				"active":      false,
			}
		},
	},
	{
		name:        ToolListWorkflows,
		description: "List all workflows in n8n",
		inputSchema: `{"type": "object", "properties": {}}`,
	},
	{
		name:        ToolGetWorkflow,
		description: "Get a specific workflow by ID",
		inputSchema: `{
			"type": "object",
			"properties": {
				"id": {"type": ["string", "integer"], "description": "Workflow ID"}
			},
			"required": ["id"]
		}`,
	},
}

// catalog is built once; tools/list never changes between calls.
var catalog = buildCatalog()

func buildCatalog() []mcpgo.Tool {
	tools := make([]mcpgo.Tool, len(toolSpecs))
	for i, spec := range toolSpecs {
		tools[i] = mcpgo.NewToolWithRawSchema(spec.name, spec.description, compactJSON(spec.inputSchema))
	}
	return tools
}

// Catalog returns the tool definitions served by tools/list.
func Catalog() []mcpgo.Tool {
	out := make([]mcpgo.Tool, len(catalog))
	copy(out, catalog)
	return out
}

func compactJSON(s string) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		panic(fmt.Sprintf("mcp: invalid tool schema: %v", err))
	}
	return json.RawMessage(buf.Bytes())
}

// toolEntry binds a catalog entry to its compiled schema and handler.
type toolEntry struct {
	spec    toolSpec
	schema  *gojsonschema.Schema
	handler ToolHandler
}

// newToolTable compiles every catalog schema and pairs it with a handler.
// A catalog tool without a handler is a construction error.
func newToolTable(handlers map[string]ToolHandler) (map[string]*toolEntry, error) {
	table := make(map[string]*toolEntry, len(toolSpecs))
	for _, spec := range toolSpecs {
		handler, ok := handlers[spec.name]
		if !ok {
			return nil, fmt.Errorf("no handler for tool %q", spec.name)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(spec.inputSchema))
		if err != nil {
			return nil, fmt.Errorf("compiling schema for tool %q: %w", spec.name, err)
		}
		table[spec.name] = &toolEntry{spec: spec, schema: schema, handler: handler}
	}
	if len(handlers) != len(table) {
		return nil, fmt.Errorf("handlers registered for tools missing from the catalog")
	}
	return table, nil
}

// prepareArguments copies args, fills in defaults for omitted keys and
// validates the result. The caller's map is never modified.
func (t *toolEntry) prepareArguments(args map[string]any) (map[string]any, error) {
	prepared := make(map[string]any, len(args))
	for k, v := range args {
		prepared[k] = v
	}
	if t.spec.defaults != nil {
		for k, v := range t.spec.defaults() {
			if _, ok := prepared[k]; !ok {
				prepared[k] = v
			}
		}
	}

	result, err := t.schema.Validate(gojsonschema.NewGoLoader(prepared))
	if err != nil {
		return nil, invalidParams("Invalid arguments for %s: %v", t.spec.name, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.Field()+": "+e.Description())
		}
		sort.Strings(msgs)
		return nil, invalidParams("Invalid arguments for %s: %s", t.spec.name, strings.Join(msgs, "; "))
	}

	return prepared, nil
}
