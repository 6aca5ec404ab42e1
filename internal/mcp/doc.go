// Package mcp implements the Model Context Protocol endpoint that fronts n8n.
//
// # Overview
//
// The gateway speaks JSON-RPC 2.0 over a single HTTP POST route. It answers
// initialize and tools/list locally and turns tools/call into calls against
// the n8n REST API.
//
// # Protocol
//
//   - initialize - protocol version, an empty tools capability and server info
//   - tools/list - the static tool catalog
//   - tools/call - run one tool by name
//
// Responses mirror the request id (0 when absent) and hold exactly one of
// result or error. A tools/call result is always a single text block:
//
//	{"content": [{"type": "text", "text": "Found 2 workflows:\n..."}]}
//
// # Errors
//
// Error codes and the HTTP status sent with them:
//
//	-32600 invalid request     400
//	-32601 unknown method/tool 400
//	-32602 invalid params      400
//	-32603 internal / backend  500
//
// A body that is not JSON at all is reported as -32603 with the parse error.
//
// Authentication failures are handled before this package sees the request
// and are never JSON-RPC shaped.
//
// # Tools
//
//   - n8n_create_workflow - POST /workflows, then PUT {active: true} when
//     "active" is set. A failed activation is logged and the created workflow
//     is still reported.
//   - n8n_list_workflows - GET /workflows
//   - n8n_get_workflow - GET /workflows/{id}
//
// Omitted arguments get their defaults before validation against the tool's
// input schema.
package mcp
