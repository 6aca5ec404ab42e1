// Package gateway assembles the HTTP surface of the n8n MCP gateway.
//
// # Routes
//
//   - POST /mcp - MCP JSON-RPC endpoint, bearer token required
//   - OPTIONS /mcp - CORS preflight, no auth
//   - GET /health - status plus whether n8n and auth are configured
//   - GET /openapi.json - static OpenAPI 3.0 document for /mcp
//   - GET /docs - HTML usage guide and tool reference
//
// # Lifecycle
//
//	gw, err := gateway.New(cfg, logger, version)
//	if err != nil {
//		return err
//	}
//	return gw.Run(ctx) // blocks until ctx is canceled, then shuts down gracefully
//
// The gateway holds no mutable state after construction; every request is
// handled independently.
package gateway
