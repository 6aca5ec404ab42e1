// Package auth provides the bearer token check that guards the MCP endpoint.
//
// # Model
//
// The gateway has exactly one credential: a shared token configured through
// AUTH_TOKEN. Callers send it as
//
//	Authorization: Bearer <token>
//
// or as the bare token value. The comparison is exact and case-sensitive.
//
// # Fail Closed
//
// When no token is configured every request is rejected. There is no open
// mode.
//
// # HTTP Middleware
//
//	authn := auth.NewStaticToken(cfg.Auth.Token)
//	r.With(auth.RequireToken(authn, logger)).Post("/mcp", handler)
//
// Rejections are a plain HTTP 401 with body {"error":"Unauthorized"}; they are
// never wrapped in a JSON-RPC envelope.
package auth
