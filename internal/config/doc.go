// Package config handles configuration loading for the n8n MCP gateway.
//
// # Overview
//
// Configuration is built once at process start and passed explicitly to the
// components that need it. The environment is always consulted; a config file
// is optional.
//
// # Environment
//
//	N8N_API_URL     backend base URL (default http://n8n:5678)
//	N8N_API_KEY     backend API key, sent as X-N8N-API-KEY
//	AUTH_TOKEN      shared bearer token required on /mcp
//	N8N_TIMEOUT     per backend call timeout (default 30s)
//	HTTP_ADDR       listen address (default 0.0.0.0:5000)
//	LOG_LEVEL       debug, info, warn or error
//	LOG_FORMAT      json or text
//	N8N_MCP_CONFIG  optional config file path
//
// # Configuration File
//
// YAML or TOML, chosen by extension. Values can reference environment
// variables with ${VAR_NAME}:
//
//	n8n:
//	  api_url: "http://n8n:5678"
//	  api_key: "${N8N_API_KEY}"
//	  timeout: "15s"
//	auth:
//	  token: "${AUTH_TOKEN}"
//
// Environment variables take precedence over file values.
//
// # Lazy Credentials
//
// A missing API key or auth token is not a load error. The gateway starts and
// reports the problem per request: backend calls fail with a configuration
// error and /mcp rejects every caller.
package config
