// Package n8n is a thin client for the n8n public REST API.
//
// Every call targets <base URL>/api/v1<path>, carries the X-N8N-API-KEY
// header and is attempted exactly once. Statuses of 400 and above come back as
// *APIError with the response body included; transport failures are wrapped
// errors. Callers handle both the same way.
//
// Without an API key every call fails with ErrNotConfigured before touching
// the network.
package n8n
