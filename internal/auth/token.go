// ABOUTME: Shared bearer token verification for the MCP endpoint
// ABOUTME: Exact, case-sensitive match against a single configured token

package auth

import "strings"

// bearerPrefix is stripped from the Authorization header when present.
const bearerPrefix = "Bearer "

// Authenticator decides whether an Authorization header value grants access.
type Authenticator interface {
	Authenticate(authHeader string) bool
}

// StaticToken authenticates callers against one shared token.
// The zero value, or one built from an empty token, rejects everyone.
type StaticToken struct {
	token string
}

// NewStaticToken creates an authenticator for the given token.
func NewStaticToken(token string) *StaticToken {
	return &StaticToken{token: token}
}

// Configured reports whether a token is set.
func (s *StaticToken) Configured() bool {
	return s != nil && s.token != ""
}

// Authenticate returns true only when a token is configured and the header,
// with an optional "Bearer " prefix removed, equals it exactly.
func (s *StaticToken) Authenticate(authHeader string) bool {
	if authHeader == "" || !s.Configured() {
		return false
	}
	return ExtractToken(authHeader) == s.token
}

// ExtractToken strips an optional "Bearer " prefix from an Authorization header.
// Raw tokens without the prefix are returned unchanged.
func ExtractToken(authHeader string) string {
	return strings.TrimPrefix(authHeader, bearerPrefix)
}
