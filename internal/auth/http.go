// ABOUTME: HTTP middleware enforcing the shared bearer token
// ABOUTME: Rejects with a plain 401 {"error":"Unauthorized"} before any body parsing

package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// unauthorizedBody is the only body ever sent on an auth failure. It does not
// reveal whether a token is configured on the gateway.
var unauthorizedBody = map[string]string{"error": "Unauthorized"}

// RequireToken creates an HTTP middleware that only lets authenticated
// requests through. Failures never reach the wrapped handler.
func RequireToken(a Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.Authenticate(r.Header.Get("Authorization")) {
				logger.Warn("unauthorized request",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				WriteUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WriteUnauthorized writes the plain 401 response.
func WriteUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(unauthorizedBody)
}
