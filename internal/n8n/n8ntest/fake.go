// ABOUTME: Fake n8n backend for tests
// ABOUTME: Serves canned responses per route and records every call in order

package n8ntest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Call is one request received by the fake backend.
type Call struct {
	Method string
	Path   string
	APIKey string
	// Body is the decoded JSON body, nil when the request had none.
	Body map[string]any
}

type response struct {
	status int
	body   string
}

// Server is an httptest server that imitates the n8n REST API.
// Routes without a canned response answer 404.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []Call
	routes map[string]response
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{routes: make(map[string]response)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle sets the response for method and path, e.g. ("POST", "/api/v1/workflows").
func (s *Server) Handle(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = response{status: status, body: body}
}

// Calls returns a copy of the recorded calls in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	call := Call{
		Method: r.Method,
		Path:   r.URL.Path,
		APIKey: r.Header.Get("X-N8N-API-KEY"),
	}
	if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
		var body map[string]any
		if json.Unmarshal(data, &body) == nil {
			call.Body = body
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	resp, ok := s.routes[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"not found"}`)
		return
	}
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}
