// ABOUTME: HTTP client for the n8n public REST API
// ABOUTME: Issues single-attempt calls with the API key header and uniform failures

package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// APIKeyHeader carries the backend API key on every request.
const APIKeyHeader = "X-N8N-API-KEY"

// apiPrefix is prepended to every endpoint path.
const apiPrefix = "/api/v1"

// DefaultTimeout bounds a single backend call when none is configured.
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps how much of a backend response is read.
const maxResponseSize = 10 << 20

var (
	// ErrNotConfigured is returned before any network call when no API key is set.
	ErrNotConfigured = errors.New("N8N_API_KEY not configured")
	// ErrUnsupportedMethod is returned for verbs other than GET, POST, PUT and DELETE.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
	// ErrUnexpectedResponse is returned when valid JSON has the wrong shape.
	ErrUnexpectedResponse = errors.New("unexpected n8n response")
)

// APIError is returned when the backend answers with a status of 400 or above.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("n8n API error: status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Config holds the settings for a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to one n8n instance. It holds no mutable state and is safe
// for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a new backend client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: timeout,
		client:  httpClient,
		logger:  logger,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Do issues one call to <baseURL>/api/v1<path> and returns the response body.
// The body argument is JSON-encoded and sent only for POST and PUT.
//
// The call is detached from ctx cancellation: once issued it runs until the
// backend answers or the client timeout expires. There is no retry.
func (c *Client) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	url := c.baseURL + apiPrefix + path

	var reader io.Reader
	if body != nil && (method == http.MethodPost || method == http.MethodPut) {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(payload)
		c.logger.Debug("n8n request body", "method", method, "url", url, "body", string(payload))
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Info("making n8n request", "method", method, "url", url)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("n8n request failed", "method", method, "url", url, "error", err)
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Info("n8n response", "method", method, "url", url, "status", resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Error("n8n API error", "status", resp.StatusCode, "body", string(data))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []byte("{}"), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decoding response: invalid JSON from %s %s", method, path)
	}

	return data, nil
}
