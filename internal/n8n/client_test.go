// ABOUTME: Tests for the n8n REST client
// ABOUTME: Uses a recording fake backend to verify URLs, headers, payloads and failures

package n8n

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novasynth-ai/n8n-mcp-fixed/internal/n8n/n8ntest"
)

func newTestClient(t *testing.T, backend *n8ntest.Server) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL: backend.URL + "/",
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
}

func TestDo_NotConfigured(t *testing.T) {
	backend := n8ntest.NewServer(t)
	client := NewClient(Config{BaseURL: backend.URL})

	_, err := client.Do(context.Background(), http.MethodGet, "/workflows", nil)

	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, backend.Calls(), "no network call without an API key")
}

func TestDo_UnsupportedMethod(t *testing.T) {
	backend := n8ntest.NewServer(t)
	client := newTestClient(t, backend)

	_, err := client.Do(context.Background(), http.MethodPatch, "/workflows", nil)

	require.ErrorIs(t, err, ErrUnsupportedMethod)
	assert.Empty(t, backend.Calls())
}

func TestDo_HeadersAndURL(t *testing.T) {
	backend := n8ntest.NewServer(t)
	backend.Handle(http.MethodGet, "/api/v1/workflows", http.StatusOK, `{"data":[]}`)
	client := newTestClient(t, backend)

	data, err := client.Do(context.Background(), http.MethodGet, "/workflows", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(data))

	calls := backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/api/v1/workflows", calls[0].Path)
	assert.Equal(t, "test-key", calls[0].APIKey)
	assert.Nil(t, calls[0].Body)
}

func TestDo_BodyOnlyForPostAndPut(t *testing.T) {
	backend := n8ntest.NewServer(t)
	backend.Handle(http.MethodDelete, "/api/v1/workflows/1", http.StatusOK, `{}`)
	client := newTestClient(t, backend)

	_, err := client.Do(context.Background(), http.MethodDelete, "/workflows/1", map[string]any{"ignored": true})
	require.NoError(t, err)

	calls := backend.Calls()
	require.Len(t, calls, 1)
	assert.Nil(t, calls[0].Body)
}

func TestDo_ErrorStatus(t *testing.T) {
	backend := n8ntest.NewServer(t)
	backend.Handle(http.MethodPost, "/api/v1/workflows", http.StatusInternalServerError, `{"message":"boom"}`)
	client := newTestClient(t, backend)

	_, err := client.Do(context.Background(), http.MethodPost, "/workflows", map[string]any{"name": "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "500")
}

func TestDo_TransportError(t *testing.T) {
	backend := n8ntest.NewServer(t)
	url := backend.URL
	backend.Close()

	client := NewClient(Config{BaseURL: url, APIKey: "k", Timeout: time.Second})

	_, err := client.Do(context.Background(), http.MethodGet, "/workflows", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending request")
}

func TestDo_EmptyAndInvalidBodies(t *testing.T) {
	backend := n8ntest.NewServer(t)
	backend.Handle(http.MethodDelete, "/api/v1/workflows/1", http.StatusOK, ``)
	backend.Handle(http.MethodGet, "/api/v1/workflows/2", http.StatusOK, `not json`)
	client := newTestClient(t, backend)

	data, err := client.Do(context.Background(), http.MethodDelete, "/workflows/1", nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	_, err = client.Do(context.Background(), http.MethodGet, "/workflows/2", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestDo_IgnoresCallerCancellation(t *testing.T) {
	backend := n8ntest.NewServer(t)
	backend.Handle(http.MethodGet, "/api/v1/workflows", http.StatusOK, `{"data":[]}`)
	client := newTestClient(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Do(ctx, http.MethodGet, "/workflows", nil)
	require.NoError(t, err)
	assert.Len(t, backend.Calls(), 1)
}

func TestCreateWorkflow_Payload(t *testing.T) {
	backend := n8ntest.NewServer(t)
	backend.Handle(http.MethodPost, "/api/v1/workflows", http.StatusOK,
		`{"id":"wf-1","name":"Test","active":false,"nodes":[]}`)
	client := newTestClient(t, backend)

	wf, err := client.CreateWorkflow(context.Background(), CreateWorkflowRequest{
		Name:     "Test",
		Settings: DefaultSettings(),
	})
	require.NoError(t, err)
	assert.Equal(t, "wf-1", wf.ID)
	assert.Equal(t, "Test", wf.Name)

	calls := backend.Calls()
	require.Len(t, calls, 1)
	body := calls[0].Body
	assert.Equal(t, "Test", body["name"])
	assert.Equal(t, []any{}, body["nodes"])
	assert.Equal(t, map[string]any{}, body["connections"])
	assert.NotContains(t, body, "active")
	assert.Equal(t, map[string]any{
		"executionOrder":           "v1",
		"saveDataErrorExecution":   "all",
		"saveDataSuccessExecution": "all",
		"saveManualExecutions":     true,
		"saveExecutionProgress":    true,
	}, body["settings"])
}

func TestActivateWorkflow(t *testing.T) {
	backend := n8ntest.NewServer(t)
	backend.Handle(http.MethodPut, "/api/v1/workflows/wf-1", http.StatusOK, `{"id":"wf-1","active":true}`)
	client := newTestClient(t, backend)

	wf, err := client.ActivateWorkflow(context.Background(), "wf-1")
	require.NoError(t, err)
	assert.True(t, wf.Active)

	calls := backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"active": true}, calls[0].Body)
}

func TestListWorkflows(t *testing.T) {
	t.Run("projects data array", func(t *testing.T) {
		backend := n8ntest.NewServer(t)
		backend.Handle(http.MethodGet, "/api/v1/workflows", http.StatusOK, `{"data":[
			{"id":"1","name":"One","active":true,"createdAt":"c1","updatedAt":"u1"},
			{"id":7,"name":"Two"}
		]}`)
		client := newTestClient(t, backend)

		wfs, err := client.ListWorkflows(context.Background())
		require.NoError(t, err)
		require.Len(t, wfs, 2)
		assert.Equal(t, Workflow{ID: "1", Name: "One", Active: true, CreatedAt: "c1", UpdatedAt: "u1"}, wfs[0])
		assert.Equal(t, "7", wfs[1].ID)
		assert.False(t, wfs[1].Active)
	})

	t.Run("missing data is empty", func(t *testing.T) {
		backend := n8ntest.NewServer(t)
		backend.Handle(http.MethodGet, "/api/v1/workflows", http.StatusOK, `{}`)
		client := newTestClient(t, backend)

		wfs, err := client.ListWorkflows(context.Background())
		require.NoError(t, err)
		assert.Empty(t, wfs)
	})

	t.Run("null data is empty", func(t *testing.T) {
		backend := n8ntest.NewServer(t)
		backend.Handle(http.MethodGet, "/api/v1/workflows", http.StatusOK, `{"data":null}`)
		client := newTestClient(t, backend)

		wfs, err := client.ListWorkflows(context.Background())
		require.NoError(t, err)
		assert.Empty(t, wfs)
	})

	t.Run("non-array data is an error", func(t *testing.T) {
		backend := n8ntest.NewServer(t)
		backend.Handle(http.MethodGet, "/api/v1/workflows", http.StatusOK, `{"data":{"id":"1","name":"One"}}`)
		client := newTestClient(t, backend)

		wfs, err := client.ListWorkflows(context.Background())
		require.ErrorIs(t, err, ErrUnexpectedResponse)
		assert.Nil(t, wfs)
	})
}

func TestGetWorkflow(t *testing.T) {
	backend := n8ntest.NewServer(t)
	backend.Handle(http.MethodGet, "/api/v1/workflows/abc", http.StatusOK,
		`{"id":"abc","name":"Flow","active":true,"nodes":[{},{},{}],"createdAt":"c","updatedAt":"u"}`)
	client := newTestClient(t, backend)

	wf, err := client.GetWorkflow(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, Workflow{ID: "abc", Name: "Flow", Active: true, NodeCount: 3, CreatedAt: "c", UpdatedAt: "u"}, wf)

	_, err = client.GetWorkflow(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
