// ABOUTME: Typed workflow operations on top of the raw backend client
// ABOUTME: Builds creation payloads and projects opaque workflow JSON with gjson

package n8n

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

// WorkflowSettings is sent with every created workflow.
type WorkflowSettings struct {
	ExecutionOrder           string `json:"executionOrder"`
	SaveDataErrorExecution   string `json:"saveDataErrorExecution"`
	SaveDataSuccessExecution string `json:"saveDataSuccessExecution"`
	SaveManualExecutions     bool   `json:"saveManualExecutions"`
	SaveExecutionProgress    bool   `json:"saveExecutionProgress"`
}

// DefaultSettings returns the settings block n8n accepts for API-created workflows.
func DefaultSettings() WorkflowSettings {
	return WorkflowSettings{
		ExecutionOrder:           "v1",
		SaveDataErrorExecution:   "all",
		SaveDataSuccessExecution: "all",
		SaveManualExecutions:     true,
		SaveExecutionProgress:    true,
	}
}

// CreateWorkflowRequest is the POST /workflows payload.
// It has no active field: n8n treats active as read-only on creation.
type CreateWorkflowRequest struct {
	Name        string           `json:"name"`
	Nodes       []any            `json:"nodes"`
	Connections map[string]any   `json:"connections"`
	Settings    WorkflowSettings `json:"settings"`
}

// activateRequest is the PUT /workflows/{id} payload used for activation.
type activateRequest struct {
	Active bool `json:"active"`
}

// Workflow is the projection of a backend workflow the gateway reads.
// ID is empty when the backend omitted it.
type Workflow struct {
	ID        string
	Name      string
	Active    bool
	NodeCount int
	CreatedAt string
	UpdatedAt string
}

// parseWorkflow projects one workflow object. The id may be a string or a number.
func parseWorkflow(r gjson.Result) Workflow {
	return Workflow{
		ID:        r.Get("id").String(),
		Name:      r.Get("name").String(),
		Active:    r.Get("active").Bool(),
		NodeCount: len(r.Get("nodes").Array()),
		CreatedAt: r.Get("createdAt").String(),
		UpdatedAt: r.Get("updatedAt").String(),
	}
}

// CreateWorkflow creates an inactive workflow.
func (c *Client) CreateWorkflow(ctx context.Context, req CreateWorkflowRequest) (Workflow, error) {
	if req.Nodes == nil {
		req.Nodes = []any{}
	}
	if req.Connections == nil {
		req.Connections = map[string]any{}
	}

	data, err := c.Do(ctx, http.MethodPost, "/workflows", req)
	if err != nil {
		return Workflow{}, err
	}
	return parseWorkflow(gjson.ParseBytes(data)), nil
}

// ActivateWorkflow sets active=true on an existing workflow.
func (c *Client) ActivateWorkflow(ctx context.Context, id string) (Workflow, error) {
	if id == "" {
		return Workflow{}, fmt.Errorf("activating workflow: empty id")
	}

	data, err := c.Do(ctx, http.MethodPut, "/workflows/"+url.PathEscape(id), activateRequest{Active: true})
	if err != nil {
		return Workflow{}, err
	}
	return parseWorkflow(gjson.ParseBytes(data)), nil
}

// ListWorkflows returns the workflows in the response's data array.
// A response without data yields an empty list; a data value that is not an
// array is an error.
func (c *Client) ListWorkflows(ctx context.Context) ([]Workflow, error) {
	data, err := c.Do(ctx, http.MethodGet, "/workflows", nil)
	if err != nil {
		return nil, err
	}

	list := gjson.GetBytes(data, "data")
	if !list.Exists() || list.Type == gjson.Null {
		return []Workflow{}, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: data is not an array", ErrUnexpectedResponse)
	}

	items := list.Array()
	workflows := make([]Workflow, 0, len(items))
	for _, item := range items {
		workflows = append(workflows, parseWorkflow(item))
	}
	return workflows, nil
}

// GetWorkflow fetches one workflow by id.
func (c *Client) GetWorkflow(ctx context.Context, id string) (Workflow, error) {
	if id == "" {
		return Workflow{}, fmt.Errorf("getting workflow: empty id")
	}

	data, err := c.Do(ctx, http.MethodGet, "/workflows/"+url.PathEscape(id), nil)
	if err != nil {
		return Workflow{}, err
	}
	return parseWorkflow(gjson.ParseBytes(data)), nil
}
