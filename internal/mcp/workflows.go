// ABOUTME: Tool handlers that translate tools/call into n8n workflow API calls
// ABOUTME: Create runs a best-effort activation step whose failure is only a warning

package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/novasynth-ai/n8n-mcp-fixed/internal/n8n"
)

// WorkflowBackend is the subset of the n8n client the tool handlers use.
type WorkflowBackend interface {
	CreateWorkflow(ctx context.Context, req n8n.CreateWorkflowRequest) (n8n.Workflow, error)
	ActivateWorkflow(ctx context.Context, id string) (n8n.Workflow, error)
	ListWorkflows(ctx context.Context) ([]n8n.Workflow, error)
	GetWorkflow(ctx context.Context, id string) (n8n.Workflow, error)
}

// CreateWorkflowInput holds the validated arguments of n8n_create_workflow.
type CreateWorkflowInput struct {
	Name        string
	Nodes       []any
	Connections map[string]any
	Activate    bool
}

// CreateWorkflowResult is the outcome of a create call. Workflow is the
// activated workflow when activation succeeded, otherwise the created one.
// ActivationErr is set when activation was requested and failed; the
// workflow still exists in that case.
type CreateWorkflowResult struct {
	Workflow      n8n.Workflow
	Activated     bool
	ActivationErr error
}

// CreateWorkflow creates the workflow and, if requested and an id came back,
// activates it in a second call. Only the creation call can fail the operation.
func (s *Server) CreateWorkflow(ctx context.Context, in CreateWorkflowInput) (CreateWorkflowResult, error) {
	created, err := s.backend.CreateWorkflow(ctx, n8n.CreateWorkflowRequest{
		Name:        in.Name,
		Nodes:       in.Nodes,
		Connections: in.Connections,
		Settings:    n8n.DefaultSettings(),
	})
	if err != nil {
		return CreateWorkflowResult{}, err
	}

	result := CreateWorkflowResult{Workflow: created}
	if !in.Activate || created.ID == "" {
		return result, nil
	}

	s.logger.Info("activating workflow", "workflow_id", created.ID)
	activated, err := s.backend.ActivateWorkflow(ctx, created.ID)
	if err != nil {
		s.logger.Warn("failed to activate workflow", "workflow_id", created.ID, "error", err)
		result.ActivationErr = err
		return result, nil
	}

	// The activation response may omit fields the creation response carried.
	if activated.ID == "" {
		activated.ID = created.ID
	}
	if activated.Name == "" {
		activated.Name = created.Name
	}
	result.Workflow = activated
	result.Activated = true
	return result, nil
}

func (s *Server) handleCreateWorkflow(ctx context.Context, args map[string]any) (ToolOutcome, error) {
	in := CreateWorkflowInput{
		Name:        args["name"].(string),
		Nodes:       args["nodes"].([]any),
		Connections: args["connections"].(map[string]any),
		Activate:    args["active"].(bool),
	}

	result, err := s.CreateWorkflow(ctx, in)
	if err != nil {
		return ToolOutcome{}, internalError("Failed to create workflow: %v", err)
	}

	s.logger.Info("created workflow", "workflow_id", idOrUnknown(result.Workflow.ID))

	outcome := ToolOutcome{
		Text: fmt.Sprintf("Successfully created workflow '%s' with ID: %s", in.Name, idOrUnknown(result.Workflow.ID)),
	}
	if result.ActivationErr != nil {
		outcome.Warnings = append(outcome.Warnings, "activation failed: "+result.ActivationErr.Error())
	}
	return outcome, nil
}

func (s *Server) handleListWorkflows(ctx context.Context, _ map[string]any) (ToolOutcome, error) {
	workflows, err := s.backend.ListWorkflows(ctx)
	if err != nil {
		return ToolOutcome{}, internalError("Failed to list workflows: %v", err)
	}

	lines := make([]string, len(workflows))
	for i, wf := range workflows {
		lines[i] = fmt.Sprintf("- %s (ID: %s, Active: %t)", wf.Name, wf.ID, wf.Active)
	}

	return ToolOutcome{
		Text: fmt.Sprintf("Found %d workflows:\n", len(workflows)) + strings.Join(lines, "\n"),
	}, nil
}

func (s *Server) handleGetWorkflow(ctx context.Context, args map[string]any) (ToolOutcome, error) {
	id := workflowID(args["id"])
	if id == "" {
		return ToolOutcome{}, invalidParams("Workflow ID is required")
	}

	wf, err := s.backend.GetWorkflow(ctx, id)
	if err != nil {
		return ToolOutcome{}, internalError("Failed to get workflow: %v", err)
	}

	name := wf.Name
	if name == "" {
		name = "Unknown"
	}

	return ToolOutcome{
		Text: fmt.Sprintf("Workflow '%s' details:\nID: %s\nActive: %t\nNodes: %d\nCreated: %s\nUpdated: %s",
			name, wf.ID, wf.Active, wf.NodeCount, wf.CreatedAt, wf.UpdatedAt),
	}, nil
}

// workflowID renders a validated id argument. Integers are accepted for
// clients that send numeric ids.
func workflowID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

func idOrUnknown(id string) string {
	if id == "" {
		return "unknown"
	}
	return id
}
