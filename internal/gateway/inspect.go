// ABOUTME: Unauthenticated inspection routes: /health, /openapi.json and /docs
// ABOUTME: Responses depend only on configuration and are rendered once at startup

package gateway

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/novasynth-ai/n8n-mcp-fixed/internal/mcp"
)

//go:embed docs/usage.md
var usageMarkdown []byte

// HealthResponse is the /health body.
type HealthResponse struct {
	Status         string `json:"status"`
	Service        string `json:"service"`
	N8NConfigured  bool   `json:"n8n_configured"`
	AuthConfigured bool   `json:"auth_configured"`
}

// handleHealth reports liveness and whether credentials are configured.
// The credentials themselves are never included.
func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:         "healthy",
		Service:        mcp.ServerName,
		N8NConfigured:  g.config.APIKeyConfigured(),
		AuthConfigured: g.config.AuthConfigured(),
	})
}

func (g *Gateway) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(g.openAPI)
}

func (g *Gateway) handleDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(g.docsHTML)
}

// renderOpenAPI returns the static OpenAPI 3.0 document describing /mcp.
func renderOpenAPI() ([]byte, error) {
	objectSchema := map[string]any{"type": "object"}
	doc := map[string]any{
		"openapi": "3.0.0",
		"info": map[string]any{
			"title":       "n8n MCP Server (Fixed)",
			"version":     "1.0.0",
			"description": "Fixed n8n MCP server that properly persists workflows",
		},
		"servers": []any{
			map[string]any{"url": "/"},
		},
		"paths": map[string]any{
			"/mcp": map[string]any{
				"post": map[string]any{
					"summary":     "Handle MCP requests",
					"operationId": "handle_mcp_request",
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{"schema": objectSchema},
						},
					},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "Successful response",
							"content": map[string]any{
								"application/json": map[string]any{"schema": objectSchema},
							},
						},
					},
					"security": []any{
						map[string]any{"bearerAuth": []any{}},
					},
				},
			},
		},
		"components": map[string]any{
			"securitySchemes": map[string]any{
				"bearerAuth": map[string]any{
					"type":   "http",
					"scheme": "bearer",
				},
			},
		},
	}
	return json.Marshal(doc)
}

// markdown renders GitHub-flavored tables in the usage guide.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Content}}
</body>
</html>
`))

// renderDocs converts the embedded usage guide plus a generated tool
// reference from markdown to a standalone HTML page.
func renderDocs() ([]byte, error) {
	var md bytes.Buffer
	md.Write(usageMarkdown)
	md.WriteString("\n## Tools\n")
	for _, tool := range mcp.Catalog() {
		var schema bytes.Buffer
		if err := json.Indent(&schema, tool.RawInputSchema, "", "  "); err != nil {
			return nil, fmt.Errorf("formatting schema for %s: %w", tool.Name, err)
		}
		fmt.Fprintf(&md, "\n### `%s`\n\n%s\n\n```json\n%s\n```\n", tool.Name, tool.Description, schema.String())
	}

	var htmlBuf bytes.Buffer
	if err := markdown.Convert(md.Bytes(), &htmlBuf); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	var page bytes.Buffer
	err := docsPage.Execute(&page, struct {
		Title   string
		Content template.HTML
	}{
		Title:   "n8n MCP Server (Fixed)",
		Content: template.HTML(htmlBuf.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering docs page: %w", err)
	}
	return page.Bytes(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
