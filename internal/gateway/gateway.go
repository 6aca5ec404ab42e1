// ABOUTME: Gateway orchestrator that wires config, auth, the n8n client and the MCP server
// ABOUTME: Owns the HTTP router and the server lifecycle with graceful shutdown

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/novasynth-ai/n8n-mcp-fixed/internal/auth"
	"github.com/novasynth-ai/n8n-mcp-fixed/internal/config"
	"github.com/novasynth-ai/n8n-mcp-fixed/internal/mcp"
	"github.com/novasynth-ai/n8n-mcp-fixed/internal/n8n"
)

// shutdownTimeout bounds how long in-flight requests get on shutdown.
const shutdownTimeout = 5 * time.Second

// Gateway serves the MCP endpoint and its inspection routes.
type Gateway struct {
	config     *config.Config
	logger     *slog.Logger
	authn      *auth.StaticToken
	mcpServer  *mcp.Server
	router     chi.Router
	httpServer *http.Server

	// openAPI and docsHTML are rendered once; both routes are pure.
	openAPI  []byte
	docsHTML []byte
}

// New creates a Gateway from a fully loaded configuration.
func New(cfg *config.Config, logger *slog.Logger, version string) (*Gateway, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := n8n.NewClient(n8n.Config{
		BaseURL: cfg.N8N.APIURL,
		APIKey:  cfg.N8N.APIKey,
		Timeout: cfg.N8N.Timeout,
		Logger:  logger.With("component", "n8n"),
	})

	mcpServer, err := mcp.NewServer(mcp.Config{
		Backend: client,
		Logger:  logger.With("component", "mcp"),
		Version: version,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	openAPI, err := renderOpenAPI()
	if err != nil {
		return nil, fmt.Errorf("rendering OpenAPI document: %w", err)
	}
	docsHTML, err := renderDocs()
	if err != nil {
		return nil, fmt.Errorf("rendering docs: %w", err)
	}

	gw := &Gateway{
		config:    cfg,
		logger:    logger.With("component", "gateway"),
		authn:     auth.NewStaticToken(cfg.Auth.Token),
		mcpServer: mcpServer,
		openAPI:   openAPI,
		docsHTML:  docsHTML,
	}
	gw.router = gw.routes()

	gw.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           gw.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return gw, nil
}

// routes builds the HTTP surface. Only POST /mcp requires the bearer token.
func (g *Gateway) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(allowAllOrigins())

	r.Options("/mcp", handlePreflight)
	r.With(auth.RequireToken(g.authn, g.logger)).Post("/mcp", g.mcpServer.ServeHTTP)

	r.Get("/health", g.handleHealth)
	r.Get("/openapi.json", g.handleOpenAPI)
	r.Get("/docs", g.handleDocs)

	return r
}

// Handler returns the root HTTP handler.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Run listens on the configured address and serves until ctx is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}
	return g.Serve(ctx, ln)
}

// Serve serves on an existing listener until ctx is canceled.
func (g *Gateway) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		g.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := g.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		g.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := g.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := g.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	g.logger.Info("gateway stopped")
	return nil
}
