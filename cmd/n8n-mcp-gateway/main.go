// ABOUTME: Entry point for the n8n MCP gateway
// ABOUTME: Serves the MCP endpoint and offers health, tools and version subcommands

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/novasynth-ai/n8n-mcp-fixed/internal/config"
	"github.com/novasynth-ai/n8n-mcp-fixed/internal/gateway"
	"github.com/novasynth-ai/n8n-mcp-fixed/internal/mcp"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
        ___                                                    _
 _ __  ( _ ) _ __        _ __ ___   ___ _ __         __ _  __ _| |_ _____      ____ _ _   _
| '_ \ / _ \| '_ \ _____| '_ ' _ \ / __| '_ \ _____ / _' |/ _' | __/ _ \ \ /\ / / _' | | | |
| | | | (_) | | | |_____| | | | | | (__| |_) |_____| (_| | (_| | ||  __/\ V  V / (_| | |_| |
|_| |_|\___/|_| |_|     |_| |_| |_|\___| .__/       \__, |\__,_|\__\___| \_/\_/ \__,_|\__, |
                                       |_|          |___/                             |___/
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: n8n-mcp-gateway <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve     Start the gateway server")
		fmt.Println("  health    Check gateway health")
		fmt.Println("  tools     Print the MCP tool catalog")
		fmt.Println("  version   Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "health":
		err = runHealth(ctx, os.Stdout)
	case "tools":
		err = runTools(os.Stdout)
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the optional file named by N8N_MCP_CONFIG, then the environment.
func loadConfig() (*config.Config, string, error) {
	configPath := os.Getenv(config.EnvConfigPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, configPath, fmt.Errorf("loading config: %w", err)
	}
	return cfg, configPath, nil
}

func runServe(ctx context.Context) error {
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, configPath, err := loadConfig()
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	if configPath != "" {
		green.Print("    ▶ ")
		fmt.Printf("Config:    %s\n", configPath)
	}
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("n8n:       %s\n", cfg.N8N.APIURL)

	if !cfg.APIKeyConfigured() {
		yellow.Print("    ! ")
		fmt.Printf("%s not set, tool calls will fail\n", config.EnvN8NAPIKey)
	}
	if !cfg.AuthConfigured() {
		yellow.Print("    ! ")
		fmt.Printf("%s not set, every /mcp request will be rejected\n", config.EnvAuthToken)
	}

	fmt.Println()

	logger.Info("starting n8n-mcp-gateway",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"n8n_url", cfg.N8N.APIURL,
		"n8n_timeout", cfg.N8N.Timeout,
		"api_key_configured", cfg.APIKeyConfigured(),
		"auth_configured", cfg.AuthConfigured(),
	)

	gw, err := gateway.New(cfg, logger, version)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.Run(ctx)
}

func runHealth(ctx context.Context, out io.Writer) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL(cfg.Server.HTTPAddr), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	var health gateway.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("decoding health response: %w", err)
	}

	fmt.Fprintln(out, health.Status)
	fmt.Fprintf(out, "  n8n configured:  %t\n", health.N8NConfigured)
	fmt.Fprintf(out, "  auth configured: %t\n", health.AuthConfigured)
	return nil
}

// healthURL turns a listen address into a dialable URL. Wildcard hosts are
// replaced with loopback.
func healthURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Sprintf("http://%s/health", addr)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s/health", net.JoinHostPort(host, port))
}

func runTools(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"tools": mcp.Catalog()}); err != nil {
		return fmt.Errorf("encoding tool catalog: %w", err)
	}
	return nil
}
