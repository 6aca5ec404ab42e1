// ABOUTME: Configuration loading for the n8n MCP gateway
// ABOUTME: Reads the environment and an optional YAML/TOML file with ${VAR} expansion

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Environment variables consumed by the gateway.
const (
	EnvN8NAPIURL  = "N8N_API_URL"
	EnvN8NAPIKey  = "N8N_API_KEY"
	EnvAuthToken  = "AUTH_TOKEN"
	EnvN8NTimeout = "N8N_TIMEOUT"
	EnvHTTPAddr   = "HTTP_ADDR"
	EnvLogLevel   = "LOG_LEVEL"
	EnvLogFormat  = "LOG_FORMAT"
	EnvConfigPath = "N8N_MCP_CONFIG"
)

// Defaults applied before the file and the environment are read.
const (
	DefaultN8NAPIURL  = "http://n8n:5678"
	DefaultHTTPAddr   = "0.0.0.0:5000"
	DefaultN8NTimeout = "30s"
)

// Config represents the complete gateway configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" toml:"server"`
	N8N     N8NConfig     `yaml:"n8n" toml:"n8n"`
	Auth    AuthConfig    `yaml:"auth" toml:"auth"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ServerConfig holds the listen address of the HTTP surface
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`
}

// N8NConfig holds the backend connection settings
type N8NConfig struct {
	APIURL string `yaml:"api_url" toml:"api_url"`
	// APIKey is sent as X-N8N-API-KEY. Empty means every backend call fails fast.
	APIKey string `yaml:"api_key" toml:"api_key"`

	Timeout    time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw string        `yaml:"timeout" toml:"timeout"`
}

// AuthConfig holds the shared bearer token callers must present.
// An empty token rejects every caller.
type AuthConfig struct {
	Token string `yaml:"token" toml:"token"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns a Config populated with built-in defaults only.
func Default() *Config {
	return &Config{
		Server: ServerConfig{HTTPAddr: DefaultHTTPAddr},
		N8N: N8NConfig{
			APIURL:     DefaultN8NAPIURL,
			TimeoutRaw: DefaultN8NTimeout,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// FromEnv builds a Config from defaults and the process environment.
// Nothing is validated: a missing API key or auth token is detected when a
// request needs it, so the gateway can start while misconfigured.
// Calling it repeatedly yields the same value for the same environment.
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnv()
	// The default timeout always parses; an invalid N8N_TIMEOUT falls back to it.
	if err := parseDurations(cfg); err != nil {
		cfg.N8N.TimeoutRaw = DefaultN8NTimeout
		cfg.N8N.Timeout, _ = time.ParseDuration(DefaultN8NTimeout)
	}
	return cfg
}

// Load reads a configuration file from the given path, then applies
// environment overrides. The format is chosen by extension: .toml is decoded
// as TOML, anything else as YAML. Environment variables in the format
// ${VAR_NAME} are expanded in the file before decoding.
// An empty path skips the file and behaves like FromEnv plus validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expanded := expandEnvVars(string(data))

		if strings.EqualFold(filepath.Ext(path), ".toml") {
			if _, err := toml.Decode(expanded, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		} else if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides file values with any environment variables that are set.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvN8NAPIURL); v != "" {
		c.N8N.APIURL = v
	}
	if v, ok := os.LookupEnv(EnvN8NAPIKey); ok {
		c.N8N.APIKey = v
	}
	if v, ok := os.LookupEnv(EnvAuthToken); ok {
		c.Auth.Token = v
	}
	if v := os.Getenv(EnvN8NTimeout); v != "" {
		c.N8N.TimeoutRaw = v
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.Server.HTTPAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks the ambient settings the process needs to boot.
// Backend and auth credentials are not checked; requests needing them fail instead.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.N8N.APIURL == "" {
		return fmt.Errorf("n8n.api_url is required")
	}
	u, err := url.Parse(c.N8N.APIURL)
	if err != nil {
		return fmt.Errorf("n8n.api_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("n8n.api_url must use http or https scheme")
	}

	if c.N8N.Timeout <= 0 {
		return fmt.Errorf("n8n.timeout must be positive")
	}

	return nil
}

// APIKeyConfigured reports whether backend calls can be attempted.
func (c *Config) APIKeyConfigured() bool {
	return c.N8N.APIKey != ""
}

// AuthConfigured reports whether a gateway token is set.
func (c *Config) AuthConfigured() bool {
	return c.Auth.Token != ""
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.N8N.TimeoutRaw == "" {
		cfg.N8N.TimeoutRaw = DefaultN8NTimeout
	}

	d, err := time.ParseDuration(cfg.N8N.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("parsing n8n.timeout %q: %w", cfg.N8N.TimeoutRaw, err)
	}
	cfg.N8N.Timeout = d

	return nil
}
