// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers env defaults, YAML/TOML files, env var expansion and overrides

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the package reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvN8NAPIURL, EnvN8NAPIKey, EnvAuthToken, EnvN8NTimeout,
		EnvHTTPAddr, EnvLogLevel, EnvLogFormat, EnvConfigPath,
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()

	assert.Equal(t, "http://n8n:5678", cfg.N8N.APIURL)
	assert.Empty(t, cfg.N8N.APIKey)
	assert.Empty(t, cfg.Auth.Token)
	assert.Equal(t, DefaultHTTPAddr, cfg.Server.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.N8N.Timeout)
	assert.False(t, cfg.APIKeyConfigured())
	assert.False(t, cfg.AuthConfigured())
}

func TestFromEnv_ReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvN8NAPIURL, "http://localhost:5678")
	t.Setenv(EnvN8NAPIKey, "key-123")
	t.Setenv(EnvAuthToken, "secret")
	t.Setenv(EnvN8NTimeout, "5s")

	cfg := FromEnv()

	assert.Equal(t, "http://localhost:5678", cfg.N8N.APIURL)
	assert.Equal(t, "key-123", cfg.N8N.APIKey)
	assert.Equal(t, "secret", cfg.Auth.Token)
	assert.Equal(t, 5*time.Second, cfg.N8N.Timeout)
	assert.True(t, cfg.APIKeyConfigured())
	assert.True(t, cfg.AuthConfigured())
}

func TestFromEnv_Repeatable(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvN8NAPIKey, "key")

	assert.Equal(t, FromEnv(), FromEnv())
}

func TestFromEnv_InvalidTimeoutFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvN8NTimeout, "soon")

	cfg := FromEnv()

	assert.Equal(t, 30*time.Second, cfg.N8N.Timeout)
}

func TestLoad_EmptyPathUsesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAuthToken, "tok")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.Auth.Token)
	assert.Equal(t, DefaultN8NAPIURL, cfg.N8N.APIURL)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_N8N_KEY", "from-env")

	path := writeConfig(t, "gateway.yaml", `
server:
  http_addr: "127.0.0.1:9000"
n8n:
  api_url: "https://n8n.example.com"
  api_key: "${TEST_N8N_KEY}"
  timeout: "10s"
auth:
  token: "file-token"
logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddr)
	assert.Equal(t, "https://n8n.example.com", cfg.N8N.APIURL)
	assert.Equal(t, "from-env", cfg.N8N.APIKey)
	assert.Equal(t, 10*time.Second, cfg.N8N.Timeout)
	assert.Equal(t, "file-token", cfg.Auth.Token)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_TOML(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "gateway.toml", `
[n8n]
api_url = "http://10.0.0.5:5678"
api_key = "toml-key"

[auth]
token = "toml-token"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:5678", cfg.N8N.APIURL)
	assert.Equal(t, "toml-key", cfg.N8N.APIKey)
	assert.Equal(t, "toml-token", cfg.Auth.Token)
	assert.Equal(t, DefaultHTTPAddr, cfg.Server.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.N8N.Timeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAuthToken, "env-token")
	t.Setenv(EnvN8NAPIURL, "http://override:5678")

	path := writeConfig(t, "gateway.yaml", `
n8n:
  api_url: "http://file:5678"
auth:
  token: "file-token"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Auth.Token)
	assert.Equal(t, "http://override:5678", cfg.N8N.APIURL)
}

func TestLoad_MissingCredentialsIsNotAnError(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "gateway.yaml", "server:\n  http_addr: \":8080\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.APIKeyConfigured())
	assert.False(t, cfg.AuthConfigured())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			file:    "bad.yaml",
			content: "server: [unclosed",
			wantErr: "parsing config file",
		},
		{
			name:    "invalid toml",
			file:    "bad.toml",
			content: "[n8n\napi_url = 1",
			wantErr: "parsing config file",
		},
		{
			name:    "invalid timeout",
			file:    "timeout.yaml",
			content: "n8n:\n  timeout: \"forever\"\n",
			wantErr: "parsing n8n.timeout",
		},
		{
			name:    "non-http backend url",
			file:    "scheme.yaml",
			content: "n8n:\n  api_url: \"ftp://n8n\"\n",
			wantErr: "must use http or https",
		},
		{
			name:    "zero timeout",
			file:    "zero.yaml",
			content: "n8n:\n  timeout: \"0s\"\n",
			wantErr: "n8n.timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeConfig(t, tt.file, tt.content)

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("EXPAND_ME", "value")

	assert.Equal(t, "a=value b=", expandEnvVars("a=${EXPAND_ME} b=${EXPAND_UNSET_VAR}"))
}
