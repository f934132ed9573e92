package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresBackendURL(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("BACKEND_URL", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "BACKEND_URL")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("BACKEND_URL", "http://localhost:8001")
	t.Setenv("HTTP_ADDRESS", ":9090")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "chrome-extension://abc, https://app.example")
	t.Setenv("HTTP_RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8001", cfg.Backend.BaseURL)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 15*time.Minute, cfg.Session.TTL)
	require.Equal(t, StoreMemory, cfg.Session.Store)
	require.Equal(t, []string{"chrome-extension://abc", "https://app.example"}, cfg.HTTP.AllowedOrigins)
	require.False(t, cfg.HTTP.RateLimit.Enabled)
	require.False(t, cfg.CSRF.Enabled())
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":7000"
backend:
  baseUrl: "https://charts.example"
session:
  store: valkey
  ttl: 30m
  valkey:
    addr: "localhost:6379"
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("BACKEND_URL", "")
	t.Setenv("HTTP_ADDRESS", ":7100")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":7100", cfg.HTTP.Address)
	require.Equal(t, "https://charts.example", cfg.Backend.BaseURL)
	require.Equal(t, StoreValkey, cfg.Session.Store)
	require.Equal(t, "localhost:6379", cfg.Session.Valkey.Addr)
	require.Equal(t, 30*time.Minute, cfg.Session.TTL)
	require.Equal(t, "birthchart", cfg.Session.Valkey.Prefix)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	cfg.Backend.BaseURL = "ftp://charts.example"
	cfg.Session.Store = StoreValkey
	cfg.CSRF.Key = "short"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "http or https")
	require.Contains(t, err.Error(), "session.valkey.addr")
	require.Contains(t, err.Error(), "csrf.key")

	cfg = defaultConfig()
	cfg.Backend.BaseURL = "https://charts.example"
	cfg.CSRF.Key = "0123456789abcdef0123456789abcdef"
	require.NoError(t, cfg.Validate())
}
