package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limphasa/schemectl/pkg/observability"
)

// pointing SCHEMECTL_CONFIG at an empty dir keeps a developer's real
// config file out of the tests
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("SCHEMECTL_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateConfig(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.Session.Watch)
	assert.NotEmpty(t, cfg.Session.Path)
	assert.Equal(t, observability.InfoLevel, cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	isolateConfig(t)
	t.Setenv("SCHEMECTL_API_URL", "https://scheme.example.com")
	t.Setenv("SCHEMECTL_TIMEOUT", "30s")
	t.Setenv("SCHEMECTL_SESSION_FILE", "/tmp/test-session.json")
	t.Setenv("SCHEMECTL_SESSION_WATCH", "true")
	t.Setenv("SCHEMECTL_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://scheme.example.com", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/tmp/test-session.json", cfg.Session.Path)
	assert.True(t, cfg.Session.Watch)
	assert.Equal(t, observability.DebugLevel, cfg.Log.Level)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://scheme.example.com
  timeout: 15s
session:
  watch: true
log:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SCHEMECTL_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://scheme.example.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Session.Watch)
	assert.Equal(t, observability.WarnLevel, cfg.Log.Level)
}

func TestLoadConfig_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: https://from-file\n"), 0o600))
	t.Setenv("SCHEMECTL_CONFIG", path)
	t.Setenv("SCHEMECTL_API_URL", "https://from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://from-env", cfg.API.BaseURL)
}

func TestLoadConfig_RejectsBadURL(t *testing.T) {
	isolateConfig(t)
	t.Setenv("SCHEMECTL_API_URL", "://nope")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_RejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not a map"), 0o600))
	t.Setenv("SCHEMECTL_CONFIG", path)

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.API.Timeout = 0
	assert.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Session.Path = ""
	assert.Error(t, cfg.Validate())
}
