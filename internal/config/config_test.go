package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, 8081, cfg.MCPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9000"
log_level: debug
session_ttl: 1h
default_suggestion: policy-loan
redis:
  enabled: true
  addr: redis:6379
  db: 2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.SessionTTL.Std())
	assert.Equal(t, "policy-loan", cfg.DefaultSuggestion)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FORMPILOT_LISTEN", ":7070")
	t.Setenv("FORMPILOT_REDIS_ADDR", "override:6379")
	t.Setenv("FORMPILOT_SESSION_TTL", "30m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Listen)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "override:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL.Std())
}

func TestLoad_RejectsBadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
