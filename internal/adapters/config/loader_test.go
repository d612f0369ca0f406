package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/warden/internal/adapters/config"
	"go.trai.ch/warden/internal/core/domain"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	loader := config.NewLoader()

	cfg, err := loader.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestLoad_OverlaysFileValues(t *testing.T) {
	dir := t.TempDir()
	content := `
worker:
  enabled: false
  host: validator.internal
  port: 9000
  command: ["node", "validator.js", "serve"]
  startupTimeout: 45s
  probeTimeout: 1s
  healthCheckInterval: 10s
  maxConsecutiveFailures: 5
  maxConcurrentValidations: 4
retry:
  maxRetries: 0
  fixCommand: ["mermaid-fix"]
cache:
  size: 50
  ttl: 1m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFilename), []byte(content), 0o600))

	cfg, err := config.NewLoader().Load(dir)
	require.NoError(t, err)

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "validator.internal", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"node", "validator.js", "serve"}, cfg.WorkerCommand)
	assert.Equal(t, 45*time.Second, cfg.StartupTimeout)
	assert.Equal(t, time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 10*time.Second, cfg.HealthInterval)
	assert.Equal(t, 5, cfg.MaxConsecutiveFailures)
	assert.Equal(t, 4, cfg.MaxConcurrent)
	assert.Equal(t, 0, cfg.MaxRetries, "explicit zero retries must not fall back to the default")
	assert.Equal(t, []string{"mermaid-fix"}, cfg.FixCommand)
	assert.Equal(t, 50, cfg.CacheSize)
	assert.Equal(t, time.Minute, cfg.CacheTTL)

	// Untouched fields keep their defaults.
	assert.Equal(t, domain.DefaultConfig().ShutdownTimeout, cfg.ShutdownTimeout)
	assert.Equal(t, domain.DefaultConfig().RequestTimeout, cfg.RequestTimeout)

	assert.Equal(t, "http://validator.internal:9000", cfg.Endpoint())
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFilename), []byte("worker: ["), 0o600))

	_, err := config.NewLoader().Load(dir)
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	content := "worker:\n  startupTimeout: soon\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFilename), []byte(content), 0o600))

	_, err := config.NewLoader().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}
