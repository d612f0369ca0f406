// Package config provides the configuration loader for warden.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up in the working directory.
const DefaultFilename = "warden.yaml"

// Loader reads warden configuration from a YAML file, falling back to
// defaults when the file is absent.
type Loader struct {
	Filename string
}

// NewLoader creates a Loader for the default filename.
func NewLoader() *Loader {
	return &Loader{Filename: DefaultFilename}
}

// Load reads the configuration from the given working directory. A missing
// file is not an error; defaults apply.
func (l *Loader) Load(cwd string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(cwd, l.Filename)
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	return apply(cfg, file)
}

// apply overlays the file values onto the defaults.
func apply(cfg domain.Config, file File) (domain.Config, error) {
	w := file.Worker
	if w.Enabled != nil {
		cfg.Enabled = *w.Enabled
	}
	if w.Host != "" {
		cfg.Host = w.Host
	}
	if w.Port != 0 {
		cfg.Port = w.Port
	}
	if len(w.Command) > 0 {
		cfg.WorkerCommand = w.Command
	}
	if w.MaxConsecutiveFailures > 0 {
		cfg.MaxConsecutiveFailures = w.MaxConsecutiveFailures
	}
	if w.MaxConcurrent > 0 {
		cfg.MaxConcurrent = w.MaxConcurrent
	}
	if file.Retry.MaxRetries != nil {
		cfg.MaxRetries = *file.Retry.MaxRetries
	}
	if len(file.Retry.FixCommand) > 0 {
		cfg.FixCommand = file.Retry.FixCommand
	}
	if file.Cache.Size > 0 {
		cfg.CacheSize = file.Cache.Size
	}

	durations := []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{w.StartupTimeout, "startupTimeout", &cfg.StartupTimeout},
		{w.ShutdownTimeout, "shutdownTimeout", &cfg.ShutdownTimeout},
		{w.RequestTimeout, "requestTimeout", &cfg.RequestTimeout},
		{w.ProbeTimeout, "probeTimeout", &cfg.ProbeTimeout},
		{w.HealthCheckInterval, "healthCheckInterval", &cfg.HealthInterval},
		{file.Cache.TTL, "cache.ttl", &cfg.CacheTTL},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return cfg, zerr.With(zerr.Wrap(err, "invalid duration in config"), "field", d.name)
		}
		*d.dst = parsed
	}

	return cfg, nil
}
