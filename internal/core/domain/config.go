package domain

import (
	"fmt"
	"time"
)

// Config is the full configuration surface of the validation subsystem. It is
// constructed once at process start and injected into the supervisor, monitor
// and validation client; nothing reads configuration globally.
type Config struct {
	// Enabled gates the whole subsystem. When false, no worker is spawned and
	// validation requests fail with ErrWorkerDisabled.
	Enabled bool
	// Host and Port locate the worker's HTTP endpoint.
	Host string
	Port int
	// WorkerCommand is the argv used to spawn the worker process.
	WorkerCommand []string

	// StartupTimeout bounds how long Start waits for the worker to become live.
	StartupTimeout time.Duration
	// StartupPollInterval is the liveness poll cadence during startup.
	StartupPollInterval time.Duration
	// ShutdownTimeout bounds the graceful-termination wait before force-kill.
	ShutdownTimeout time.Duration
	// RestartDelay is the pause between stop and start during a restart,
	// long enough to avoid port-reuse races.
	RestartDelay time.Duration

	// RequestTimeout bounds a single validation request.
	RequestTimeout time.Duration
	// ProbeTimeout bounds a liveness probe. Kept shorter than RequestTimeout.
	ProbeTimeout time.Duration
	// HealthInterval is the cadence of the background health monitor.
	HealthInterval time.Duration
	// MaxConsecutiveFailures is the probe-failure run length that triggers an
	// automatic restart.
	MaxConsecutiveFailures int

	// MaxRetries is the correction attempt ceiling of the retry coordinator.
	MaxRetries int
	// FixCommand is the argv of an external corrector. Empty means no
	// corrector is configured and invalid payloads are returned after the
	// first verdict.
	FixCommand []string
	// MaxConcurrent is the in-flight validation ceiling; excess calls fail
	// fast with ErrBusy.
	MaxConcurrent int
	// CacheSize bounds the validation result cache.
	CacheSize int
	// CacheTTL bounds the age of cached results.
	CacheTTL time.Duration
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:                true,
		Host:                   "127.0.0.1",
		Port:                   8765,
		WorkerCommand:          []string{"mermaid-validator", "serve"},
		StartupTimeout:         30 * time.Second,
		StartupPollInterval:    500 * time.Millisecond,
		ShutdownTimeout:        5 * time.Second,
		RestartDelay:           time.Second,
		RequestTimeout:         10 * time.Second,
		ProbeTimeout:           2 * time.Second,
		HealthInterval:         30 * time.Second,
		MaxConsecutiveFailures: 3,
		MaxRetries:             3,
		MaxConcurrent:          10,
		CacheSize:              100,
		CacheTTL:               10 * time.Minute,
	}
}

// Endpoint returns the base URL of the worker's HTTP endpoint.
func (c Config) Endpoint() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}
