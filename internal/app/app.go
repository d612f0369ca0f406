// Package app implements the application layer for warden.
package app

import (
	"context"

	"go.trai.ch/warden/internal/adapters/worker"
	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports"
	"go.trai.ch/warden/internal/engine/retry"
	"go.trai.ch/zerr"
)

// App wires the supervisor, validation client and retry coordinator into the
// operations the CLI exposes.
type App struct {
	cfg         domain.Config
	logger      ports.Logger
	tracer      ports.Tracer
	validator   ports.Validator
	supervisor  *worker.Supervisor
	corrector   ports.Corrector
	coordinator *retry.Coordinator
}

// New creates a new App instance.
func New(
	cfg domain.Config,
	logger ports.Logger,
	tracer ports.Tracer,
	validator ports.Validator,
	supervisor *worker.Supervisor,
	corrector ports.Corrector,
	coordinator *retry.Coordinator,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		tracer:      tracer,
		validator:   validator,
		supervisor:  supervisor,
		corrector:   corrector,
		coordinator: coordinator,
	}
}

// Config returns the effective configuration.
func (a *App) Config() domain.Config {
	return a.cfg
}

// EnsureWorker starts the supervised worker when the subsystem is enabled.
// Startup failure is surfaced to the caller; it is never swallowed.
func (a *App) EnsureWorker(ctx context.Context) error {
	if !a.cfg.Enabled {
		return domain.ErrWorkerDisabled
	}
	if err := a.supervisor.Start(ctx); err != nil {
		return zerr.Wrap(err, "failed to start validation worker")
	}
	return nil
}

// Validate performs a single validation attempt, no retries.
func (a *App) Validate(ctx context.Context, payload string) (*domain.ValidationResult, error) {
	return a.validator.Validate(ctx, payload)
}

// ValidateWithRetry runs the bounded validate-and-correct loop. A nil fix or
// tracer uses the wired defaults.
func (a *App) ValidateWithRetry(ctx context.Context, payload string, fix ports.Corrector, tracer ports.Tracer) (*domain.Outcome, error) {
	if fix == nil && tracer == nil {
		return a.coordinator.Run(ctx, payload)
	}
	if fix == nil {
		fix = a.corrector
	}
	if tracer == nil {
		tracer = a.tracer
	}
	c := retry.NewCoordinator(a.validator, fix, a.cfg.MaxRetries, a.logger, tracer)
	return c.Run(ctx, payload)
}

// WorkerStatus is a point-in-time view of the supervised worker.
type WorkerStatus struct {
	State  domain.WorkerState
	Health domain.HealthRecord
}

// Status returns a snapshot of the worker's state and probe bookkeeping.
func (a *App) Status() WorkerStatus {
	return WorkerStatus{
		State:  a.supervisor.State(),
		Health: a.supervisor.Health(),
	}
}

// StopWorker stops the supervised worker. Always succeeds.
func (a *App) StopWorker(ctx context.Context) error {
	return a.supervisor.Stop(ctx)
}

// Shutdown stops the worker and releases the validation client. Called on
// every exit path.
func (a *App) Shutdown(ctx context.Context) {
	if err := a.supervisor.Stop(ctx); err != nil {
		a.logger.Error(err)
	}
	if err := a.validator.Close(); err != nil {
		a.logger.Error(err)
	}
}
