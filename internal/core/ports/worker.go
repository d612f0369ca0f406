package ports

import (
	"context"

	"go.trai.ch/warden/internal/core/domain"
)

//go:generate mockgen -source=worker.go -destination=mocks/mock_worker.go -package=mocks

// Supervisor drives the lifecycle of the external validation worker process.
// All methods are safe for concurrent use; transitions are strictly
// serialized.
type Supervisor interface {
	StateReader

	// Start spawns the worker and waits for it to become live. It is a no-op
	// when the worker is already starting or serving. A worker that never
	// becomes live within the startup timeout yields domain.ErrStartupFailed.
	Start(ctx context.Context) error

	// Stop terminates the worker, gracefully first, forcibly on timeout.
	// It always leaves the supervisor in the Stopped state and never returns
	// an error for shutdown problems; those are only logged.
	Stop(ctx context.Context) error

	// Restart performs Stop, a short delay, then Start.
	Restart(ctx context.Context) error

	// IsRunning reports whether the worker is in the Running state.
	IsRunning() bool

	// IsHealthy reports whether the worker is Running and passing probes.
	IsHealthy() bool
}

// Corrector produces a corrected payload from a failed one. Implementations
// wrap whatever fixes diagrams: a model call, an external command, a human.
type Corrector interface {
	Correct(ctx context.Context, payload string, errs []domain.ValidationError) (string, error)
}
