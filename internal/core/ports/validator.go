package ports

import (
	"context"

	"go.trai.ch/warden/internal/core/domain"
)

//go:generate mockgen -source=validator.go -destination=mocks/mock_validator.go -package=mocks

// Validator is the request/response boundary to the worker's HTTP endpoint.
// It performs exactly one attempt per call; retry policy lives elsewhere.
type Validator interface {
	// Validate submits a payload and returns the worker's verdict. Transport
	// failures surface as domain.ErrUnavailable, domain.ErrTimeout or
	// domain.ErrBusy; a non-nil result always carries a verdict.
	Validate(ctx context.Context, payload string) (*domain.ValidationResult, error)

	// Close releases the underlying connection pool. Safe to call more than
	// once; the client is unusable afterwards.
	Close() error
}

// Prober issues a minimal liveness check against the worker, bypassing any
// caching. It is the supervisor's and health monitor's view of the client.
type Prober interface {
	// Probe returns nil when the worker answers its health endpoint.
	Probe(ctx context.Context) error
}

// StateReader exposes a snapshot of the supervised worker's lifecycle state.
// Snapshots are advisory: the state may change the moment the call returns.
type StateReader interface {
	State() domain.WorkerState
}
