package domain

import "go.trai.ch/zerr"

var (
	// ErrStartupFailed is returned by Supervisor.Start when the worker never
	// became live within the startup timeout, or exited during startup.
	ErrStartupFailed = zerr.New("worker startup failed")

	// ErrUnavailable is returned when the worker is unreachable at request time.
	ErrUnavailable = zerr.New("worker unavailable")

	// ErrTimeout is returned when a validation request exceeded its deadline.
	ErrTimeout = zerr.New("validation request timed out")

	// ErrBusy is returned when the validation concurrency ceiling is reached.
	// Callers should back off rather than queue.
	ErrBusy = zerr.New("validation concurrency limit reached")

	// ErrWorkerDisabled is returned when validation is requested but the worker
	// is disabled by configuration.
	ErrWorkerDisabled = zerr.New("validation worker is disabled")

	// ErrIllegalTransition is returned when a worker state transition violates
	// the lifecycle state machine.
	ErrIllegalTransition = zerr.New("illegal worker state transition")
)
