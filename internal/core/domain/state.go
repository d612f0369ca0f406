package domain

// WorkerState represents the lifecycle state of the supervised worker process.
type WorkerState string

const (
	// WorkerStopped indicates no worker process exists. Initial state.
	WorkerStopped WorkerState = "Stopped"
	// WorkerStarting indicates the process has been spawned but is not yet live.
	WorkerStarting WorkerState = "Starting"
	// WorkerRunning indicates the worker answers liveness probes.
	WorkerRunning WorkerState = "Running"
	// WorkerUnhealthy indicates the worker exists but failed recent probes.
	WorkerUnhealthy WorkerState = "Unhealthy"
	// WorkerStopping indicates a shutdown is in progress.
	WorkerStopping WorkerState = "Stopping"
	// WorkerFailed indicates an unrecoverable startup error or exhausted
	// restarts. Terminal until an explicit Start resets it.
	WorkerFailed WorkerState = "Failed"
)

// String returns the state name.
func (s WorkerState) String() string {
	return string(s)
}

// Serving reports whether the worker is expected to answer requests.
func (s WorkerState) Serving() bool {
	return s == WorkerRunning || s == WorkerUnhealthy
}

// transitions encodes the legal lifecycle edges. Failed is reachable from any
// state except Stopping/Stopped; Stopping is reachable from every state that
// is not already stopped, so Stop can always make progress.
var transitions = map[WorkerState][]WorkerState{
	WorkerStopped:   {WorkerStarting},
	WorkerStarting:  {WorkerRunning, WorkerStopping, WorkerFailed},
	WorkerRunning:   {WorkerUnhealthy, WorkerStopping, WorkerFailed},
	WorkerUnhealthy: {WorkerRunning, WorkerStopping, WorkerFailed},
	WorkerStopping:  {WorkerStopped},
	WorkerFailed:    {WorkerStarting, WorkerStopping},
}

// CanTransition reports whether the lifecycle state machine permits moving
// from one state to another. A transition to the same state is never legal;
// idempotent operations are expected to short-circuit before reaching here.
func CanTransition(from, to WorkerState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
