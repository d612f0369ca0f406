package domain

import "time"

// ValidationError is a single structured error reported by the worker for an
// invalid payload. Line and Column are 1-based and zero when unknown.
type ValidationError struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult is the worker's verdict for one payload.
type ValidationResult struct {
	// Valid reports whether the payload parsed cleanly.
	Valid bool
	// Payload is the text the verdict applies to.
	Payload string
	// Errors holds the worker's structured errors, in reported order.
	// Empty when Valid.
	Errors []ValidationError
	// DiagramType is the diagram kind detected by the worker, when known.
	DiagramType string
	// Duration is the elapsed wall time of the validation.
	Duration time.Duration
	// FromCache marks results served from the client-side cache.
	FromCache bool
}

// ValidationStatus is the terminal status of a retry run.
type ValidationStatus string

const (
	// StatusValid means the final payload passed validation.
	StatusValid ValidationStatus = "valid"
	// StatusInvalid means the retry ceiling was reached without a valid payload.
	StatusInvalid ValidationStatus = "invalid"
	// StatusUnvalidated means the worker was unreachable, so the payload is
	// returned best-effort without a verdict.
	StatusUnvalidated ValidationStatus = "unvalidated"
)

// Outcome is the result of a bounded retry run over one payload.
type Outcome struct {
	// Payload is the final payload, corrected or not.
	Payload string
	// Status classifies how the run terminated.
	Status ValidationStatus
	// Attempts is the number of correction attempts consumed.
	Attempts int
	// History holds the structured errors handed to the corrector, in attempt
	// order. Its length equals the number of correction attempts.
	History [][]ValidationError
}
