// Package retry implements the bounded validate-and-correct loop over
// candidate payloads.
package retry

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports"
	"go.trai.ch/zerr"
)

// Generator produces the initial candidate payload. It is called exactly once
// per run.
type Generator func(ctx context.Context) (string, error)

// Coordinator drives payloads through validation and correction, consuming at
// most the configured number of correction attempts. How payloads are produced
// and fixed is the collaborators' business; the coordinator only sequences.
//
// Infrastructure failures (worker unavailable, timed out, busy) are not
// syntax verdicts: they terminate the run as "unvalidated" without consuming
// any retry budget, and the last payload is returned as-is. The pipeline
// favors availability over strict validation.
type Coordinator struct {
	validator ports.Validator
	corrector ports.Corrector
	ceiling   int
	logger    ports.Logger
	tracer    ports.Tracer
}

// NewCoordinator creates a Coordinator with the given attempt ceiling.
func NewCoordinator(validator ports.Validator, corrector ports.Corrector, ceiling int, logger ports.Logger, tracer ports.Tracer) *Coordinator {
	return &Coordinator{
		validator: validator,
		corrector: corrector,
		ceiling:   ceiling,
		logger:    logger,
		tracer:    tracer,
	}
}

// RunFunc generates the initial payload, then behaves like Run.
func (c *Coordinator) RunFunc(ctx context.Context, generate Generator) (*domain.Outcome, error) {
	payload, err := generate(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "payload generation failed")
	}
	return c.Run(ctx, payload)
}

// Run validates the payload and corrects it on Invalid verdicts, up to the
// ceiling. It performs at most ceiling+1 validation calls and always
// terminates in finite steps. The only error return is caller cancellation;
// every worker-side condition maps to an Outcome.
func (c *Coordinator) Run(ctx context.Context, payload string) (*domain.Outcome, error) {
	outcome := &domain.Outcome{Payload: payload}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := c.validate(ctx, outcome)
		if err != nil {
			if infrastructure(err) {
				c.logger.Warn(fmt.Sprintf("validation degraded, proceeding unvalidated: %v", err))
				outcome.Status = domain.StatusUnvalidated
				return outcome, nil
			}
			return nil, err
		}

		if result.Valid {
			outcome.Status = domain.StatusValid
			return outcome, nil
		}

		if outcome.Attempts >= c.ceiling {
			outcome.Status = domain.StatusInvalid
			return outcome, nil
		}

		// History accumulates the errors handed to the corrector, one entry
		// per correction attempt.
		outcome.History = append(outcome.History, result.Errors)
		corrected, err := c.corrector.Correct(ctx, outcome.Payload, result.Errors)
		if err != nil {
			c.logger.Warn(fmt.Sprintf("correction failed, keeping last payload: %v", err))
			outcome.Status = domain.StatusInvalid
			return outcome, nil
		}
		outcome.Attempts++
		outcome.Payload = corrected
	}
}

// validate runs one validation attempt under a tracer span.
func (c *Coordinator) validate(ctx context.Context, outcome *domain.Outcome) (*domain.ValidationResult, error) {
	ctx, span := c.tracer.Start(ctx, "validate")
	defer span.End()
	span.SetAttribute("attempt", outcome.Attempts)

	result, err := c.validator.Validate(ctx, outcome.Payload)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("valid", result.Valid)
	span.SetAttribute("from_cache", result.FromCache)
	return result, nil
}

// infrastructure reports whether the error is a transport condition rather
// than a syntax verdict. The distinction is load-bearing: only Invalid
// verdicts consume retry budget.
func infrastructure(err error) bool {
	return errors.Is(err, domain.ErrUnavailable) ||
		errors.Is(err, domain.ErrTimeout) ||
		errors.Is(err, domain.ErrBusy) ||
		errors.Is(err, domain.ErrWorkerDisabled)
}
