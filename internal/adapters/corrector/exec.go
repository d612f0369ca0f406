// Package corrector provides ports.Corrector implementations. The default is
// an external command: the failed payload arrives on stdin, the structured
// errors in an environment variable, and the corrected payload is read from
// stdout. What actually fixes diagrams (a model call, a linter, a human in a
// script) is outside this module's concern.
package corrector

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports"
	"go.trai.ch/zerr"
)

// ErrorsEnvVar carries the JSON-encoded validation errors to the fix command.
const ErrorsEnvVar = "WARDEN_VALIDATION_ERRORS"

var _ ports.Corrector = (*Exec)(nil)

// Exec runs an external fix command per correction attempt.
type Exec struct {
	argv []string
}

// NewExec creates an Exec corrector for the given argv.
func NewExec(argv []string) *Exec {
	return &Exec{argv: argv}
}

// Correct implements ports.Corrector.
func (e *Exec) Correct(ctx context.Context, payload string, errs []domain.ValidationError) (string, error) {
	if len(e.argv) == 0 {
		return "", zerr.New("no fix command configured")
	}

	encoded, err := json.Marshal(errs)
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode validation errors")
	}

	cmd := exec.CommandContext(ctx, e.argv[0], e.argv[1:]...) //nolint:gosec // command comes from configuration
	cmd.Stdin = strings.NewReader(payload)
	cmd.Env = append(os.Environ(), ErrorsEnvVar+"="+string(encoded))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok { //nolint:errorlint // direct Run result
			exitCode = exitErr.ExitCode()
		}
		return "", zerr.With(zerr.With(zerr.Wrap(err, "fix command failed"), "exit_code", exitCode), "stderr", stderr.String())
	}

	corrected := stdout.String()
	if strings.TrimSpace(corrected) == "" {
		return "", zerr.New("fix command produced no output")
	}
	return corrected, nil
}

// Func adapts a plain function to ports.Corrector, for library callers that
// bring their own correction logic.
type Func func(ctx context.Context, payload string, errs []domain.ValidationError) (string, error)

// Correct implements ports.Corrector.
func (f Func) Correct(ctx context.Context, payload string, errs []domain.ValidationError) (string, error) {
	return f(ctx, payload, errs)
}
