package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/warden/internal/adapters/corrector"
	"go.trai.ch/warden/internal/adapters/telemetry/progrock"
	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports"
	"go.trai.ch/zerr"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	var (
		noRetry  bool
		progress bool
		fixCmd   []string
	)

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate diagram text, correcting it up to the retry ceiling",
		Long: "Validate reads diagram text from the given file (or stdin when the " +
			"argument is omitted or '-'), starts the validation worker if needed, " +
			"and runs the bounded validate-and-correct loop.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := c.app.EnsureWorker(ctx); err != nil {
				return err
			}
			defer c.app.Shutdown(ctx)

			if noRetry {
				result, err := c.app.Validate(ctx, payload)
				if err != nil {
					return err
				}
				return printResult(cmd, result)
			}

			var fix ports.Corrector
			if len(fixCmd) > 0 {
				fix = corrector.NewExec(fixCmd)
			}

			var tracer ports.Tracer
			if progress {
				rec := progrock.NewConsole(cmd.ErrOrStderr())
				defer func() { _ = rec.Close() }()
				tracer = rec
			}

			outcome, err := c.app.ValidateWithRetry(ctx, payload, fix, tracer)
			if err != nil {
				return err
			}
			return printOutcome(cmd, outcome)
		},
	}

	cmd.Flags().BoolVar(&noRetry, "no-retry", false, "Perform a single validation attempt without correction")
	cmd.Flags().BoolVar(&progress, "progress", false, "Render per-attempt progress while validating")
	cmd.Flags().StringSliceVar(&fixCmd, "fix-cmd", nil, "Corrector command overriding the configured one")

	return cmd
}

func readPayload(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", zerr.Wrap(err, "failed to read payload from stdin")
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0]) //nolint:gosec // path is provided by user
	if err != nil {
		return "", zerr.Wrap(err, "failed to read payload file")
	}
	return string(data), nil
}

func printResult(cmd *cobra.Command, result *domain.ValidationResult) error {
	if result.Valid {
		cmd.Printf("valid (%s)\n", result.Duration)
		return nil
	}
	cmd.Println("invalid:")
	printErrors(cmd, result.Errors)
	return zerr.New("validation failed")
}

func printOutcome(cmd *cobra.Command, outcome *domain.Outcome) error {
	cmd.Printf("status: %s, attempts: %d\n", outcome.Status, outcome.Attempts)
	cmd.Println(strings.TrimRight(outcome.Payload, "\n"))

	switch outcome.Status {
	case domain.StatusValid, domain.StatusUnvalidated:
		return nil
	case domain.StatusInvalid:
		if n := len(outcome.History); n > 0 {
			cmd.Println("last errors:")
			printErrors(cmd, outcome.History[n-1])
		}
		return zerr.New("payload is still invalid after retries")
	}
	return nil
}

func printErrors(cmd *cobra.Command, errs []domain.ValidationError) {
	for _, e := range errs {
		if e.Line > 0 {
			cmd.Println(fmt.Sprintf("  line %d: %s", e.Line, e.Message))
		} else {
			cmd.Println("  " + e.Message)
		}
	}
}
