package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func (c *CLI) newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage the validation worker process",
		Long: "The worker is supervised in-process: stop and status apply to the " +
			"worker owned by the current invocation, not to workers left behind " +
			"by earlier runs.",
	}

	cmd.AddCommand(c.newWorkerStartCmd())
	cmd.AddCommand(c.newWorkerStopCmd())
	cmd.AddCommand(c.newWorkerStatusCmd())

	return cmd
}

func (c *CLI) newWorkerStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the validation worker under supervision until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := c.app.EnsureWorker(ctx); err != nil {
				return err
			}
			cmd.Println("worker running, press Ctrl-C to stop")
			<-ctx.Done()
			// The command's context is already cancelled; the teardown gets
			// a fresh one.
			c.app.Shutdown(context.Background())
			return nil
		},
	}
}

func (c *CLI) newWorkerStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the validation worker owned by this process",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.StopWorker(cmd.Context())
		},
	}
}

func (c *CLI) newWorkerStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the validation worker status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status := c.app.Status()
			cmd.Printf("state: %s\n", status.State)
			if !status.Health.LastCheck.IsZero() {
				cmd.Printf("last probe: %s (%s), consecutive failures: %d\n",
					status.Health.LastCheck.Format("15:04:05"),
					status.Health.LastLatency,
					status.Health.ConsecutiveFailures,
				)
			}
			return nil
		},
	}
}
