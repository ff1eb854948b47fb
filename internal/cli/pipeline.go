package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"marketintel/internal/pipeline"
)

func addPipelineCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newCycleCmd(app))
	rootCmd.AddCommand(newStatsCmd(app))
}

func newRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline continuously, polling on its configured interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			output.Info("Starting pipeline (poll interval %ds)", app.Config.Pipeline.PollIntervalSeconds)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Orchestrator.Run(ctx)
		},
	}
}

func newCycleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle",
		Short: "Run a single pipeline cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Orchestrator.RunCycle(cmd.Context()); err != nil {
				output.Error("cycle failed: %v", err)
				return err
			}
			stats := app.Orchestrator.Snapshot()
			if output.IsJSON() {
				return output.JSON(stats)
			}
			output.Success("Cycle complete")
			printStats(output, stats)
			return nil
		},
	}
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cumulative pipeline statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			stats := app.Orchestrator.Snapshot()
			if output.IsJSON() {
				return output.JSON(stats)
			}
			output.Bold("Pipeline statistics")
			printStats(output, stats)
			return nil
		},
	}
}

func printStats(output *Output, stats pipeline.Stats) {
	output.Printf("  Cycles:              %d\n", stats.Cycles)
	output.Printf("  Articles processed:  %d\n", stats.ArticlesProcessed)
	output.Printf("  Analyses completed:  %d\n", stats.Analyses)
	output.Printf("  Signals generated:   %d\n", stats.SignalsGenerated)
	output.Printf("  Duplicates skipped:  %d\n", stats.Duplicates)
	output.Printf("  Low quality skipped: %d\n", stats.LowQuality)
}
