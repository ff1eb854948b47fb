package cli

import (
	"time"

	"github.com/spf13/cobra"

	"marketintel/internal/shadow"
)

func addShieldCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newShieldReportCmd(app))
}

func newShieldReportCmd(app *App) *cobra.Command {
	var windowDays int

	cmd := &cobra.Command{
		Use:   "shield-report",
		Short: "Show the shadow tracker's defensive value over a trailing window",
		Long: `shield-report loads every shadow trade entered within the window (active
or already closed) and summarizes how many rejected/HOLD-ed proposals would
have lost money, quantifying the loss the constitution's rejection avoided.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			since := time.Now().AddDate(0, 0, -windowDays)
			trades, err := app.Store.FindShadowsSince(cmd.Context(), since)
			if err != nil {
				output.Error("failed to load shadow trades: %v", err)
				return err
			}

			report := shadow.BuildShieldReport(trades, windowDays)

			if output.IsJSON() {
				return output.JSON(report)
			}

			output.Bold("Shield report (%d day window)", report.PeriodDays)
			output.Printf("  Rejected proposals:   %d\n", report.Rejected)
			output.Printf("  Defensive wins:       %d\n", report.DefensiveWins)
			output.Printf("  Defensive win rate:   %s\n", FormatPercent(report.DefensiveWinRate*100))
			output.Printf("  Total avoided loss:   %s\n", FormatCurrency(report.TotalAvoidedLoss))

			if len(report.Highlights) > 0 {
				output.Println()
				output.Bold("Top avoided losses")
				table := NewTable(output, "TICKER", "ACTION", "ENTRY", "VIRTUAL P&L", "REASON")
				for _, h := range report.Highlights {
					table.AddRow(
						h.Ticker,
						output.ActionColor(string(h.Action)),
						FormatDateTime(h.EntryDate),
						output.PnLColor(h.VirtualPnL),
						h.RejectionReason,
					)
				}
				table.Render()
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&windowDays, "days", 30, "trailing window in days")
	return cmd
}
