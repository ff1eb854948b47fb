package cli

import (
	"github.com/spf13/cobra"

	"marketintel/internal/constitution"
)

func addConstitutionCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVerifyConstitutionCmd(app))
	rootCmd.AddCommand(newShowConstitutionCmd(app))
}

func newVerifyConstitutionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-constitution",
		Short: "Verify the embedded constitution's integrity digest",
		Long: `verify-constitution recomputes the SHA-256 digest of the embedded rules
source and compares it against the pinned digest, failing loudly (non-zero
exit) if the rules have been tampered with since the binary was built.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			err := constitution.VerifyIntegrity()
			if err != nil {
				output.Error("constitution integrity check FAILED: %v", err)
				if output.IsJSON() {
					output.JSON(map[string]interface{}{"valid": false, "error": err.Error()})
				}
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("Constitution integrity verified")
			return nil
		},
	}
}

func newShowConstitutionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show-constitution",
		Short: "Print the loaded constitution's risk, allocation, and trading rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			c := app.Constitution
			if output.IsJSON() {
				return output.JSON(c)
			}

			output.Bold("Risk limits")
			output.Printf("  Max daily loss:            %.1f%%\n", c.Risk.MaxDailyLossPct)
			output.Printf("  Max drawdown:              %.1f%%\n", c.Risk.MaxDrawdownPct)
			output.Printf("  Daily loss circuit break:  %.1f%%\n", c.Risk.DailyLossCircuitBreakerPct)
			output.Printf("  Max single position:       %.1f%%\n", c.Risk.MaxSinglePositionPct)
			output.Printf("  VIX caution / danger:      %.1f / %.1f\n", c.Risk.VIXCaution, c.Risk.VIXDanger)
			output.Println()

			output.Bold("Allocation rules")
			output.Printf("  Min cash:                  %.1f%%\n", c.Allocation.MinCashPct)
			output.Printf("  Max stock:                 %.1f%%\n", c.Allocation.MaxStockPct)
			output.Printf("  Rebalance threshold:       %.1f%%\n", c.Allocation.RebalanceThresholdPct)
			output.Println()

			output.Bold("Trading constraints")
			output.Printf("  Max trades per day:        %d\n", c.Trading.MaxTradesPerDay)
			output.Printf("  Max trades per week:       %d\n", c.Trading.MaxTradesPerWeek)
			output.Printf("  Min hold hours:            %d\n", c.Trading.MinHoldHours)
			output.Printf("  Order size bounds:         %s - %s\n", FormatCurrency(c.Trading.MinOrderUSD), FormatCurrency(c.Trading.MaxOrderUSD))

			return nil
		},
	}
}
