package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ashare",
	Short: "A deterministic daily-bar backtester for A-share strategies",
	Long: `Ashare is a deterministic backtester for single-instrument daily-bar
strategies on China A-share conventions.

It provides tools for:
  - Backtesting layered (martingale/pyramid) strategies on daily bars
  - Dual-MA, breakout, tunnel, and supertrend entry/exit signals
  - Board-lot position sizing with commission accounting
  - Batch runs over a stock universe with a ranking report
  - Journaling fills and equity curves to CSV or SQLite`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
