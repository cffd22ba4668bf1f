package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantlab/ashare/journal"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Query recorded backtest runs",
	Long: `Query and display backtest records from a SQLite journal.

Subcommands:
  runs  - List recorded runs
  run   - Show one run with its fills

Examples:
  ashare report runs
  ashare report run 01J3ZK5T9Q`,
}

var reportRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runReportRuns,
}

var reportRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Show one run with its fills",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportRun,
}

var reportDBPath string

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportRunsCmd)
	reportCmd.AddCommand(reportRunCmd)

	reportCmd.PersistentFlags().StringVarP(&reportDBPath, "db", "d", "./ashare.db", "path to SQLite journal DB")
}

func runReportRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(reportDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	fmt.Printf("%-26s %-10s %-10s %10s %7s\n", "RUN", "INSTRUMENT", "SIGNAL", "RETURN", "TRADES")
	for _, r := range runs {
		fmt.Printf("%-26s %-10s %-10s %+9.2f%% %7d\n",
			r.RunID, r.Instrument, r.Signal, r.ReturnPct, r.Trades)
	}
	return nil
}

func runReportRun(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(reportDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runID := args[0]
	r, err := j.GetRun(runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	fmt.Printf("Run:         %s\n", r.RunID)
	fmt.Printf("Instrument:  %s\n", r.Instrument)
	fmt.Printf("Signal:      %s\n", r.Signal)
	fmt.Printf("Period:      %s .. %s\n", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	fmt.Printf("Return:      %+.2f%% (%.2f -> %.2f)\n", r.ReturnPct, r.InitialCash, r.FinalEquity)
	fmt.Printf("Round Trips: %d (%d wins, %d losses)\n", r.Trades, r.Wins, r.Losses)

	fills, err := j.ListFills(runID)
	if err != nil {
		return fmt.Errorf("list fills: %w", err)
	}
	if len(fills) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Printf("%-12s %-4s %8s %10s %12s %s\n", "DATE", "SIDE", "SHARES", "PRICE", "REALIZED", "REASON")
	for _, f := range fills {
		fmt.Printf("%-12s %-4s %8d %10.2f %12.2f %s\n",
			f.Time.Format("2006-01-02"), f.Side, f.Shares, f.Price, f.RealizedPL, f.Reason)
	}
	return nil
}
