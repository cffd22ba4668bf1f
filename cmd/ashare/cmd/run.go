package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantlab/ashare/backtest"
	"github.com/quantlab/ashare/config"
	"github.com/quantlab/ashare/journal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Backtest one instrument from a config file",
	Long: `Run a backtest over one daily-bar CSV dataset using settings from a
configuration file.

Example:
  ashare run -f ashare.yaml -d data/600519.csv`,
	RunE: runRun,
}

var (
	runConfigPath string
	runDataPath   string
	runInstrument string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().StringVarP(&runDataPath, "data", "d", "", "path to bar CSV (.csv, .csv.gz, .csv.xz) (required)")
	runCmd.Flags().StringVarP(&runInstrument, "instrument", "i", "", "instrument code (default: dataset file name)")
	runCmd.MarkFlagRequired("config")
	runCmd.MarkFlagRequired("data")
}

// openJournal builds the journal the config asks for. The caller owns
// Close.
func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return journal.Nop{}, nil
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	set, err := backtest.LoadBars(runDataPath, runInstrument)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	fmt.Printf("Backtesting %s (%d bars) with signal %s\n\n",
		set.Instrument, set.Len(), cfg.Strategy.Signal)

	res, err := backtest.Run(set, cfg.Backtest(), j)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	backtest.PrintResult(os.Stdout, res)

	switch cfg.Journal.Type {
	case "csv":
		fmt.Printf("Results saved to:\n  - %s\n  - %s\n", cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "sqlite":
		fmt.Printf("Results saved to: %s\n", cfg.Journal.DBPath)
	}
	return nil
}
