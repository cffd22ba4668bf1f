package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quantlab/ashare/backtest"
	"github.com/quantlab/ashare/config"
	"github.com/quantlab/ashare/journal"
	"github.com/quantlab/ashare/market"
	"github.com/quantlab/ashare/universe"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Backtest a whole universe and rank the results",
	Long: `Run the configured strategy over every instrument in a stock universe
and print a ranking report.

Datasets are looked up as <data-dir>/<code>.csv (also .csv.gz and
.csv.xz). Instruments without a dataset or with too little history are
skipped, not fatal.

Example:
  ashare batch -f ashare.yaml --data-dir data --universe hs300.csv --top 20`,
	RunE: runBatch,
}

var (
	batchConfigPath   string
	batchDataDir      string
	batchUniversePath string
	batchWorkers      int
	batchTop          int
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	batchCmd.Flags().StringVar(&batchDataDir, "data-dir", "", "directory with <code>.csv datasets (default: config data.dir)")
	batchCmd.Flags().StringVar(&batchUniversePath, "universe", "", "stock-list CSV of code,name rows (default: config data.universe or built-in list)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "parallel runs (default: NumCPU)")
	batchCmd.Flags().IntVar(&batchTop, "top", 10, "ranking rows to print")
	batchCmd.MarkFlagRequired("config")
}

// findDataset resolves the dataset path for code, trying the compressed
// variants too.
func findDataset(dir, code string) (string, bool) {
	for _, ext := range []string{".csv", ".csv.gz", ".csv.xz"} {
		path := filepath.Join(dir, code+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(batchConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataDir := batchDataDir
	if dataDir == "" {
		dataDir = cfg.Data.Dir
	}
	if dataDir == "" {
		return fmt.Errorf("no data directory (set --data-dir or data.dir)")
	}

	universePath := batchUniversePath
	if universePath == "" {
		universePath = cfg.Data.Universe
	}

	var u *universe.Universe
	if universePath != "" {
		u, err = universe.Load(universePath)
		if err != nil {
			return fmt.Errorf("load universe: %w", err)
		}
	} else {
		u = universe.Default()
	}

	var (
		sets    []*market.BarSet
		missing int
	)
	for _, code := range u.Codes() {
		path, ok := findDataset(dataDir, code)
		if !ok {
			missing++
			continue
		}
		set, err := backtest.LoadBars(path, code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", code, err)
			missing++
			continue
		}
		sets = append(sets, set)
	}
	if len(sets) == 0 {
		return fmt.Errorf("no datasets for universe (%d instruments) in %s", u.Len(), dataDir)
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	workers := batchWorkers
	if workers == 0 {
		workers = cfg.Data.Workers
	}

	fmt.Printf("Backtesting %d instruments (%d without data) with signal %s\n\n",
		len(sets), missing, cfg.Strategy.Signal)

	items := backtest.RunBatch(sets, cfg.Backtest(), workers, journal.NewLocked(j))
	for _, it := range items {
		if it.Err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", it.Instrument, it.Err)
		}
	}

	backtest.PrintBatchSummary(os.Stdout, backtest.Summarize(items), batchTop)
	return nil
}
