package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xyproto/unzip"

	"github.com/quantlab/ashare/backtest"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Prepare and inspect bar datasets",
	Long: `Prepare daily-bar datasets for backtesting.

Subcommands:
  unpack - Extract a zip archive of CSV datasets
  check  - Parse and validate a dataset

Examples:
  ashare data unpack bars-2024.zip -o data
  ashare data check data/600519.csv`,
}

var dataUnpackCmd = &cobra.Command{
	Use:   "unpack <archive.zip>",
	Short: "Extract a zip archive of CSV datasets",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataUnpack,
}

var dataCheckCmd = &cobra.Command{
	Use:   "check <dataset>",
	Short: "Parse and validate a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataCheck,
}

var dataUnpackDir string

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataUnpackCmd)
	dataCmd.AddCommand(dataCheckCmd)

	dataUnpackCmd.Flags().StringVarP(&dataUnpackDir, "output", "o", "./data", "directory to extract into")
}

func runDataUnpack(cmd *cobra.Command, args []string) error {
	archive := args[0]
	if err := os.MkdirAll(dataUnpackDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := unzip.Extract(archive, dataUnpackDir); err != nil {
		return fmt.Errorf("extract %s: %w", archive, err)
	}
	fmt.Printf("Extracted %s to %s\n", archive, dataUnpackDir)
	return nil
}

func runDataCheck(cmd *cobra.Command, args []string) error {
	set, err := backtest.LoadBars(args[0], "")
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("dataset invalid: %w", err)
	}

	usable := 0
	for _, b := range set.Bars {
		if b.Usable() {
			usable++
		}
	}

	fmt.Printf("Dataset OK: %s\n", args[0])
	fmt.Printf("  Instrument: %s\n", set.Instrument)
	fmt.Printf("  Bars:       %d (%d usable)\n", set.Len(), usable)
	if set.Len() > 0 {
		fmt.Printf("  Period:     %s .. %s\n",
			set.Bars[0].Time.Format("2006-01-02"),
			set.Bars[set.Len()-1].Time.Format("2006-01-02"))
	}
	return nil
}
