package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantlab/ashare/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage backtest configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  ashare config init -o ashare.yaml
  ashare config validate -f ashare.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "ashare.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  ashare run -f %s -d data/600519.csv\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Account:  %.2f cash, %.4f%% commission\n", cfg.Account.Cash, cfg.Account.CommissionRate*100)
	fmt.Printf("  Strategy: %s (TP %.1f%%, SL %.1f%%)\n",
		cfg.Strategy.Signal, cfg.Strategy.TakeProfitPct*100, cfg.Strategy.StopLossPct*100)
	fmt.Printf("  Policy:   %s, entry %.0f%%, max %d layers\n",
		cfg.Policy.Mode, cfg.Policy.EntryFraction*100, cfg.Policy.MaxLayers)
	fmt.Printf("  Journal:  %s\n", cfg.Journal.Type)
	return nil
}
