// Package config loads and validates backtest configuration from YAML
// or JSON files and maps it onto run parameters.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantlab/ashare/backtest"
	"github.com/quantlab/ashare/policy"
	"github.com/quantlab/ashare/strategy"
)

// Config is the complete backtest configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Policy   PolicyConfig   `json:"policy" yaml:"policy"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	Cash           float64 `json:"cash" yaml:"cash"`
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
}

// StrategyConfig names the signal and the exit thresholds
type StrategyConfig struct {
	Signal string                `json:"signal" yaml:"signal"`
	Params strategy.SignalConfig `json:"params,omitempty" yaml:"params,omitempty"`

	TakeProfitPct float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
	StopLossPct   float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	AddTriggerPct float64 `json:"add_trigger_pct" yaml:"add_trigger_pct"`
}

// PolicyConfig contains position sizing parameters
type PolicyConfig struct {
	Mode          string  `json:"mode" yaml:"mode"` // "martingale", "pyramid" or "fixed-fraction"
	EntryFraction float64 `json:"entry_fraction" yaml:"entry_fraction"`
	AddFraction   float64 `json:"add_fraction,omitempty" yaml:"add_fraction,omitempty"`
	RiskFraction  float64 `json:"risk_fraction,omitempty" yaml:"risk_fraction,omitempty"`
	SafetyMargin  float64 `json:"safety_margin,omitempty" yaml:"safety_margin,omitempty"`
	MaxLayers     int     `json:"max_layers" yaml:"max_layers"`
	Lot           int     `json:"lot,omitempty" yaml:"lot,omitempty"`
}

// DataConfig locates the bar datasets
type DataConfig struct {
	Dir        string `json:"dir" yaml:"dir"`
	Instrument string `json:"instrument,omitempty" yaml:"instrument,omitempty"`
	Universe   string `json:"universe,omitempty" yaml:"universe,omitempty"`
	MinBars    int    `json:"min_bars,omitempty" yaml:"min_bars,omitempty"`
	Workers    int    `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Cash <= 0 {
		return fmt.Errorf("account.cash must be positive")
	}
	if c.Account.CommissionRate < 0 || c.Account.CommissionRate >= 1 {
		return fmt.Errorf("account.commission_rate must be in [0, 1)")
	}
	if _, err := strategy.SignalByName(c.Strategy.Signal, c.Strategy.Params); err != nil {
		return err
	}
	if c.Strategy.TakeProfitPct <= 0 {
		return fmt.Errorf("strategy.take_profit_pct must be positive")
	}
	if c.Strategy.StopLossPct >= 0 {
		return fmt.Errorf("strategy.stop_loss_pct must be negative")
	}
	if c.Strategy.AddTriggerPct >= 0 {
		return fmt.Errorf("strategy.add_trigger_pct must be negative")
	}
	if _, err := policy.ParseMode(c.Policy.Mode); err != nil {
		return err
	}
	if c.Policy.EntryFraction <= 0 || c.Policy.EntryFraction > 1 {
		return fmt.Errorf("policy.entry_fraction must be between 0 and 1")
	}
	if c.Policy.MaxLayers <= 0 {
		return fmt.Errorf("policy.max_layers must be positive")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Backtest converts the file configuration into run parameters. Call
// Validate first; an invalid sizing mode falls back to martingale here.
func (c *Config) Backtest() backtest.Config {
	mode, _ := policy.ParseMode(c.Policy.Mode)
	return backtest.Config{
		InitialCash:    c.Account.Cash,
		CommissionRate: c.Account.CommissionRate,
		MinBars:        c.Data.MinBars,
		Signal:         c.Strategy.Signal,
		SignalParams:   c.Strategy.Params,
		Policy: policy.Params{
			Mode:          mode,
			EntryFraction: c.Policy.EntryFraction,
			AddFraction:   c.Policy.AddFraction,
			RiskFraction:  c.Policy.RiskFraction,
			SafetyMargin:  c.Policy.SafetyMargin,
			MaxLayers:     c.Policy.MaxLayers,
			Lot:           c.Policy.Lot,
		},
		TakeProfitPct: c.Strategy.TakeProfitPct,
		StopLossPct:   c.Strategy.StopLossPct,
		AddTriggerPct: c.Strategy.AddTriggerPct,
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Cash:           1000000,
			CommissionRate: 0.0003,
		},
		Strategy: StrategyConfig{
			Signal:        "dual-ma",
			TakeProfitPct: 0.03,
			StopLossPct:   -0.15,
			AddTriggerPct: -0.05,
		},
		Policy: PolicyConfig{
			Mode:          "martingale",
			EntryFraction: 0.1,
			MaxLayers:     5,
		},
		Data: DataConfig{
			Dir: "./data",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./ashare.db",
		},
	}
}
