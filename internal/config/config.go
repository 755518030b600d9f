// Package config loads application configuration from YAML with environment
// overrides and sensible defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Thresholds struct {
		TakeProfitPct         float64 `yaml:"take_profit_pct"`
		StopLossPct           float64 `yaml:"stop_loss_pct"`
		VolumeSpikeMultiplier float64 `yaml:"volume_spike_multiplier"`
	} `yaml:"thresholds"`
	Tax struct {
		ShortTermRate      float64 `yaml:"short_term_rate"`
		LongTermRate       float64 `yaml:"long_term_rate"`
		HoldingPeriodDays  int     `yaml:"holding_period_days"`
		WashSaleWindowDays int     `yaml:"wash_sale_window_days"`
	} `yaml:"tax"`
	Benchmark struct {
		Symbol string `yaml:"symbol"`
	} `yaml:"benchmark"`
	Schedule struct {
		PassCron string `yaml:"pass_cron"`
	} `yaml:"schedule"`
	State struct {
		File string `yaml:"file"`
	} `yaml:"state"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TAKE_PROFIT_PCT"); v != "" {
		if f, ok := parseFloat(v); ok {
			cfg.Thresholds.TakeProfitPct = f
		}
	}
	if v := os.Getenv("STOP_LOSS_PCT"); v != "" {
		if f, ok := parseFloat(v); ok {
			cfg.Thresholds.StopLossPct = f
		}
	}
	if v := os.Getenv("BENCHMARK_SYMBOL"); v != "" {
		cfg.Benchmark.Symbol = v
	}
	if v := os.Getenv("PASS_CRON"); v != "" {
		cfg.Schedule.PassCron = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.State.File = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Thresholds.TakeProfitPct == 0 {
		cfg.Thresholds.TakeProfitPct = 50
	}
	if cfg.Thresholds.StopLossPct == 0 {
		cfg.Thresholds.StopLossPct = -20
	}
	if cfg.Thresholds.VolumeSpikeMultiplier == 0 {
		cfg.Thresholds.VolumeSpikeMultiplier = 3.0
	}
	if cfg.Tax.ShortTermRate == 0 {
		cfg.Tax.ShortTermRate = 0.35
	}
	if cfg.Tax.LongTermRate == 0 {
		cfg.Tax.LongTermRate = 0.15
	}
	if cfg.Tax.HoldingPeriodDays == 0 {
		cfg.Tax.HoldingPeriodDays = 365
	}
	if cfg.Tax.WashSaleWindowDays == 0 {
		cfg.Tax.WashSaleWindowDays = 30
	}
	if cfg.Benchmark.Symbol == "" {
		cfg.Benchmark.Symbol = "SPY"
	}
	if cfg.Schedule.PassCron == "" {
		cfg.Schedule.PassCron = "0 0 22 * * 1-5"
	}
	if cfg.State.File == "" {
		cfg.State.File = "data/portfolio_state.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/portfolio_tracker.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

func parseFloat(s string) (float64, bool) {
	var f float64
	if _, err := fmt.Sscanf(s, "%f", &f); err != nil {
		return 0, false
	}
	return f, true
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Thresholds.TakeProfitPct <= 0 {
		return fmt.Errorf("thresholds.take_profit_pct must be positive")
	}
	if c.Thresholds.StopLossPct >= 0 {
		return fmt.Errorf("thresholds.stop_loss_pct must be negative")
	}
	if c.Thresholds.VolumeSpikeMultiplier <= 1 {
		return fmt.Errorf("thresholds.volume_spike_multiplier must exceed 1")
	}
	if c.Tax.ShortTermRate < 0 || c.Tax.ShortTermRate > 1 {
		return fmt.Errorf("tax.short_term_rate must be in [0, 1]")
	}
	if c.Tax.LongTermRate < 0 || c.Tax.LongTermRate > 1 {
		return fmt.Errorf("tax.long_term_rate must be in [0, 1]")
	}
	if c.Tax.HoldingPeriodDays <= 0 {
		return fmt.Errorf("tax.holding_period_days must be positive")
	}
	if c.Benchmark.Symbol == "" {
		return fmt.Errorf("benchmark.symbol is required")
	}
	return nil
}
