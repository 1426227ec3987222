package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration of the simulator.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Billing    BillingConfig    `yaml:"billing"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// SimulationConfig controls the run parameters.
type SimulationConfig struct {
	Days                  int     `yaml:"days"`
	StartingCash          float64 `yaml:"starting_cash"`
	DailyFee              float64 `yaml:"daily_fee"`
	StarterInventoryUnits int     `yaml:"starter_inventory_units"`
	BankruptcyThreshold   int     `yaml:"bankruptcy_threshold"` // consecutive unpayable days before the run ends
	DirectOrderLagDays    int     `yaml:"direct_order_lag_days"`
	Seed                  int64   `yaml:"seed"`
}

// BillingConfig controls the weekly usage billing cycle.
type BillingConfig struct {
	Rate  float64 `yaml:"rate"`  // dollars per Scale billable units; 0 disables billing
	Scale float64 `yaml:"scale"` // units covered by one Rate charge
}

// StorageConfig controls where runs are persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls log format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads configuration from the YAML file and the .env file if present.
// Environment values override the YAML for the keys they cover.
func Load(path string) (*Config, error) {
	// Load .env if it exists (missing file is not an error)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when no YAML file is given.
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg
}

// applyEnvOverrides replaces values with environment variables when set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("VENDSIM_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("VENDSIM_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Simulation.Seed = seed
		}
	}
}

// setDefaults fills in the reference scenario: one year, $500, $2/day.
func setDefaults(cfg *Config) {
	if cfg.Simulation.Days <= 0 {
		cfg.Simulation.Days = 365
	}
	if cfg.Simulation.StartingCash <= 0 {
		cfg.Simulation.StartingCash = 500
	}
	if cfg.Simulation.DailyFee <= 0 {
		cfg.Simulation.DailyFee = 2
	}
	if cfg.Simulation.StarterInventoryUnits < 0 {
		cfg.Simulation.StarterInventoryUnits = 0
	} else if cfg.Simulation.StarterInventoryUnits == 0 {
		cfg.Simulation.StarterInventoryUnits = 20
	}
	if cfg.Simulation.BankruptcyThreshold <= 0 {
		cfg.Simulation.BankruptcyThreshold = 10
	}
	if cfg.Simulation.DirectOrderLagDays <= 0 {
		cfg.Simulation.DirectOrderLagDays = 3
	}
	if cfg.Billing.Scale <= 0 {
		cfg.Billing.Scale = 1_000_000
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "vendsim.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
