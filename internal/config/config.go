package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the journal tooling.
type Config struct {
	PostgresDSN string `mapstructure:"postgres_dsn"`

	OutputDir string `mapstructure:"output_dir"`

	// Statistical conventions for the analytics engine.
	AnnualRiskFreeRate float64 `mapstructure:"annual_risk_free_rate"`
	TradingDaysPerYear int     `mapstructure:"trading_days_per_year"`
	Workers            int     `mapstructure:"workers"`

	// DecimalPrecision is the division precision of the decimal context.
	DecimalPrecision int `mapstructure:"decimal_precision"`

	DebugLogging bool `mapstructure:"debug_logging"`
}

const (
	DefaultOutputDir          = "reports"
	DefaultAnnualRiskFreeRate = 0.05
	DefaultTradingDaysPerYear = 252
	DefaultDecimalPrecision   = 28
)

// Load reads the config file at path, applies defaults and environment
// overrides (TRADE_JOURNAL_ prefix) and validates the result. An empty path
// skips the file and uses defaults plus environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"output_dir":            DefaultOutputDir,
		"annual_risk_free_rate": DefaultAnnualRiskFreeRate,
		"trading_days_per_year": DefaultTradingDaysPerYear,
		"decimal_precision":     DefaultDecimalPrecision,
		"workers":               0,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("TRADE_JOURNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, validate(&cfg)
}

func validate(cfg *Config) error {
	if cfg.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if cfg.AnnualRiskFreeRate < 0 {
		return errors.New("annual_risk_free_rate must not be negative")
	}
	if cfg.TradingDaysPerYear <= 0 {
		return errors.New("trading_days_per_year must be positive")
	}
	if cfg.DecimalPrecision <= 0 {
		return errors.New("decimal_precision must be positive")
	}
	if cfg.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	return nil
}
