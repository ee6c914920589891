package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	UI     UIConfig     `mapstructure:"ui"`
	Print  PrintConfig  `mapstructure:"print"`
	Server ServerConfig `mapstructure:"server"`
	Logger LoggerConfig `mapstructure:"logger"`
}

// APIConfig holds remote voucher service configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UIConfig holds front-end defaults for the creation form and actions
type UIConfig struct {
	Association   string `mapstructure:"association"`
	FinancialYear string `mapstructure:"financial_year"`
	Operator      string `mapstructure:"operator"` // actor name sent on approve
}

// PrintConfig holds printable-voucher output configuration
type PrintConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// ServerConfig holds the development API server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	DatabasePath string        `mapstructure:"database_path"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from an optional file and environment variables.
// An empty configPath skips the file and runs on defaults plus environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", "http://localhost:3000")
	v.SetDefault("api.timeout", 0) // no timeout; a hung call blocks only its own action

	// UI defaults
	v.SetDefault("ui.association", "Nunchaku Association of India")
	v.SetDefault("ui.financial_year", "2025-26")
	v.SetDefault("ui.operator", "system")

	// Print defaults
	v.SetDefault("print.output_dir", "printed_vouchers")

	// Dev server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.database_path", "data/vouchers.db")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stderr")
	v.SetDefault("logger.format", "console")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("api.base_url", "VOUCHER_API_URL")
	v.BindEnv("ui.association", "VOUCHER_ASSOCIATION")
	v.BindEnv("ui.financial_year", "VOUCHER_FINANCIAL_YEAR")
	v.BindEnv("ui.operator", "VOUCHER_OPERATOR")
	v.BindEnv("print.output_dir", "VOUCHER_PRINT_DIR")
	v.BindEnv("server.database_path", "VOUCHER_DB_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.UI.Association == "" {
		return fmt.Errorf("ui.association is required")
	}
	if c.UI.FinancialYear == "" {
		return fmt.Errorf("ui.financial_year is required")
	}
	if c.Print.OutputDir == "" {
		return fmt.Errorf("print.output_dir is required")
	}
	return nil
}
