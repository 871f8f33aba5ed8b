package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the trading simulator server
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Clients     ClientsConfig  `toml:"clients"`
	Logging     LoggingConfig  `toml:"logging"`
	Auth        AuthConfig     `toml:"auth"`
	Trading     TradingConfig  `toml:"trading"`
	Quotes      QuotesConfig   `toml:"quotes"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds paths for the storage areas.
type StorageConfig struct {
	Internal AreaConfig `toml:"internal"` // user accounts (BadgerHold)
	Ledger   AreaConfig `toml:"ledger"`   // transaction ledger (BadgerHold)
	Market   AreaConfig `toml:"market"`   // instrument index (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD EODHDConfig `toml:"eodhd"`
}

// EODHDConfig holds quote-provider API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// TradingConfig holds trading simulation parameters.
type TradingConfig struct {
	OpeningCashBalance float64 `toml:"opening_cash_balance"` // granted on registration, GBP
}

// QuotesConfig holds quote normalization and fallback policy settings.
type QuotesConfig struct {
	BaseCurrency    string   `toml:"base_currency"`     // "GBP"
	MinorUnitCodes  []string `toml:"minor_unit_codes"`  // currency codes quoted in 1/100 of base
	FallbackPolicy  string   `toml:"fallback_policy"`   // "pessimistic" (default) or "optimistic"
	FetchTimeout    string   `toml:"fetch_timeout"`     // bound on the batched quote call
	RefreshInterval string   `toml:"refresh_interval"`  // snapshot poll cadence, "" disables
}

// GetFetchTimeout parses and returns the quote fetch timeout.
func (c *QuotesConfig) GetFetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetRefreshInterval parses the poll cadence. Zero disables the refresher.
func (c *QuotesConfig) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 0
	}
	return d
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Internal: AreaConfig{Path: "data/internal"},
			Ledger:   AreaConfig{Path: "data/ledger"},
			Market:   AreaConfig{Path: "data/market"},
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Trading: TradingConfig{
			OpeningCashBalance: 100000,
		},
		Quotes: QuotesConfig{
			BaseCurrency:    "GBP",
			MinorUnitCodes:  []string{"GBX", "GBp"},
			FallbackPolicy:  "pessimistic",
			FetchTimeout:    "10s",
			RefreshInterval: "60s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateQuotesConfig(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKSIM_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("STOCKSIM_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("STOCKSIM_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("STOCKSIM_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if key := os.Getenv("EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	}

	if v := os.Getenv("STOCKSIM_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}

	if v := os.Getenv("STOCKSIM_OPENING_CASH"); v != "" {
		if cash, err := strconv.ParseFloat(v, 64); err == nil && cash > 0 {
			config.Trading.OpeningCashBalance = cash
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// validateQuotesConfig normalizes the quote policy fields, falling back to the
// pessimistic default for unrecognised values.
func validateQuotesConfig(config *Config) {
	config.Quotes.BaseCurrency = strings.ToUpper(strings.TrimSpace(config.Quotes.BaseCurrency))
	if config.Quotes.BaseCurrency == "" {
		config.Quotes.BaseCurrency = "GBP"
	}
	policy := strings.ToLower(strings.TrimSpace(config.Quotes.FallbackPolicy))
	if policy != "optimistic" {
		policy = "pessimistic"
	}
	config.Quotes.FallbackPolicy = policy
	if len(config.Quotes.MinorUnitCodes) == 0 {
		config.Quotes.MinorUnitCodes = []string{"GBX", "GBp"}
	}
}
