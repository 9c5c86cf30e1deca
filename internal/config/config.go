// Package config manages application configuration
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        string `toml:"port"`
	Environment string `toml:"environment"` // "development" or "production"

	// Database (fund catalog only, simulated portfolios are never stored)
	DatabaseURL string `toml:"database_url"`
	CatalogFile string `toml:"catalog_file"` // Imported into the database at startup when set

	// Security
	SecretKey string `toml:"secret_key"` // For JWT signing

	// Session settings. The TOML file carries durations as strings ("24h"),
	// which Load parses into the typed fields.
	SessionDuration time.Duration `toml:"-"`
	SessionSweep    time.Duration `toml:"-"`
	SessionTTL      string        `toml:"session_duration"`
	SweepInterval   string        `toml:"session_sweep"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // "console" or "json"

	// Rate limiting (requests per second per client)
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`

	// Simulation
	Horizons          []int   `toml:"horizons"`
	DefaultInvestment float64 `toml:"default_investment"`
	Currency          string  `toml:"currency"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Port:              "8080",
		Environment:       "development",
		DatabaseURL:       "fundsim.db",
		SecretKey:         "dev-secret-key-change-in-production",
		SessionDuration:   24 * time.Hour,
		SessionSweep:      10 * time.Minute,
		LogLevel:          "info",
		LogFormat:         "console",
		RateLimit:         20,
		RateBurst:         40,
		Horizons:          []int{1, 3, 5},
		DefaultInvestment: 10000,
		Currency:          "MAD",
	}
}

// Load builds the configuration from defaults, then each TOML file in order
// (missing files are skipped), then environment variables.
func Load(paths ...string) (*Config, error) {
	cfg := Default()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if err := cfg.parseDurations(); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parseDurations() error {
	if c.SessionTTL != "" {
		d, err := time.ParseDuration(c.SessionTTL)
		if err != nil {
			return fmt.Errorf("session_duration: %w", err)
		}
		c.SessionDuration = d
	}
	if c.SweepInterval != "" {
		d, err := time.ParseDuration(c.SweepInterval)
		if err != nil {
			return fmt.Errorf("session_sweep: %w", err)
		}
		c.SessionSweep = d
	}
	c.SessionTTL, c.SweepInterval = "", ""
	return nil
}

func applyEnv(c *Config) {
	c.Port = getEnv("FUNDSIM_PORT", c.Port)
	c.Environment = getEnv("FUNDSIM_ENV", c.Environment)
	c.DatabaseURL = getEnv("FUNDSIM_DATABASE_URL", c.DatabaseURL)
	c.CatalogFile = getEnv("FUNDSIM_CATALOG_FILE", c.CatalogFile)
	c.SecretKey = getEnv("FUNDSIM_SECRET_KEY", c.SecretKey)
	c.SessionDuration = getDurationEnv("FUNDSIM_SESSION_DURATION", c.SessionDuration)
	c.SessionSweep = getDurationEnv("FUNDSIM_SESSION_SWEEP", c.SessionSweep)
	c.LogLevel = getEnv("FUNDSIM_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("FUNDSIM_LOG_FORMAT", c.LogFormat)
	c.RateLimit = getFloatEnv("FUNDSIM_RATE_LIMIT", c.RateLimit)
	c.RateBurst = getIntEnv("FUNDSIM_RATE_BURST", c.RateBurst)
	c.Horizons = getIntListEnv("FUNDSIM_HORIZONS", c.Horizons)
	c.DefaultInvestment = getFloatEnv("FUNDSIM_DEFAULT_INVESTMENT", c.DefaultInvestment)
	c.Currency = getEnv("FUNDSIM_CURRENCY", c.Currency)
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key must not be empty")
	}
	if c.SessionDuration <= 0 {
		return fmt.Errorf("session duration must be positive, got %s", c.SessionDuration)
	}
	for _, h := range c.Horizons {
		if h < 0 {
			return fmt.Errorf("projection horizon must not be negative, got %d", h)
		}
	}
	if c.DefaultInvestment < 0 {
		return fmt.Errorf("default investment must not be negative, got %v", c.DefaultInvestment)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getIntListEnv parses a comma separated list such as "1,3,5"
func getIntListEnv(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}
