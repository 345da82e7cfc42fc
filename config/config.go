package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Search failure policies for the upstream client (see OFFConfig).
const (
	FailurePolicyError = "error"
	FailurePolicyEmpty = "empty"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	OFF    OFFConfig
	Cache  CacheConfig
	Search SearchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OFFConfig holds Open Food Facts client configuration
type OFFConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Retries     int           `mapstructure:"retries"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
	// SearchFailurePolicy controls what a search timeout becomes:
	// "error" surfaces it to the caller, "empty" yields an empty result page.
	SearchFailurePolicy string  `mapstructure:"search_failure_policy"`
	RatePerSec          float64 `mapstructure:"rate_per_sec"`
	RateBurst           int     `mapstructure:"rate_burst"`
}

// CacheConfig holds the TTLs of the two read-through caches
type CacheConfig struct {
	ProductTTL time.Duration `mapstructure:"product_ttl"`
	SearchTTL  time.Duration `mapstructure:"search_ttl"`
}

// SearchConfig holds search and presentation tuning
type SearchConfig struct {
	PageSize      int    `mapstructure:"page_size"`
	MaxRawResults int    `mapstructure:"max_raw_results"`
	Country       string `mapstructure:"country"`
	SortBy        string `mapstructure:"sort_by"`
	Language      string `mapstructure:"language"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutriscanner/")

	// Environment variable settings
	v.SetEnvPrefix("NUTRISCANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Open Food Facts defaults
	v.SetDefault("off.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("off.user_agent", "nutri-scanner/1.0 (github.com/nutriscanner/backend)")
	v.SetDefault("off.timeout", "8s")
	v.SetDefault("off.retries", 2)
	v.SetDefault("off.backoff_base", "500ms")
	v.SetDefault("off.search_failure_policy", FailurePolicyError)
	v.SetDefault("off.rate_per_sec", 0.5)
	v.SetDefault("off.rate_burst", 5)

	// Cache defaults: product lookups are stable for an hour, search results
	// go stale faster
	v.SetDefault("cache.product_ttl", "60m")
	v.SetDefault("cache.search_ttl", "10m")

	// Search defaults
	v.SetDefault("search.page_size", 7)
	v.SetDefault("search.max_raw_results", 100)
	v.SetDefault("search.country", "montenegro")
	v.SetDefault("search.sort_by", "unique_scans_n")
	v.SetDefault("search.language", "en")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.OFF.BaseURL == "" {
		return fmt.Errorf("Open Food Facts base URL is required (set NUTRISCANNER_OFF_BASE_URL)")
	}

	if policy := config.OFF.SearchFailurePolicy; policy != FailurePolicyError && policy != FailurePolicyEmpty {
		return fmt.Errorf("search failure policy must be %q or %q, got: %s", FailurePolicyError, FailurePolicyEmpty, policy)
	}

	if config.OFF.Retries < 0 {
		return fmt.Errorf("retries must be >= 0, got: %d", config.OFF.Retries)
	}

	if config.Search.PageSize < 1 {
		return fmt.Errorf("page size must be >= 1, got: %d", config.Search.PageSize)
	}

	if config.Search.MaxRawResults < config.Search.PageSize {
		return fmt.Errorf("max raw results (%d) must be at least the page size (%d)",
			config.Search.MaxRawResults, config.Search.PageSize)
	}

	return nil
}
