package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Catalog   CatalogConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds product-store configuration
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "memory" or "postgres"
	URL    string `mapstructure:"url"`
}

// CatalogConfig holds the upstream catalog export location
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// SearchConfig holds the optional Meilisearch index configuration
type SearchConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
	Index   string `mapstructure:"index"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shelfmetrics/")

	// Environment variable settings
	v.SetEnvPrefix("SHELFMETRICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about; bind the
	// keys that have no default so their env vars are picked up too.
	v.BindEnv("database.url")
	v.BindEnv("search.api_key")

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
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Database defaults
	v.SetDefault("database.driver", "memory")

	// Catalog defaults
	v.SetDefault("catalog.path", "./data/products.csv")

	// Search defaults
	v.SetDefault("search.enabled", false)
	v.SetDefault("search.url", "http://127.0.0.1:7700")
	v.SetDefault("search.index", "products")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.Driver != "memory" && config.Database.Driver != "postgres" {
		return fmt.Errorf("database driver must be 'memory' or 'postgres', got: %s", config.Database.Driver)
	}

	if config.Database.Driver == "postgres" && config.Database.URL == "" {
		return fmt.Errorf("database URL is required when driver is 'postgres' (set SHELFMETRICS_DATABASE_URL)")
	}

	if config.Search.Enabled {
		if config.Search.URL == "" {
			return fmt.Errorf("search URL is required when search is enabled")
		}
		if config.Search.Index == "" {
			return fmt.Errorf("search index name is required when search is enabled")
		}
	}

	return nil
}
