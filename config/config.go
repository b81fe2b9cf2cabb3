package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	OFF       OFFConfig
	Cache     CacheConfig
	Scoring   ScoringConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OFFConfig holds Open Food Facts API configuration
type OFFConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ScoringConfig selects the coefficient set the scoring engine runs with
type ScoringConfig struct {
	Variant string `mapstructure:"variant"` // "strict" or "moderate2023"
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
	OFF   int `mapstructure:"off"` // upstream requests per minute
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shelfscore/")

	// Environment variable settings
	v.SetEnvPrefix("SHELFSCORE")
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
	v.SetDefault("server.allowed_origins", []string{"capacitor://*", "http://localhost:*"})

	// Open Food Facts defaults
	v.SetDefault("off.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("off.user_agent", "ShelfScore/1.0 (backend)")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Scoring defaults
	v.SetDefault("scoring.variant", "strict")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.off", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.OFF.BaseURL == "" {
		return fmt.Errorf("Open Food Facts base URL is required (set SHELFSCORE_OFF_BASE_URL)")
	}

	if config.OFF.UserAgent == "" {
		return fmt.Errorf("Open Food Facts requires a descriptive User-Agent (set SHELFSCORE_OFF_USER_AGENT)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Scoring.Variant != "strict" && config.Scoring.Variant != "moderate2023" {
		return fmt.Errorf("scoring variant must be 'strict' or 'moderate2023', got: %s", config.Scoring.Variant)
	}

	return nil
}
