package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Gemini     GeminiConfig
	Perplexity PerplexityConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GeminiConfig holds advice-model configuration
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// PerplexityConfig holds web-search-model configuration
type PerplexityConfig struct {
	APIKey            string `mapstructure:"api_key"`
	BaseURL           string `mapstructure:"base_url"`
	Model             string `mapstructure:"model"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
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
	v.AddConfigPath("/etc/levit/")

	// Environment variable settings
	v.SetEnvPrefix("LEVIT")
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
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Model defaults (empty api_key defaults register the keys for env lookup)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("perplexity.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar")
	v.SetDefault("perplexity.requests_per_minute", 20)

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set LEVIT_GEMINI_API_KEY)")
	}

	if config.Perplexity.APIKey == "" {
		return fmt.Errorf("Perplexity API key is required (set LEVIT_PERPLEXITY_API_KEY)")
	}

	if config.Perplexity.RequestsPerMinute < 0 {
		return fmt.Errorf("perplexity requests_per_minute must not be negative, got: %d", config.Perplexity.RequestsPerMinute)
	}

	return nil
}
