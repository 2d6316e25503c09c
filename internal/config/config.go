package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the engine
type Config struct {
	// Common
	Environment string
	LogLevel    string

	// Exchange
	Exchange string

	// Cache
	Cache CacheConfig

	// Market Data
	MarketData MarketDataConfig
}

// CacheConfig holds percentage cache configuration
type CacheConfig struct {
	TTL time.Duration
}

// MarketDataConfig holds market data provider configuration
type MarketDataConfig struct {
	Provider  string // "alpaca" or "mock"
	APIKey    string
	APISecret string
	BaseURL   string
	Feed      string
}

// Load loads configuration from environment variables.
// It automatically loads a .env file if one exists.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Exchange:    getEnv("EXCHANGE", "NYSE"),
		Cache: CacheConfig{
			TTL: getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
		MarketData: MarketDataConfig{
			Provider:  getEnv("MARKET_DATA_PROVIDER", "alpaca"),
			APIKey:    getEnv("MARKET_DATA_API_KEY", ""),
			APISecret: getEnv("MARKET_DATA_API_SECRET", ""),
			BaseURL:   getEnv("MARKET_DATA_BASE_URL", ""),
			Feed:      getEnv("MARKET_DATA_FEED", "iex"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	switch c.MarketData.Provider {
	case "mock":
	case "alpaca":
		if c.MarketData.APIKey == "" {
			return fmt.Errorf("MARKET_DATA_API_KEY is required for the alpaca provider")
		}
		if c.MarketData.APISecret == "" {
			return fmt.Errorf("MARKET_DATA_API_SECRET is required for the alpaca provider")
		}
	default:
		return fmt.Errorf("unknown MARKET_DATA_PROVIDER %q", c.MarketData.Provider)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
