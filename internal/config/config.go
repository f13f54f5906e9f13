// Package config provides configuration management for the arena tracker.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Chain     ChainConfig
	Ledger    LedgerConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Poll      PollConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port string
}

// ChainConfig holds chain RPC and contract addresses
type ChainConfig struct {
	RPCURL           string
	CardContract     string
	MarketContract   string
	TourneyContract  string
	SalesContract    string
	RequestTimeout   time.Duration
}

// LedgerConfig holds score ledger service configuration
type LedgerConfig struct {
	BaseURL string
	Timeout time.Duration
	// ScoreDayBoundary is the timezone used for the "today's points" cutoff.
	// The ledger's own convention is UTC; keep this in sync with it.
	ScoreDayBoundary string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// CacheConfig holds cache TTLs
type CacheConfig struct {
	FloorPriceTTL  time.Duration
	LeaderboardTTL time.Duration
}

// PollConfig holds refresh scheduling configuration
type PollConfig struct {
	LeaderboardInterval time.Duration
	LeaderboardLimit    int
}

// RateLimitConfig holds API rate limiting configuration
type RateLimitConfig struct {
	FreeTierRPS int
	PaidTierRPS int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// Load .env file (optional in production)
	if err := godotenv.Load(); err != nil {
		// .env file is optional - environment variables can be set directly
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Chain: ChainConfig{
			RPCURL:          getEnv("CHAIN_RPC_URL", "http://localhost:8545"),
			CardContract:    getEnv("CARD_CONTRACT", ""),
			MarketContract:  getEnv("MARKET_CONTRACT", ""),
			TourneyContract: getEnv("TOURNAMENT_CONTRACT", ""),
			SalesContract:   getEnv("SALES_CONTRACT", ""),
			RequestTimeout:  getEnvAsDuration("CHAIN_REQUEST_TIMEOUT", 10*time.Second),
		},
		Ledger: LedgerConfig{
			BaseURL:          getEnv("LEDGER_BASE_URL", "http://localhost:9090"),
			Timeout:          getEnvAsDuration("LEDGER_TIMEOUT", 10*time.Second),
			ScoreDayBoundary: getEnv("SCORE_DAY_BOUNDARY", "UTC"),
		},
		Redis: RedisConfig{
			Host:           getEnv("REDIS_HOST", "localhost"),
			Port:           getEnv("REDIS_PORT", "6379"),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             getEnvAsInt("REDIS_DB", 0),
			MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 50),
		},
		Cache: CacheConfig{
			FloorPriceTTL:  getEnvAsDuration("FLOOR_PRICE_TTL", 60*time.Second),
			LeaderboardTTL: getEnvAsDuration("LEADERBOARD_TTL", 60*time.Second),
		},
		Poll: PollConfig{
			LeaderboardInterval: getEnvAsDuration("LEADERBOARD_POLL_INTERVAL", 60*time.Second),
			LeaderboardLimit:    getEnvAsInt("LEADERBOARD_LIMIT", 10),
		},
		RateLimit: RateLimitConfig{
			FreeTierRPS: getEnvAsInt("RATE_LIMIT_FREE_TIER", 10),
			PaidTierRPS: getEnvAsInt("RATE_LIMIT_PAID_TIER", 100),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// ScoreDayLocation resolves the configured score-day boundary timezone.
// Falls back to UTC when the name does not resolve.
func (c *Config) ScoreDayLocation() *time.Location {
	loc, err := time.LoadLocation(c.Ledger.ScoreDayBoundary)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
