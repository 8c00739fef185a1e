package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Stats cache backend constants
const (
	StatsCacheTypeMemory = "memory"
	StatsCacheTypeRedis  = "redis"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

type Config struct {
	// Server settings
	ServerAddr   string
	IsProduction bool

	// Inbound API authentication
	APISecret string // HMAC secret for inbound bearer JWTs

	// Database
	DatabaseDriver string // "sqlite"
	DatabaseDSN    string

	// Token file tier
	TokenFilePath string

	// Status poller
	PollEnabled  bool
	PollInterval time.Duration
	PollBatch    int

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string // optional bearer token for /metrics
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration

	// Dashboard stats cache
	StatsCacheType string // "memory" or "redis"

	// Redis (stats cache and distributed rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Inbound rate limiting
	EnableRateLimit          bool
	RateLimitStore           string // "memory" or "redis"
	SubmitRateLimit          int    // requests per minute on the submission endpoint
	QueryRateLimit           int    // requests per minute on read endpoints
	RateLimitCleanupInterval time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		IsProduction: getEnvBool("PRODUCTION", false),

		APISecret: getEnv("API_SECRET", ""),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "einvoice.db"),

		TokenFilePath: getEnv("TOKEN_FILE_PATH", "data/lhdn_token.ini"),

		PollEnabled:  getEnvBool("POLL_ENABLED", true),
		PollInterval: getEnvDuration("POLL_INTERVAL", 2*time.Minute),
		PollBatch:    getEnvInt("POLL_BATCH", 50),

		MetricsEnabled:             getEnvBool("METRICS_ENABLED", true),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 30*time.Second),

		StatsCacheType: getEnv("STATS_CACHE_TYPE", StatsCacheTypeMemory),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		SubmitRateLimit:          getEnvInt("SUBMIT_RATE_LIMIT", 60),
		QueryRateLimit:           getEnvInt("QUERY_RATE_LIMIT", 300),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
	}
}

// Validate checks the configuration for startup-blocking problems.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}

	if c.APISecret == "" && c.IsProduction {
		return errors.New("API_SECRET is required in production")
	}

	switch c.StatsCacheType {
	case StatsCacheTypeMemory, StatsCacheTypeRedis:
	default:
		return fmt.Errorf(
			"invalid STATS_CACHE_TYPE: %s (must be: memory, redis)",
			c.StatsCacheType,
		)
	}

	switch c.RateLimitStore {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		return fmt.Errorf(
			"invalid RATE_LIMIT_STORE: %s (must be: memory, redis)",
			c.RateLimitStore,
		)
	}

	if c.PollEnabled && c.PollInterval <= 0 {
		return errors.New("POLL_INTERVAL must be positive when POLL_ENABLED=true")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
