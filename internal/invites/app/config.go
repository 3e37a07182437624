package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	JWTSecret string // Required: shared secret verifying platform-issued HS256 tokens
	JWTIssuer string // Optional: expected issuer claim (skipped when empty)

	WebhookURL    string // Optional: endpoint for invite lifecycle events (disabled when empty)
	WebhookSecret string // Optional: HMAC key for webhook signatures

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./invites.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	// Store-backed validation throttle, per source IP. Independent of the
	// in-process HTTP rate limits.
	ValidateMaxTokens int           // Optional: bucket capacity (default: 10)
	ValidateRefill    int           // Optional: tokens refilled per window (default: 10)
	ValidateWindow    time.Duration // Optional: refill window (default: 1m)
}

func LoadConfig() Config {
	return Config{
		JWTSecret:            os.Getenv("INVITES_JWT_SECRET"),
		JWTIssuer:            os.Getenv("INVITES_JWT_ISSUER"),
		WebhookURL:           os.Getenv("INVITES_WEBHOOK_URL"),
		WebhookSecret:        os.Getenv("INVITES_WEBHOOK_SECRET"),
		DatabaseFile:         getEnvOrDefault("INVITES_DATABASE_FILE", "invites.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		ValidateMaxTokens:    getEnvIntOrDefault("VALIDATE_RATE_MAX_TOKENS", 10),
		ValidateRefill:       getEnvIntOrDefault("VALIDATE_RATE_REFILL", 10),
		ValidateWindow:       getEnvDurationOrDefault("VALIDATE_RATE_WINDOW", time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
