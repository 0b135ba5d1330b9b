package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer  string // Issuer claim for access tokens (default: potluck)
	BaseURL string // Public base URL embedded in confirmation links (default: http://localhost:8080)

	DatabaseFile string // Path to SQLite database file (default: ./potluck.db)

	SMTPHost     string // SMTP relay host (default: localhost)
	SMTPPort     int    // SMTP relay port (default: 587)
	SMTPUsername string // Optional: SMTP auth username
	SMTPPassword string // Optional: SMTP auth password
	SMTPFrom     string // From address on outbound mail (default: no-reply@potluck.local)

	AccessTTL            time.Duration // Access token lifetime (default: 15m)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-token sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:               getEnvOrDefault("ISSUER", "potluck"),
		BaseURL:              getEnvOrDefault("BASE_URL", "http://localhost:8080"),
		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "potluck.db"),
		SMTPHost:             getEnvOrDefault("SMTP_HOST", "localhost"),
		SMTPPort:             getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername:         os.Getenv("SMTP_USERNAME"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:             getEnvOrDefault("SMTP_FROM", "no-reply@potluck.local"),
		AccessTTL:            getEnvDurationOrDefault("ACCESS_TTL", 15*time.Minute),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
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
