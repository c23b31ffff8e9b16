package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AccessTokenSecret  string        // Required: HMAC secret for access tokens
	RefreshTokenSecret string        // Required: HMAC secret for refresh tokens, must differ from the access secret
	AccessTokenTTL     time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenTTL    time.Duration // Optional: refresh token lifetime (default: 168h)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./bloggerhub.db)
	PepperFile          string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		AccessTokenSecret:  os.Getenv("AUTH_ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("AUTH_REFRESH_TOKEN_SECRET"),
		AccessTokenTTL: time.Duration(
			getEnvIntOrDefault("AUTH_ACCESS_TOKEN_TTL_MINUTES", 15),
		) * time.Minute,
		RefreshTokenTTL: time.Duration(
			getEnvIntOrDefault("AUTH_REFRESH_TOKEN_TTL_DAYS", 7),
		) * 24 * time.Hour,

		DatabaseFile:        getEnvOrDefault("AUTH_DATABASE_FILE", "bloggerhub.db"),
		PepperFile:          getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer seconds also accepted
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
