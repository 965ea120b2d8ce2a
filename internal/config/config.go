// Package config holds the runtime configuration for the warden server.
// It is read once from the environment at startup and treated as immutable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DatabaseURL string

	// HTTP server
	Addr string

	// Session
	SessionTTL   time.Duration
	CookieSecure bool

	// CSRF
	CSRFSecret string
}

// Load reads the configuration from environment variables.
// An error is returned when a required variable is missing.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.CSRFSecret = os.Getenv("CSRF_SECRET")
	if cfg.CSRFSecret == "" {
		missing = append(missing, "CSRF_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("config: required environment variables are not set: %v", missing)
	}

	cfg.Addr = getEnvString("ADDR", ":8080")
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", 12*time.Hour)
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", false)

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}

	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}

	return d
}
