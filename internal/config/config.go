// Package config loads server settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/splitvault/pkg/logging"
)

// DevJWTSecret is used when JWT_SECRET is unset. Never rely on it outside
// local development.
const DevJWTSecret = "splitvault-dev-secret"

// Config holds every server setting.
type Config struct {
	Port   int    // PORT
	DBPath string // DB_PATH

	JWTSecret     string        // JWT_SECRET
	TokenDuration time.Duration // TOKEN_DURATION, e.g. "24h"

	LogLevel       slog.Level // LOG_LEVEL
	MetricsEnabled bool       // METRICS_ENABLED

	// DeadlockTimeout bounds how long a lock may be awaited before a
	// potential deadlock is reported. Zero disables detection.
	DeadlockTimeout time.Duration // DEADLOCK_TIMEOUT

	// DevFundAsset is the asset credited by the fund command.
	DevFundAsset string // DEV_FUND_ASSET
}

// Load reads .env (if present) and then the process environment. Variables
// already set in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset variables.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if value := getenv(key); value != "" {
			return value
		}
		return fallback
	}

	port, err := strconv.Atoi(get("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", getenv("PORT"))
	}

	tokenDuration, err := time.ParseDuration(get("TOKEN_DURATION", "24h"))
	if err != nil || tokenDuration <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_DURATION %q", getenv("TOKEN_DURATION"))
	}

	metricsEnabled, err := strconv.ParseBool(get("METRICS_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid METRICS_ENABLED: %w", err)
	}

	deadlockTimeout, err := time.ParseDuration(get("DEADLOCK_TIMEOUT", "30s"))
	if err != nil || deadlockTimeout < 0 {
		return nil, fmt.Errorf("invalid DEADLOCK_TIMEOUT %q", getenv("DEADLOCK_TIMEOUT"))
	}

	return &Config{
		Port:            port,
		DBPath:          get("DB_PATH", "./data/splitvault.db"),
		JWTSecret:       get("JWT_SECRET", DevJWTSecret),
		TokenDuration:   tokenDuration,
		LogLevel:        logging.ParseLevel(getenv("LOG_LEVEL")),
		MetricsEnabled:  metricsEnabled,
		DeadlockTimeout: deadlockTimeout,
		DevFundAsset:    get("DEV_FUND_ASSET", "native"),
	}, nil
}
