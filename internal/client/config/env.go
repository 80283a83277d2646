package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by parseEnv.
const (
	EnvServerBaseURL       = "POSSYNC_SERVER_BASE_URL"
	EnvDatabasePath        = "POSSYNC_DATABASE_PATH"
	EnvOnlineCheckInterval = "POSSYNC_ONLINE_CHECK_INTERVAL"
	EnvRequestTimeout      = "POSSYNC_REQUEST_TIMEOUT"
)

// parseEnv overlays Config with values from environment variables. A .env
// file in the working directory is loaded first if present; a missing file
// is not an error. Already-exported variables win over .env entries, which
// is godotenv's default behavior.
//
// Interval variables accept the time.Duration string syntax ("3s", "500ms").
// A bare integer is treated as seconds.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv(EnvServerBaseURL); v != "" {
		cfg.ServerBaseURL = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(EnvOnlineCheckInterval); v != "" {
		cfg.OnlineCheckInterval = parseDurationEnv(v, cfg.OnlineCheckInterval)
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		cfg.RequestTimeout = parseDurationEnv(v, cfg.RequestTimeout)
	}
}

func parseDurationEnv(value string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
