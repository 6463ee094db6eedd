package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	// DatabaseURL is the Postgres DSN for the snapshot cache. When empty the
	// service falls back to the in-memory store.
	DatabaseURL string

	// OpenWeatherAPIKey is optional: without it the current-weather endpoint
	// serves mock data and the forecast endpoint fails.
	OpenWeatherAPIKey string

	// DefaultLocation is used when the request carries no location parameter.
	DefaultLocation string
	// LocationCountry is appended to the upstream query ("Santiago,CL").
	LocationCountry string

	// Freshness windows evaluated at cache-read time.
	CurrentTTL  time.Duration
	ForecastTTL time.Duration

	// Snapshot retention for the pruning job.
	StoreMaxAge   time.Duration
	PruneInterval time.Duration

	// Outbound HTTP client settings.
	HTTPTimeout   time.Duration
	UpstreamRPS   float64
	UpstreamBurst int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	// A missing .env file is fine; env vars may come from the runtime.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.DefaultLocation = getenvDefault("DEFAULT_LOCATION", "Santiago")
	cfg.LocationCountry = getenvDefault("LOCATION_COUNTRY", "CL")

	var err error
	if cfg.CurrentTTL, err = getenvDuration("CACHE_TTL_CURRENT", "30m"); err != nil {
		return nil, err
	}
	if cfg.ForecastTTL, err = getenvDuration("CACHE_TTL_FORECAST", "6h"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "168h"); err != nil {
		return nil, err
	}
	if cfg.PruneInterval, err = getenvDuration("PRUNE_INTERVAL", "1h"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.UpstreamRPS = getenvFloat("UPSTREAM_RPS", 1)
	cfg.UpstreamBurst = getenvInt("UPSTREAM_BURST", 3)

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
