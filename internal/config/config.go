package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/openmeteo-daily-aggregation/internal/meteo"
)

type AppConfig struct {
	// HTTPTimeout bounds every outbound request to the upstream API.
	HTTPTimeout time.Duration

	// OutputDir is where per-day JSON/CSV exports land.
	OutputDir string

	// GeocoderAPIKey enables --city/--country resolution; optional.
	GeocoderAPIKey string

	// Postgres settings; DatabaseURL() is empty when no database is
	// configured and callers fall back to the in-memory store.
	PostgresHost     string
	PostgresPort     string
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string

	// Serve mode.
	Port       string
	ScheduleAt string // daily refresh wall time, "HH:MM" UTC
	Locations  []meteo.Location
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msgf("no .env file loaded: %v", err)
	}

	cfg := &AppConfig{}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.OutputDir = getenvDefault("OUTPUT_DIR", "output")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.PostgresHost = getenvDefault("POSTGRES_HOST", "localhost")
	cfg.PostgresPort = getenvDefault("POSTGRES_PORT", "5432")
	cfg.PostgresDB = os.Getenv("POSTGRES_DB")
	cfg.PostgresUser = os.Getenv("POSTGRES_USER")
	cfg.PostgresPassword = os.Getenv("POSTGRES_PASSWORD")

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.ScheduleAt = getenvDefault("SCHEDULE_AT", "01:00")

	locs, err := parseLocations(os.Getenv("LOCATIONS"))
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	return cfg, nil
}

// DatabaseURL assembles the postgres connection string, or returns "" when
// POSTGRES_DB is not set.
func (c *AppConfig) DatabaseURL() string {
	if c.PostgresDB == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

// parseLocations parses the LOCATIONS env var: semicolon-separated
// "lon,lat" pairs, e.g. "83.0,55.0;13.405,52.52".
func parseLocations(raw string) ([]meteo.Location, error) {
	if raw == "" {
		return nil, nil
	}

	var locs []meteo.Location
	for _, pair := range strings.Split(raw, ";") {
		parts := strings.Split(strings.TrimSpace(pair), ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid LOCATIONS entry %q: want lon,lat", pair)
		}
		loc, err := meteo.NewLocation(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid LOCATIONS entry %q: %w", pair, err)
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
