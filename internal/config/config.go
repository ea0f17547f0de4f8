package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all service settings, populated from environment variables.
type AppConfig struct {
	OpenWeatherAPIKey string
	OpenWeatherURL    string
	OpenWeatherGeoURL string

	// HTTPTimeout bounds every outbound provider request.
	HTTPTimeout time.Duration

	// PrefsFile is the durable storage location for the preference record.
	PrefsFile string

	// RefreshInterval controls the background snapshot refresh job.
	RefreshInterval time.Duration

	// SnapshotMaxAge is how long a stored snapshot may be served as "latest".
	SnapshotMaxAge time.Duration

	GeocodeCacheSize int

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}
	cfg.OpenWeatherURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5")
	cfg.OpenWeatherGeoURL = getenvDefault("OPENWEATHER_GEO_URL", "https://api.openweathermap.org/geo/1.0")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.PrefsFile = getenvDefault("PREFS_FILE", "data/settings.json")

	interval, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	maxAge, err := time.ParseDuration(getenvDefault("SNAPSHOT_MAX_AGE", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_MAX_AGE: %w", err)
	}
	cfg.SnapshotMaxAge = maxAge

	cfg.GeocodeCacheSize = getenvInt("GEOCODE_CACHE_SIZE", 500)
	cfg.Port = getenvDefault("PORT", "8080")

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
