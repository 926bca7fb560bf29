package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset settings.
	DatasetPath   string
	DatasetURL    string
	EventType     string // exact EVENT_TYPE value to keep
	DefaultRating string

	// Boundary settings.
	BoundaryPath      string
	SimplifyTolerance float64

	FigureCacheSize int
}

// defaultDatasetURL points at the published storm-events CSV, identified by an
// opaque file ID on a shared file host. Fetched once at startup if absent.
const defaultDatasetURL = "https://drive.google.com/uc?export=download&id=1WDsm4qBNcGg8MOskRcLvSRGRU41Ef6rX"

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	tolerance, err := parseFloat("SIMPLIFY_TOLERANCE", "0.01")
	if err != nil {
		return nil, err
	}
	if tolerance < 0 {
		return nil, errors.New("SIMPLIFY_TOLERANCE must be >= 0")
	}

	cacheSize, err := parseInt("FIGURE_CACHE_SIZE", "64")
	if err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		return nil, errors.New("FIGURE_CACHE_SIZE must be > 0")
	}

	cfg := &Config{
		HTTPAddr:        httpAddr(),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatasetPath:   envOrDefault("DATASET_PATH", "us-weather-events-1980-2024.csv"),
		DatasetURL:    envOrDefault("DATASET_URL", defaultDatasetURL),
		EventType:     envOrDefault("EVENT_TYPE", "Tornado"),
		DefaultRating: envOrDefault("DEFAULT_F_SCALE", "F0"),

		BoundaryPath:      envOrDefault("BOUNDARY_PATH", "gz_2010_us_050_00_20m.json"),
		SimplifyTolerance: tolerance,

		FigureCacheSize: cacheSize,
	}

	if cfg.DatasetPath == "" {
		return nil, errors.New("DATASET_PATH is required")
	}
	if cfg.BoundaryPath == "" {
		return nil, errors.New("BOUNDARY_PATH is required")
	}
	if cfg.EventType == "" {
		return nil, errors.New("EVENT_TYPE is required")
	}
	if _, err := url.ParseRequestURI(cfg.DatasetURL); err != nil {
		return nil, fmt.Errorf("invalid DATASET_URL: %w", err)
	}

	return cfg, nil
}

// httpAddr resolves the listen address. PORT (set by most hosting platforms)
// takes precedence over HTTP_ADDR; the service binds all interfaces.
func httpAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return envOrDefault("HTTP_ADDR", ":8080")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseFloat(key, fallback string) (float64, error) {
	s := envOrDefault(key, fallback)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return f, nil
}

func parseInt(key, fallback string) (int, error) {
	s := envOrDefault(key, fallback)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}
