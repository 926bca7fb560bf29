package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "us-weather-events-1980-2024.csv", cfg.DatasetPath)
	assert.Equal(t, "Tornado", cfg.EventType)
	assert.Equal(t, "F0", cfg.DefaultRating)
	assert.Equal(t, "gz_2010_us_050_00_20m.json", cfg.BoundaryPath)
	assert.Equal(t, 0.01, cfg.SimplifyTolerance)
	assert.Equal(t, 64, cfg.FigureCacheSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATASET_PATH", "/data/events.csv")
	t.Setenv("DATASET_URL", "https://example.com/events.csv")
	t.Setenv("EVENT_TYPE", "Hail")
	t.Setenv("DEFAULT_F_SCALE", "F1")
	t.Setenv("BOUNDARY_PATH", "/data/counties.json")
	t.Setenv("SIMPLIFY_TOLERANCE", "0.05")
	t.Setenv("FIGURE_CACHE_SIZE", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/data/events.csv", cfg.DatasetPath)
	assert.Equal(t, "https://example.com/events.csv", cfg.DatasetURL)
	assert.Equal(t, "Hail", cfg.EventType)
	assert.Equal(t, "F1", cfg.DefaultRating)
	assert.Equal(t, "/data/counties.json", cfg.BoundaryPath)
	assert.Equal(t, 0.05, cfg.SimplifyTolerance)
	assert.Equal(t, 8, cfg.FigureCacheSize)
}

func TestLoad_PortOverridesAddr(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.HTTPAddr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"negative shutdown timeout", "SHUTDOWN_TIMEOUT", "-5s"},
		{"bad tolerance", "SIMPLIFY_TOLERANCE", "tiny"},
		{"negative tolerance", "SIMPLIFY_TOLERANCE", "-0.01"},
		{"bad cache size", "FIGURE_CACHE_SIZE", "lots"},
		{"zero cache size", "FIGURE_CACHE_SIZE", "0"},
		{"bad dataset url", "DATASET_URL", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
