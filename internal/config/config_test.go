package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.BaseAPIURL)
	assert.NotEmpty(t, cfg.TokenPath)
	assert.Equal(t, "sistem-absensi", cfg.PhotoFolder)
	assert.Equal(t, float64(100), cfg.MaxDistanceM)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("BASE_API_URL", "https://absensi.example.com/api")
	t.Setenv("PHOTO_BACKEND", "local")
	t.Setenv("LOCATION_BACKEND", "static")
	t.Setenv("STATIC_LATITUDE", "-6.1754")
	t.Setenv("MAX_DISTANCE_M", "50")
	t.Setenv("POLL_INTERVAL", "30s")

	cfg := Load()

	assert.Equal(t, "https://absensi.example.com/api", cfg.BaseAPIURL)
	assert.Equal(t, "local", cfg.PhotoBackend)
	assert.Equal(t, "static", cfg.LocationBackend)
	assert.Equal(t, "-6.1754", cfg.StaticLatitude)
	assert.Equal(t, float64(50), cfg.MaxDistanceM)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_DISTANCE_M", "nearby")
	t.Setenv("JPEG_QUALITY", "best")

	cfg := Load()

	assert.Equal(t, float64(100), cfg.MaxDistanceM)
	assert.Equal(t, 85, cfg.JPEGQuality)
}
