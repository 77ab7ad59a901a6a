package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	// Session config
	assert.Equal(t, 5*time.Minute, cfg.Session.InactivityTimeout)

	// Telemetry config
	assert.Equal(t, "storefront", cfg.Telemetry.ServiceName)
	assert.Equal(t, 1000, cfg.Telemetry.SpanBufferSize)

	// Reporting config
	assert.Equal(t, "@every 1m", cfg.Reporting.Schedule)
	assert.True(t, cfg.Reporting.Enabled)

	// Simulation config
	assert.Equal(t, 10, cfg.Simulation.MinLatencyMs)
	assert.Equal(t, 120, cfg.Simulation.MaxLatencyMs)
	assert.InDelta(t, 0.15, cfg.Simulation.FailureRate, 1e-9)
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	// Setup environment variables
	envVars := map[string]string{
		"PORT":                       "9000",
		"HOST":                       "127.0.0.1",
		"LOG_LEVEL":                  "debug",
		"LOG_DEV":                    "true",
		"RATE_LIMIT_RPS":             "500",
		"RATE_LIMIT_BURST":           "1000",
		"RATE_LIMIT_ENABLED":         "false",
		"SESSION_INACTIVITY_TIMEOUT": "30s",
		"TELEMETRY_SERVICE":          "shop-demo",
		"TELEMETRY_SPAN_BUFFER":      "256",
		"REPORT_SCHEDULE":            "@every 5m",
		"REPORT_ENABLED":             "false",
		"SIM_MIN_LATENCY_MS":         "1",
		"SIM_MAX_LATENCY_MS":         "5",
		"SIM_FAILURE_RATE":           "0.5",
	}

	// Set environment variables
	for key, value := range envVars {
		err := os.Setenv(key, value)
		require.NoError(t, err)
		defer os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	// Verify server config
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	// Verify logging config
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	// Verify rate limit config
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)

	// Verify session config
	assert.Equal(t, 30*time.Second, cfg.Session.InactivityTimeout)

	// Verify telemetry config
	assert.Equal(t, "shop-demo", cfg.Telemetry.ServiceName)
	assert.Equal(t, 256, cfg.Telemetry.SpanBufferSize)

	// Verify reporting config
	assert.Equal(t, "@every 5m", cfg.Reporting.Schedule)
	assert.False(t, cfg.Reporting.Enabled)

	// Verify simulation config
	assert.Equal(t, 1, cfg.Simulation.MinLatencyMs)
	assert.Equal(t, 5, cfg.Simulation.MaxLatencyMs)
	assert.InDelta(t, 0.5, cfg.Simulation.FailureRate, 1e-9)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	// Only set some environment variables
	err := os.Setenv("PORT", "3000")
	require.NoError(t, err)
	defer os.Unsetenv("PORT")

	err = os.Setenv("SESSION_INACTIVITY_TIMEOUT", "2m")
	require.NoError(t, err)
	defer os.Unsetenv("SESSION_INACTIVITY_TIMEOUT")

	cfg, err := Load()
	require.NoError(t, err)

	// Verify overridden values
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Session.InactivityTimeout)

	// Verify default values still apply
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "storefront", cfg.Telemetry.ServiceName)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	err := os.Setenv("SESSION_INACTIVITY_TIMEOUT", "not-a-duration")
	require.NoError(t, err)
	defer os.Unsetenv("SESSION_INACTIVITY_TIMEOUT")

	_, err = Load()
	assert.Error(t, err)

	// LoadOrDefault falls back instead of failing
	cfg := LoadOrDefault()
	assert.Equal(t, 5*time.Minute, cfg.Session.InactivityTimeout)
}
