package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
	Session    SessionConfig
	Telemetry  TelemetryConfig
	Reporting  ReportingConfig
	Simulation SimulationConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// SessionConfig holds session tracking configuration.
type SessionConfig struct {
	InactivityTimeout time.Duration `envconfig:"SESSION_INACTIVITY_TIMEOUT" default:"5m"`
}

// TelemetryConfig holds tracing configuration.
type TelemetryConfig struct {
	ServiceName    string `envconfig:"TELEMETRY_SERVICE" default:"storefront"`
	SpanBufferSize int    `envconfig:"TELEMETRY_SPAN_BUFFER" default:"1000"`
}

// ReportingConfig holds the scheduled analytics report configuration.
type ReportingConfig struct {
	Schedule string `envconfig:"REPORT_SCHEDULE" default:"@every 1m"`
	Enabled  bool   `envconfig:"REPORT_ENABLED" default:"true"`
}

// SimulationConfig holds simulated latency and failure injection settings.
type SimulationConfig struct {
	MinLatencyMs int     `envconfig:"SIM_MIN_LATENCY_MS" default:"10"`
	MaxLatencyMs int     `envconfig:"SIM_MAX_LATENCY_MS" default:"120"`
	FailureRate  float64 `envconfig:"SIM_FAILURE_RATE" default:"0.15"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Session: SessionConfig{
			InactivityTimeout: 5 * time.Minute,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "storefront",
			SpanBufferSize: 1000,
		},
		Reporting: ReportingConfig{
			Schedule: "@every 1m",
			Enabled:  true,
		},
		Simulation: SimulationConfig{
			MinLatencyMs: 10,
			MaxLatencyMs: 120,
			FailureRate:  0.15,
		},
	}
}
