// Package config handles application configuration via environment variables.
// It uses kelseyhightower/envconfig for parsing and provides sensible defaults.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
// Values are loaded from environment variables with the prefix "APP".
// Example: APP_PORT=8080, APP_LOG_LEVEL=debug
type Config struct {
	// Server configuration (embedded to flatten env vars)
	Server ServerConfig

	// Logging configuration (embedded to flatten env vars)
	Log LogConfig

	// Country directory provider
	Countries CountriesConfig

	// Prometheus metrics
	Metrics MetricsConfig

	// Form session limits
	Sessions SessionsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// Host is the HTTP server host (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// ReadTimeout is the maximum duration for reading the entire request (default: 10s)
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`

	// WriteTimeout is the maximum duration before timing out writes of the response (default: 30s)
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish (default: 30s)
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// CORSOrigin is the origin browsers may call the API from (default: *)
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// Format is the log format: json, text, plain (default: json)
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// CountriesConfig points at the REST Countries service.
type CountriesConfig struct {
	// BaseURL is the provider root; the client appends /v3.1/all.
	BaseURL string `envconfig:"COUNTRIES_BASE_URL" default:"https://restcountries.com"`

	// Timeout bounds the single fetch. Zero means no timeout.
	Timeout time.Duration `envconfig:"COUNTRIES_TIMEOUT" default:"0s"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"METRICS_PATH" default:"/metrics"`
}

// SessionsConfig bounds the in-memory form sessions.
type SessionsConfig struct {
	// TTL evicts a form nobody touched for this long. Zero disables eviction.
	TTL time.Duration `envconfig:"SESSION_TTL" default:"30m"`

	// MaxSessions caps open forms; POST /v1/forms answers 503 beyond it.
	// Zero means no cap.
	MaxSessions int `envconfig:"SESSION_MAX" default:"10000"`

	// SweepInterval is how often expired forms are removed.
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1m"`
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from environment variables.
// It returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	var cfg Config

	// Load each config section separately to flatten env var names
	// This allows env vars like APP_PORT instead of APP_SERVER_PORT
	if err := envconfig.Process("APP", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Countries); err != nil {
		return nil, fmt.Errorf("failed to load countries config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Metrics); err != nil {
		return nil, fmt.Errorf("failed to load metrics config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Sessions); err != nil {
		return nil, fmt.Errorf("failed to load sessions config: %w", err)
	}

	return &cfg, nil
}
