// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Session storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var (
	// ErrUnknownBackend is returned for an unsupported SESSION_BACKEND.
	ErrUnknownBackend = errors.New("unknown session backend")
	// ErrRedisURLRequired is returned when the redis backend has no URL.
	ErrRedisURLRequired = errors.New("REDIS_URL is required for the redis session backend")
	// ErrDatabaseURLRequired is returned when the postgres backend has no URL.
	ErrDatabaseURLRequired = errors.New("DATABASE_URL is required for the postgres session backend")
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	// Backend REST API, including the version prefix
	APIBaseURL  string        `env:"API_BASE_URL" envDefault:"http://localhost:8080/api/v1"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"0s"`

	// Session persistence
	SessionBackend   string `env:"SESSION_BACKEND" envDefault:"file"`
	SessionFile      string `env:"SESSION_FILE"`
	SessionNamespace string `env:"SESSION_NAMESPACE" envDefault:"academiaflow:"`
	SessionTable     string `env:"SESSION_TABLE" envDefault:"client_sessions"`

	// Cache (Redis), used by the redis backend
	RedisURL string `env:"REDIS_URL"`

	// Database (PostgreSQL), used by the postgres backend
	DatabaseURL string `env:"DATABASE_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Mock backend server
	MockPort            int           `env:"MOCK_PORT" envDefault:"8080"`
	MockReadTimeout     time.Duration `env:"MOCK_READ_TIMEOUT" envDefault:"5s"`
	MockWriteTimeout    time.Duration `env:"MOCK_WRITE_TIMEOUT" envDefault:"10s"`
	MockShutdownTimeout time.Duration `env:"MOCK_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.SessionBackend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		if c.RedisURL == "" {
			return ErrRedisURLRequired
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return ErrDatabaseURLRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.SessionBackend)
	}
	return nil
}

// DefaultSessionFile returns ~/.academiaflow/session.json, falling back to
// the working directory when no home directory is known.
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".academiaflow", "session.json")
	}
	return filepath.Join(home, ".academiaflow", "session.json")
}

// Load parses environment variables and returns a Config.
// Returns an error if the selected session backend is misconfigured.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.SessionBackend = strings.ToLower(strings.TrimSpace(cfg.SessionBackend))
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.SessionFile == "" {
		cfg.SessionFile = DefaultSessionFile()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
