package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Session storage drivers
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config holds all configuration for the web client
type Config struct {
	AppMode  string        `envconfig:"APP_MODE" default:"dev"`
	Port     string        `envconfig:"PORT" default:"3000"`
	LogLevel string        `envconfig:"LOG_LEVEL"`
	API      APIConfig     `envconfig:"API"`
	Session  SessionConfig `envconfig:"SESSION"`
	Guard    GuardConfig   `envconfig:"GUARD"`
}

// APIConfig describes the remote loan API the client talks to
type APIConfig struct {
	BaseURL       string        `envconfig:"BASE_URL" default:"http://localhost:8000"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"15s"`
	JWTSecret     string        `envconfig:"JWT_SECRET"`
	ProbeSchedule string        `envconfig:"PROBE_SCHEDULE" default:"@every 1m"`
}

// SessionConfig holds the durable session slot configuration
type SessionConfig struct {
	Driver string `envconfig:"DRIVER" default:"sqlite"`
	DSN    string `envconfig:"DSN" default:"bankloan-session.db"`
	Key    string `envconfig:"KEY" default:"default_session_key"`
}

// GuardConfig holds route guard policy
type GuardConfig struct {
	// EnforceRole makes each dashboard reachable only by its own role.
	EnforceRole bool `envconfig:"ENFORCE_ROLE" default:"false"`
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize trims values and validates enumerations
func (c *Config) normalize() error {
	c.AppMode = strings.TrimSpace(c.AppMode)
	if c.AppMode != "dev" && c.AppMode != "prod" {
		return fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", c.AppMode)
	}

	c.Session.Driver = strings.ToLower(strings.TrimSpace(c.Session.Driver))
	switch c.Session.Driver {
	case DriverSQLite, DriverMySQL, DriverMemory:
	default:
		return fmt.Errorf("invalid SESSION_DRIVER: '%s' (must be sqlite, mysql or memory)", c.Session.Driver)
	}

	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.IsProd() && c.Session.Key == "default_session_key" {
		return fmt.Errorf("SESSION_KEY must be set in prod mode")
	}
	return nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}
