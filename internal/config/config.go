package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	// DriverSQLite stores identities in an embedded SQLite file.
	DriverSQLite = "sqlite"
	// DriverPostgres stores identities in PostgreSQL.
	DriverPostgres = "postgres"

	// SessionBackendSQL keeps the session flag in the identity database.
	SessionBackendSQL = "sql"
	// SessionBackendRedis keeps the session flag in Redis.
	SessionBackendRedis = "redis"
)

// Config contains client configuration parameters.
type Config struct {
	LogLevel int      `env:"LOG_LEVEL" envDefault:"0"`
	Catalog  Catalog  `envPrefix:"CATALOG_"`
	Database Database `envPrefix:"DATABASE_"`
	Session  Session  `envPrefix:"SESSION_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Bcrypt   Bcrypt   `envPrefix:"BCRYPT_"`
}

// Catalog contains remote catalog parameters.
type Catalog struct {
	BaseURL       string        `env:"BASE_URL" envDefault:"https://pokeapi.co/api/v2/"`
	PageSize      int           `env:"PAGE_SIZE" envDefault:"10"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"15s"`
	RatePerSecond float64       `env:"RATE_PER_SECOND" envDefault:"5"`
	Burst         int           `env:"BURST" envDefault:"5"`
}

// Database contains identity database parameters.
type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"file:pokedex.db?_pragma=busy_timeout(5000)"`
}

// Session selects where the session flag is kept.
type Session struct {
	Backend string `env:"BACKEND" envDefault:"sql"`
}

// Redis contains Redis connection parameters.
type Redis struct {
	Addr      string `env:"ADDR" envDefault:"localhost:6379"`
	Password  string `env:"PASSWORD" envDefault:""`
	DB        int    `env:"DB" envDefault:"0"`
	Namespace string `env:"NAMESPACE" envDefault:"pokedex"`
}

// Bcrypt contains credential hashing parameters.
type Bcrypt struct {
	Cost int `env:"COST" envDefault:"10"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Session.Backend {
	case SessionBackendSQL, SessionBackendRedis:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog page size must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Catalog.RatePerSecond <= 0 {
		return fmt.Errorf("catalog rate must be positive, got %v", c.Catalog.RatePerSecond)
	}

	return nil
}
