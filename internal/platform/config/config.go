// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, NATS) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/yardmap/pkg/query"
)

// # Drivers

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	BroadcastRedis  = "redis"
	BroadcastNATS   = "nats"
	BroadcastMemory = "memory"
)

// # Configuration Schema

// Config holds all runtime configuration for the Yardmap API server and CLI.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Layout storage (PostgreSQL or in-process memory)
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE"   envDefault:"true"`

	// Real-time fan-out (Redis pub/sub, NATS or in-process)
	BroadcastDriver string `env:"BROADCAST_DRIVER" envDefault:"redis"`
	RedisURL        string `env:"REDIS_URL"`
	NATSURL         string `env:"NATS_URL"         envDefault:"nats://127.0.0.1:4222"`
	BroadcastPrefix string `env:"BROADCAST_PREFIX" envDefault:"yardmap"`

	// Cryptographic keys for operator token verification and signing
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`

	// Grid bounds accepted by the resizer
	MaxMapLength int `env:"MAX_MAP_LENGTH" envDefault:"500"`
	MaxMapWidth  int `env:"MAX_MAP_WIDTH"  envDefault:"500"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse reads the environment without driver validation, for tools that only
// need a subset of the settings.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// Validate enforces the requirements that depend on the selected drivers.
func (c *Config) Validate() error {
	var problems []error

	switch c.StorageDriver {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres"))
		}
	case StorageMemory:
	default:
		problems = append(problems, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	switch c.BroadcastDriver {
	case BroadcastRedis:
		if c.RedisURL == "" {
			problems = append(problems, errors.New("REDIS_URL is required when BROADCAST_DRIVER=redis"))
		}
	case BroadcastNATS:
		if c.NATSURL == "" {
			problems = append(problems, errors.New("NATS_URL is required when BROADCAST_DRIVER=nats"))
		}
	case BroadcastMemory:
	default:
		problems = append(problems, fmt.Errorf("unknown BROADCAST_DRIVER %q", c.BroadcastDriver))
	}

	if c.MaxMapLength < 1 || c.MaxMapWidth < 1 {
		problems = append(problems, errors.New("MAX_MAP_LENGTH and MAX_MAP_WIDTH must be positive"))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %w", errors.Join(problems...))
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins splits EXTRA_ORIGINS into a clean list.
func (c *Config) AllowedOrigins() []string {
	return query.CSV(c.ExtraOrigins)
}
