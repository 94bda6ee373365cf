// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML file (CONFIG_PATH, config.yaml, /etc/mesto/config.yaml)
//  3. Environment Variables: Override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	srv := http.Server{Addr: cfg.Server.Addr()}
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - PORT: listen port (default: 3000)
//   - HOST: listen address (default: 0.0.0.0)
//   - NODE_ENV / ENVIRONMENT: "development" or "production" (default: development)
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds token, password hashing, CORS and rate limit settings.
//
// Environment Variables:
//   - JWT_SECRET: signing secret, required in production (min 32 characters)
//   - JWT_PREVIOUS_SECRETS: comma-separated retired secrets still accepted for verification
//   - TOKEN_TTL: token lifetime (default: 168h)
//   - BCRYPT_COST: password hash cost (default: 10)
//   - CORS_ORIGINS: comma-separated allowed origins (default: *)
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW / DISABLE_RATE_LIMIT
type SecurityConfig struct {
	JWTSecret          string        `koanf:"jwt_secret"`
	JWTPreviousSecrets []string      `koanf:"jwt_previous_secrets"`
	DevSecret          string        `koanf:"dev_secret"`
	TokenTTL           time.Duration `koanf:"token_ttl"`
	BcryptCost         int           `koanf:"bcrypt_cost"`
	CORSOrigins        []string      `koanf:"cors_origins"`
	RateLimitReqs      int           `koanf:"rate_limit_reqs"`
	RateLimitWindow    time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled  bool          `koanf:"rate_limit_disabled"`
}

// SigningSecrets returns the token secrets for the given environment. The
// first secret signs new tokens; every secret is accepted for verification.
// Outside production only the development secret is used.
func (s SecurityConfig) SigningSecrets(environment string) []string {
	if !isProduction(environment) {
		return []string{s.DevSecret}
	}
	secrets := make([]string, 0, 1+len(s.JWTPreviousSecrets))
	secrets = append(secrets, s.JWTSecret)
	for _, prev := range s.JWTPreviousSecrets {
		if prev != "" {
			secrets = append(secrets, prev)
		}
	}
	return secrets
}

// DatabaseConfig holds the embedded BadgerDB settings.
//
// Environment Variables:
//   - DATABASE_PATH: data directory (default: /data/mesto)
//   - DATABASE_IN_MEMORY: keep everything in memory, nothing survives restart
//   - DATABASE_GC_INTERVAL: value log GC period, 0 disables (default: 10m)
type DatabaseConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval"`
	GCRatio    float64       `koanf:"gc_ratio"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return isProduction(c.Server.Environment)
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// SigningSecrets is shorthand for c.Security.SigningSecrets(c.Server.Environment).
func (c *Config) SigningSecrets() []string {
	return c.Security.SigningSecrets(c.Server.Environment)
}

func isProduction(environment string) bool {
	env := strings.ToLower(environment)
	return env == "production" || env == "prod"
}

// Load is the entry point used by cmd/server.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
