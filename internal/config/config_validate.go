// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinJWTSecretLength is the shortest signing secret accepted in production.
const MinJWTSecretLength = 32

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = 24 * time.Hour
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "console": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}

	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return c.validateRateLimits()
}

// validateJWTSecret enforces a real secret in production. Outside production
// tokens are signed with the development secret, which must not be empty.
func (c *Config) validateJWTSecret() error {
	if !c.IsProduction() {
		if c.Security.DevSecret == "" {
			return fmt.Errorf("development signing secret must not be empty")
		}
		return nil
	}

	secret := c.Security.JWTSecret
	if secret == "" {
		return fmt.Errorf("JWT_SECRET is required when NODE_ENV=production")
	}
	if len(secret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", MinJWTSecretLength)
	}
	if secret == c.Security.DevSecret || secret == DefaultDevSecret {
		return fmt.Errorf("JWT_SECRET must not equal the development secret")
	}
	return nil
}

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateDatabase validates the storage configuration
func (c *Config) validateDatabase() error {
	if !c.Database.InMemory && strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DATABASE_PATH is required unless DATABASE_IN_MEMORY=true")
	}
	if c.Database.GCInterval < 0 {
		return fmt.Errorf("DATABASE_GC_INTERVAL must not be negative")
	}
	if c.Database.GCRatio <= 0 || c.Database.GCRatio >= 1 {
		return fmt.Errorf("DATABASE_GC_RATIO must be between 0 and 1 (exclusive)")
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// ShouldWarnAboutCORS reports a wildcard CORS origin in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
