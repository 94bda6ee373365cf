// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

/*
Package config loads and validates the server configuration.

Configuration is layered with Koanf v2: built-in defaults, then an optional YAML
file, then environment variables. Environment variable names are mapped
explicitly (see envMappings); anything else in the environment is ignored.

Example config.yaml:

	server:
	  port: 3000
	  environment: production
	security:
	  jwt_secret: "a-random-string-of-at-least-32-characters"
	  token_ttl: 168h
	  cors_origins: ["https://mesto.example.com"]
	database:
	  path: /data/mesto

Token Secrets:

In production JWT_SECRET signs new tokens and JWT_PREVIOUS_SECRETS are still
accepted for verification, so secrets can be rotated without logging everyone
out. Outside production the fixed development secret is used.
*/
package config
