// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/mesto/internal/config"
)

// ErrInvalidToken is returned for any token that fails parsing, signature,
// algorithm or expiry checks. Callers never learn which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims. The user identifier travels in Subject.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the identifier of the authenticated user.
func (c *Claims) UserID() string {
	return c.Subject
}

// JWTManager handles JWT token creation and validation.
//
// The first secret signs new tokens. Every secret is tried on validation, so
// a rotated-out secret keeps working until its tokens expire.
type JWTManager struct {
	secrets [][]byte
	ttl     time.Duration
	now     func() time.Time
}

// NewJWTManager creates a token manager from the loaded configuration.
//
//	jwtManager, err := auth.NewJWTManager(cfg)
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
//	}
func NewJWTManager(cfg *config.Config) (*JWTManager, error) {
	return newJWTManager(cfg.SigningSecrets(), cfg.Security.TokenTTL)
}

func newJWTManager(secrets []string, ttl time.Duration) (*JWTManager, error) {
	if len(secrets) == 0 || secrets[0] == "" {
		return nil, fmt.Errorf("a signing secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token TTL must be positive")
	}

	m := &JWTManager{ttl: ttl, now: time.Now}
	for _, s := range secrets {
		if s != "" {
			m.secrets = append(m.secrets, []byte(s))
		}
	}
	return m, nil
}

// GenerateToken creates a signed HS256 token for userID, valid for the
// configured TTL.
func (m *JWTManager) GenerateToken(userID string) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secrets[0])
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies tokenString against every configured secret and
// returns its claims. Tokens signed with anything other than HMAC, expired
// tokens and tokens without a subject are rejected with ErrInvalidToken.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	var lastErr error
	for _, secret := range m.secrets {
		claims, err := m.parse(tokenString, secret)
		if err == nil {
			return claims, nil
		}
		lastErr = err
		// Only a signature mismatch is worth retrying with another secret.
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			break
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidToken, lastErr)
}

func (m *JWTManager) parse(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
