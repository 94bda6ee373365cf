// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package auth

import (
	"net/http"
	"strings"

	"github.com/tomtom215/mesto/internal/apierror"
	"github.com/tomtom215/mesto/internal/logging"
	"github.com/tomtom215/mesto/internal/metrics"
)

// AuthorizationRequiredMessage is the single message for every authentication failure.
const AuthorizationRequiredMessage = "Authorization required"

// ErrorHandler writes a failed stage's error. The API layer supplies its formatter.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware enforces bearer token authentication.
type Middleware struct {
	jwtManager *JWTManager
	onError    ErrorHandler
}

// NewMiddleware creates the authentication middleware. onError receives an
// *apierror.Error of kind Unauthorized whenever a request is rejected.
func NewMiddleware(jwtManager *JWTManager, onError ErrorHandler) *Middleware {
	return &Middleware{jwtManager: jwtManager, onError: onError}
}

// Authenticate rejects requests without a valid "Authorization: Bearer <token>"
// header and attaches the caller's Identity to the request context otherwise.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearerToken(r.Header.Get("Authorization"))
		if !ok {
			metrics.RecordTokenValidation("missing")
			m.onError(w, r, apierror.Unauthorized(AuthorizationRequiredMessage))
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			metrics.RecordTokenValidation("invalid")
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			m.onError(w, r, apierror.Wrap(apierror.KindUnauthorized, AuthorizationRequiredMessage, err))
			return
		}

		metrics.RecordTokenValidation("valid")
		ctx := ContextWithIdentity(r.Context(), Identity{UserID: claims.UserID()})
		ctx = logging.ContextWithUserID(ctx, claims.UserID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearerToken extracts the token from an Authorization header value.
func extractBearerToken(authHeader string) (string, bool) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
