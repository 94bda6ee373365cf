// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package api

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/tomtom215/mesto/internal/apierror"
	"github.com/tomtom215/mesto/internal/auth"
	"github.com/tomtom215/mesto/internal/logging"
	"github.com/tomtom215/mesto/internal/services"
)

// HandlerFunc is a stage that reports failure by returning an error instead
// of writing it. ServeHTTP funnels the error to WriteError.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ServeHTTP implements http.Handler.
func (h HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h(w, r); err != nil {
		WriteError(w, r, err)
	}
}

// Handler holds the controllers' dependencies.
type Handler struct {
	users *services.UserService
	cards *services.CardService
}

// NewHandler creates the API handler.
func NewHandler(users *services.UserService, cards *services.CardService) *Handler {
	return &Handler{users: users, cards: cards}
}

// identity returns the caller set by the auth middleware.
func identity(r *http.Request) (auth.Identity, error) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return auth.Identity{}, apierror.Unauthorized(auth.AuthorizationRequiredMessage)
	}
	return id, nil
}

// Recoverer turns a panic in any later stage into an Internal response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logging.Ctx(r.Context()).Error().
				Str("panic", fmt.Sprint(rec)).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from panic")
			WriteError(w, r, apierror.Internal(fmt.Errorf("panic: %v", rec)))
		}()
		next.ServeHTTP(w, r)
	})
}

// NotFound answers every unmatched method and path.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, apierror.NotFound(MsgRouteNotFound))
}

// MsgRouteNotFound is the message of the catch-all route.
const MsgRouteNotFound = "Requested resource not found"
