// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/mesto/internal/auth"
	"github.com/tomtom215/mesto/internal/middleware"
	"github.com/tomtom215/mesto/internal/validation"
)

// RouterOptions controls the routes outside the API table.
type RouterOptions struct {
	MetricsEnabled bool
	MetricsPath    string
}

// Router binds the route table to its handlers and middleware.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
	opts          RouterOptions
}

// NewRouter creates a router. authMw must report failures through WriteError.
func NewRouter(handler *Handler, authMw *auth.Middleware, chiMw *ChiMiddleware, opts RouterOptions) *Router {
	return &Router{
		handler:       handler,
		auth:          authMw,
		chiMiddleware: chiMw,
		opts:          opts,
	}
}

// SetupChi builds the HTTP handler. Each route runs its stages in order:
// validation, authentication (except signup and signin), controller. Any
// unmatched method and path answers 404.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.PrometheusMetrics) // also sees NotFound and recovered panics
	r.Use(middleware.RequestLogger)
	r.Use(Recoverer)
	r.Use(router.chiMiddleware.CORS()) // before routing so OPTIONS preflight is answered

	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)

	if router.opts.MetricsEnabled {
		path := router.opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.Handler())
	}

	h := router.handler
	authenticate := router.auth.Authenticate

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		// ========================
		// Public Endpoints
		// ========================
		r.With(ValidateBody[validation.SignupRequest]()).
			Method(http.MethodPost, "/signup", HandlerFunc(h.Signup))
		r.With(ValidateBody[validation.SigninRequest]()).
			Method(http.MethodPost, "/signin", HandlerFunc(h.Signin))

		// ========================
		// Users
		// ========================
		r.Route("/users", func(r chi.Router) {
			r.With(authenticate).Method(http.MethodGet, "/", HandlerFunc(h.ListUsers))
			r.With(authenticate).Method(http.MethodGet, "/me", HandlerFunc(h.GetCurrentUser))
			r.With(ValidateBody[validation.UpdateProfileRequest](), authenticate).
				Method(http.MethodPatch, "/me", HandlerFunc(h.UpdateProfile))
			r.With(ValidateBody[validation.UpdateAvatarRequest](), authenticate).
				Method(http.MethodPatch, "/me/avatar", HandlerFunc(h.UpdateAvatar))
			r.With(ValidateUserID, authenticate).
				Method(http.MethodGet, "/{userId}", HandlerFunc(h.GetUser))
		})

		// ========================
		// Cards
		// ========================
		r.Route("/cards", func(r chi.Router) {
			r.With(authenticate).Method(http.MethodGet, "/", HandlerFunc(h.ListCards))
			r.With(ValidateBody[validation.CreateCardRequest](), authenticate).
				Method(http.MethodPost, "/", HandlerFunc(h.CreateCard))
			r.With(ValidateCardID, authenticate).
				Method(http.MethodDelete, "/{cardId}", HandlerFunc(h.DeleteCard))
			r.With(ValidateCardID, authenticate).
				Method(http.MethodPut, "/{cardId}/likes", HandlerFunc(h.LikeCard))
			r.With(ValidateCardID, authenticate).
				Method(http.MethodDelete, "/{cardId}/likes", HandlerFunc(h.UnlikeCard))
		})
	})

	return r
}
