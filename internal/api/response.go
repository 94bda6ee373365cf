// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mesto/internal/apierror"
	"github.com/tomtom215/mesto/internal/logging"
	"github.com/tomtom215/mesto/internal/metrics"
	"github.com/tomtom215/mesto/internal/middleware"
	"github.com/tomtom215/mesto/internal/models"
)

// ResponseWriter writes the API's JSON envelopes.
type ResponseWriter struct {
	w http.ResponseWriter
	r *http.Request
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r}
}

// Success writes {"data": data} with status 200.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.writeJSON(http.StatusOK, models.DataResponse{Data: data})
}

// Token writes {"token": token} with status 200.
func (rw *ResponseWriter) Token(token string) {
	rw.writeJSON(http.StatusOK, models.TokenResponse{Token: token})
}

// Error is the single terminal formatting stage. It maps the error kind to
// its status and writes {"message": ...} plus validation details when
// present. The cause, if any, goes to the log only.
func (rw *ResponseWriter) Error(err error) {
	apiErr := apierror.From(err)
	route := middleware.RoutePattern(rw.r)

	event := logging.Ctx(rw.r.Context()).Debug()
	if apiErr.Kind == apierror.KindInternal {
		event = logging.Ctx(rw.r.Context()).Error()
	}
	event.
		Str("method", rw.r.Method).
		Str("route", route).
		Str("kind", apiErr.Kind.String()).
		Int("status", apiErr.Status()).
		Err(apiErr.Err).
		Msg(apiErr.ClientMessage())

	metrics.RecordAPIError(apiErr.Kind.String())

	resp := models.ErrorResponse{Message: apiErr.ClientMessage()}
	if apiErr.Kind == apierror.KindValidation && apiErr.Details != nil {
		resp.Validation = apiErr.Details
	}
	rw.writeJSON(apiErr.Status(), resp)
}

// writeJSON writes JSON response with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteSuccess is a convenience function for writing success responses.
func WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	NewResponseWriter(w, r).Success(data)
}

// WriteError is a convenience function for writing error responses. Its
// signature matches auth.ErrorHandler.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	NewResponseWriter(w, r).Error(err)
}
