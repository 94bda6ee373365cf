// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

// Package apierror defines the typed failures every request stage can raise
// and their mapping to HTTP status codes.
//
// A stage (validation, authentication, controller) either completes or returns
// exactly one *Error. The API error formatter is the only place an *Error is
// turned into a response; any other error value reaching it is reported as
// KindInternal with a generic message.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	// KindInternal is any unclassified failure. It is the zero value so that a
	// zero Error never reports a client error by accident.
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindValidation
)

// GenericInternalMessage is the only message clients ever see for KindInternal.
const GenericInternalMessage = "An internal server error occurred"

var kindNames = map[Kind]string{
	KindInternal:     "internal",
	KindBadRequest:   "bad_request",
	KindUnauthorized: "unauthorized",
	KindForbidden:    "forbidden",
	KindNotFound:     "not_found",
	KindConflict:     "conflict",
	KindValidation:   "validation_failed",
}

// String returns the kind name used in logs and metrics labels.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindInternal]
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest, KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes one offending field of a ValidationFailed error.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationDetails is attached to KindValidation errors only.
type ValidationDetails struct {
	// Source is "body" or "params".
	Source string       `json:"source"`
	Keys   []string     `json:"keys"`
	Fields []FieldError `json:"fields"`
}

// Error is a typed request failure.
type Error struct {
	Kind    Kind
	Message string

	// Details is set for KindValidation.
	Details *ValidationDetails

	// Err is the underlying cause. It is logged, never sent to the client.
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// ClientMessage is the message safe to return to callers.
func (e *Error) ClientMessage() string {
	if e.Kind == KindInternal || e.Message == "" {
		return GenericInternalMessage
	}
	return e.Message
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind that keeps cause for logging.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// BadRequest reports malformed input that reached a controller.
func BadRequest(message string) *Error { return New(KindBadRequest, message) }

// Unauthorized reports a missing or invalid credential.
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

// Forbidden reports an action on a resource the caller does not own.
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// NotFound reports an id that does not resolve, or an unmatched route.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Conflict reports a violated uniqueness constraint.
func Conflict(message string) *Error { return New(KindConflict, message) }

// Internal wraps an unclassified failure.
func Internal(cause error) *Error {
	return Wrap(KindInternal, GenericInternalMessage, cause)
}

// Validation creates a ValidationFailed error with per-field detail.
func Validation(message string, details *ValidationDetails) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// From normalizes err to an *Error. Errors without a recognized kind become
// KindInternal. From(nil) returns nil.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}

// KindOf returns the kind of err, KindInternal when err carries none.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
