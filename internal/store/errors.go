// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package store

import (
	"context"
	"errors"
	"strings"

	"github.com/tomtom215/mesto/internal/metrics"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	// ErrNotFound is returned when an identifier does not resolve to a document.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateKey is returned when a unique index (user email) already holds the value.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidID is returned for identifiers that are not in store format.
	ErrInvalidID = errors.New("invalid document id")

	// ErrInvalidCredentials is returned by FindByCredentials for an unknown
	// email and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// FieldViolation names a document field and the rule it broke.
type FieldViolation struct {
	Field string
	Tag   string
}

// SchemaError is returned when a document fails write-time validation.
type SchemaError struct {
	Collection string
	Fields     []FieldViolation
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Tag)
	}
	return e.Collection + " validation failed: " + strings.Join(parts, ", ")
}

// IsSchemaError reports whether err is or wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// classifyError labels store errors for the operation error counter.
// Unrecognized errors fall through to the badger classifier in metrics.
func classifyError(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return metrics.ErrTypeNotFound
	case errors.Is(err, ErrDuplicateKey):
		return metrics.ErrTypeDuplicate
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidCredentials), IsSchemaError(err):
		return metrics.ErrTypeInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ErrTypeCanceled
	default:
		return ""
	}
}
