// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/mesto/internal/apierror"
	"github.com/tomtom215/mesto/internal/validation"
)

type bodyContextKey struct{}

// ValidateBody decodes and validates the request body into a T before any
// later stage runs. The handler reads it back with Body[T].
func ValidateBody[T any]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dst := new(T)
			if apiErr := validation.DecodeBody(r.Body, dst); apiErr != nil {
				WriteError(w, r, apiErr)
				return
			}
			ctx := context.WithValue(r.Context(), bodyContextKey{}, dst)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Body returns the body stored by ValidateBody[T].
func Body[T any](r *http.Request) (*T, error) {
	body, ok := r.Context().Value(bodyContextKey{}).(*T)
	if !ok {
		return nil, apierror.Internal(errMissingBody)
	}
	return body, nil
}

// ValidateUserID rejects a malformed {userId} before any lookup.
func ValidateUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := validation.UserParams{UserID: chi.URLParam(r, "userId")}
		if apiErr := validation.ValidateParams(&params); apiErr != nil {
			WriteError(w, r, apiErr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ValidateCardID rejects a malformed {cardId} before any lookup.
func ValidateCardID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := validation.CardParams{CardID: chi.URLParam(r, "cardId")}
		if apiErr := validation.ValidateParams(&params); apiErr != nil {
			WriteError(w, r, apiErr)
			return
		}
		next.ServeHTTP(w, r)
	})
}
