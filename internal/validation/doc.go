// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

// Package validation checks request bodies and path parameters against
// declarative rule tables before any authentication or controller logic runs.
//
// Rule tables are plain structs with go-playground/validator v10 tags (see
// schemas.go). The package keeps a thread-safe singleton validator with two
// custom tags:
//   - urlpattern: the link pattern shared by avatars and card links
//   - storeid: a canonical store identifier
//
// # Decoding
//
// DecodeBody reads a JSON body with goccy/go-json, rejects keys the schema does
// not declare, and then validates the decoded struct. Every failure is returned
// as a *apierror.Error of kind ValidationFailed carrying the offending keys:
//
//	var req validation.CreateCardRequest
//	if apiErr := validation.DecodeBody(r.Body, &req); apiErr != nil {
//	    return apiErr
//	}
//
// Path parameters go through ValidateParams:
//
//	if apiErr := validation.ValidateParams(&validation.CardParams{CardID: id}); apiErr != nil {
//	    return apiErr
//	}
//
// # Thread Safety
//
// GetValidator, ValidateStruct, DecodeBody and ValidateParams are safe for
// concurrent use.
package validation
