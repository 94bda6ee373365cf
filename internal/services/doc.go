// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

// Package services holds the user and card operations behind the HTTP handlers.
//
// Services receive the authenticated identity explicitly and read and write
// through the store interfaces. Every returned error is an *apierror.Error;
// store errors are classified here (duplicate key is Conflict, schema and
// id errors are BadRequest, missing documents are NotFound, anything else is
// Internal).
package services
