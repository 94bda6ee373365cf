// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package api

import "errors"

// errMissingBody means a handler that reads a validated body was mounted
// without ValidateBody in front of it.
var errMissingBody = errors.New("validated body missing from request context")
