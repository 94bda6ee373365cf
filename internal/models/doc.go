// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

/*
Package models defines the public data structures of the Mesto API.

Key Components:

  - User: public profile of a registered account (never carries the password hash)
  - Card: a photo card with its owner and like set as user identifiers
  - PopulatedCard: a Card whose owner and likes are replaced by User objects
  - DataResponse / TokenResponse / ErrorResponse: JSON response envelopes

Identifiers are canonical lowercase UUID strings and are rendered under the
"_id" key so existing web clients keep working unchanged.
*/
package models
