// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

/*
Package auth provides token issuance, bearer authentication and password hashing.

Tokens are HS256 JWTs whose subject is the user identifier. They expire after
the configured TTL (seven days by default) and cannot be revoked earlier.

Authenticate is a net/http middleware:

	authMw := auth.NewMiddleware(jwtManager, api.WriteError)
	r.With(authMw.Authenticate).Get("/users/me", handler)

On success the handler finds the caller with IdentityFromContext. On failure
the request never reaches the handler and the supplied error handler receives
an Unauthorized error with the message "Authorization required", whatever the
reason (missing header, wrong scheme, bad signature, expiry).

Passwords are hashed with bcrypt. CompareDummy lets login spend the same time
whether or not the email exists.
*/
package auth
