// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

/*
Package store is the BadgerDB document store behind the API.

It holds two collections, users and cards, stored as JSON documents:

	user:<id>            user document (with bcrypt password hash)
	user_email:<email>   unique email index, value is the user id
	card:<id>            card document

Identifiers are UUIDv7 strings, so prefix iteration returns documents in
creation order. Every mutation runs in a single serializable transaction;
like/unlike are set operations evaluated inside that transaction, and
transactions that lose a conflict are re-run.

Errors are returned as sentinels (ErrNotFound, ErrDuplicateKey, ErrInvalidID,
ErrInvalidCredentials) or as *SchemaError when a document fails write-time
validation. Callers classify them with errors.Is and errors.As.
*/
package store
