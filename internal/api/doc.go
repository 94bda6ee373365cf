// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

/*
Package api provides the HTTP surface of the Mesto API using the chi router.

Route table:

	POST   /signup                 public   name?, about?, avatar?, email, password
	POST   /signin                 public   email, password
	GET    /users                  auth
	GET    /users/me               auth
	GET    /users/{userId}         auth     userId must be a store id
	PATCH  /users/me               auth     name?, about?
	PATCH  /users/me/avatar        auth     avatar?
	GET    /cards                  auth
	POST   /cards                  auth     name, link
	DELETE /cards/{cardId}         auth     owner only
	PUT    /cards/{cardId}/likes   auth
	DELETE /cards/{cardId}/likes   auth

Every route runs validation first (path parameters or body), then
authentication, then the controller. Anything else answers 404 with
"Requested resource not found".

Responses:

	200 {"data": <user|card|list>}
	200 {"token": "<jwt>"}                      (signin)
	4xx/5xx {"message": "...", "validation": {...}}

The validation object is present only for ValidationFailed errors. Handlers
return errors instead of writing them; WriteError is the single place that
maps an error kind to a status, logs the cause and writes the body.
*/
package api
