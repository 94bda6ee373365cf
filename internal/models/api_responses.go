// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package models

// DataResponse wraps every successful payload except the login token.
//
// Example:
//
//	{"data": {"_id": "...", "name": "...", "link": "...", ...}}
type DataResponse struct {
	Data interface{} `json:"data"`
}

// TokenResponse is returned by a successful login.
//
//	{"token": "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."}
type TokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the body of every failed request.
//
// Validation is present only for ValidationFailed errors:
//
//	{
//	  "message": "email must be a valid email address",
//	  "validation": {
//	    "source": "body",
//	    "keys": ["email"],
//	    "fields": [{"field": "email", "tag": "email", "message": "email must be a valid email address"}]
//	  }
//	}
type ErrorResponse struct {
	Message    string      `json:"message"`
	Validation interface{} `json:"validation,omitempty"`
}
