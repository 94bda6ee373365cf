// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package validation

// Request schemas. The struct tags are the rule table: each field lists its
// type (through the Go type), whether it is required, its bounds and its
// pattern. Optional fields are pointers tagged omitnil so that an absent key
// is skipped while an explicitly empty string is still checked.

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=2,max=30"`
	About    *string `json:"about" validate:"omitnil,min=2,max=30"`
	Avatar   *string `json:"avatar" validate:"omitnil,urlpattern"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
}

// SigninRequest is the body of POST /signin.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateProfileRequest is the body of PATCH /users/me.
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitnil,min=2,max=30"`
	About *string `json:"about" validate:"omitnil,min=2,max=30"`
}

// UpdateAvatarRequest is the body of PATCH /users/me/avatar.
type UpdateAvatarRequest struct {
	Avatar *string `json:"avatar" validate:"omitnil,urlpattern"`
}

// CreateCardRequest is the body of POST /cards.
type CreateCardRequest struct {
	Name string `json:"name" validate:"required,min=2,max=30"`
	Link string `json:"link" validate:"required,urlpattern"`
}

// UserParams holds the path parameters of GET /users/{userId}.
type UserParams struct {
	UserID string `json:"userId" validate:"storeid"`
}

// CardParams holds the path parameters of the /cards/{cardId} routes.
type CardParams struct {
	CardID string `json:"cardId" validate:"storeid"`
}
