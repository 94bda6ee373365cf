// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/mesto/internal/services"
	"github.com/tomtom215/mesto/internal/validation"
)

// Signup handles POST /signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) error {
	body, err := Body[validation.SignupRequest](r)
	if err != nil {
		return err
	}

	user, err := h.users.Register(r.Context(), services.RegisterInput{
		Name:     body.Name,
		About:    body.About,
		Avatar:   body.Avatar,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return err
	}

	WriteSuccess(w, r, user)
	return nil
}

// Signin handles POST /signin.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) error {
	body, err := Body[validation.SigninRequest](r)
	if err != nil {
		return err
	}

	token, err := h.users.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}

	NewResponseWriter(w, r).Token(token)
	return nil
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		return err
	}
	WriteSuccess(w, r, users)
	return nil
}

// GetCurrentUser handles GET /users/me.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) error {
	id, err := identity(r)
	if err != nil {
		return err
	}

	user, err := h.users.GetCurrentUser(r.Context(), id)
	if err != nil {
		return err
	}
	WriteSuccess(w, r, user)
	return nil
}

// GetUser handles GET /users/{userId}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) error {
	user, err := h.users.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		return err
	}
	WriteSuccess(w, r, user)
	return nil
}

// UpdateProfile handles PATCH /users/me.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) error {
	body, err := Body[validation.UpdateProfileRequest](r)
	if err != nil {
		return err
	}
	id, err := identity(r)
	if err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(r.Context(), id, services.ProfilePatch{
		Name:  body.Name,
		About: body.About,
	})
	if err != nil {
		return err
	}
	WriteSuccess(w, r, user)
	return nil
}

// UpdateAvatar handles PATCH /users/me/avatar.
func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) error {
	body, err := Body[validation.UpdateAvatarRequest](r)
	if err != nil {
		return err
	}
	id, err := identity(r)
	if err != nil {
		return err
	}

	user, err := h.users.UpdateAvatar(r.Context(), id, body.Avatar)
	if err != nil {
		return err
	}
	WriteSuccess(w, r, user)
	return nil
}
