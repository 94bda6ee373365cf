// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/mesto/internal/validation"
)

// ListCards handles GET /cards.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) error {
	cards, err := h.cards.ListCards(r.Context())
	if err != nil {
		return err
	}
	WriteSuccess(w, r, cards)
	return nil
}

// CreateCard handles POST /cards.
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) error {
	body, err := Body[validation.CreateCardRequest](r)
	if err != nil {
		return err
	}
	id, err := identity(r)
	if err != nil {
		return err
	}

	card, err := h.cards.CreateCard(r.Context(), id, body.Name, body.Link)
	if err != nil {
		return err
	}
	WriteSuccess(w, r, card)
	return nil
}

// DeleteCard handles DELETE /cards/{cardId}.
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) error {
	id, err := identity(r)
	if err != nil {
		return err
	}

	card, err := h.cards.DeleteCard(r.Context(), id, chi.URLParam(r, "cardId"))
	if err != nil {
		return err
	}
	WriteSuccess(w, r, card)
	return nil
}

// LikeCard handles PUT /cards/{cardId}/likes.
func (h *Handler) LikeCard(w http.ResponseWriter, r *http.Request) error {
	id, err := identity(r)
	if err != nil {
		return err
	}

	card, err := h.cards.LikeCard(r.Context(), id, chi.URLParam(r, "cardId"))
	if err != nil {
		return err
	}
	WriteSuccess(w, r, card)
	return nil
}

// UnlikeCard handles DELETE /cards/{cardId}/likes.
func (h *Handler) UnlikeCard(w http.ResponseWriter, r *http.Request) error {
	id, err := identity(r)
	if err != nil {
		return err
	}

	card, err := h.cards.UnlikeCard(r.Context(), id, chi.URLParam(r, "cardId"))
	if err != nil {
		return err
	}
	WriteSuccess(w, r, card)
	return nil
}
