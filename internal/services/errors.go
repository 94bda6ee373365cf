// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package services

import (
	"errors"

	"github.com/tomtom215/mesto/internal/apierror"
	"github.com/tomtom215/mesto/internal/store"
)

// Client-facing messages.
const (
	MsgUserNotFound        = "User not found"
	MsgInvalidUserID       = "Invalid user id"
	MsgDuplicateEmail      = "A user with this email is already registered"
	MsgInvalidRegistration = "Invalid data passed when creating a user"
	MsgInvalidProfile      = "Invalid data passed when updating the profile"
	MsgInvalidAvatar       = "Invalid data passed when updating the avatar"
	MsgBadCredentials      = "Incorrect email or password"

	MsgCardNotFound     = "Card with the specified _id not found"
	MsgCardDoesNotExist = "Card with the specified _id does not exist"
	MsgInvalidCardID    = "Invalid card id"
	MsgInvalidCard      = "Invalid data passed when creating a card"
	MsgInvalidLike      = "Invalid data passed for liking the card"
	MsgDeleteForbidden  = "Insufficient permissions to delete this card"
)

// messages holds the operation specific text for the classifiable store errors.
type messages struct {
	notFound   string
	badRequest string
}

// classify turns a store error into an *apierror.Error. Errors that already
// carry a kind are passed through.
func classify(err error, msgs messages) *apierror.Error {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, store.ErrDuplicateKey):
		return apierror.Wrap(apierror.KindConflict, MsgDuplicateEmail, err)
	case store.IsSchemaError(err), errors.Is(err, store.ErrInvalidID):
		return apierror.Wrap(apierror.KindBadRequest, msgs.badRequest, err)
	case errors.Is(err, store.ErrNotFound):
		return apierror.Wrap(apierror.KindNotFound, msgs.notFound, err)
	case errors.Is(err, store.ErrInvalidCredentials):
		return apierror.Wrap(apierror.KindUnauthorized, MsgBadCredentials, err)
	default:
		return apierror.Internal(err)
	}
}
