// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package services

import (
	"context"
	"errors"

	"github.com/tomtom215/mesto/internal/apierror"
	"github.com/tomtom215/mesto/internal/auth"
	"github.com/tomtom215/mesto/internal/logging"
	"github.com/tomtom215/mesto/internal/metrics"
	"github.com/tomtom215/mesto/internal/models"
	"github.com/tomtom215/mesto/internal/store"
)

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

// RegisterInput is the data of a registration. Nil profile fields receive
// the store defaults.
type RegisterInput struct {
	Name     *string
	About    *string
	Avatar   *string
	Email    string
	Password string
}

// ProfilePatch lists the profile fields to change. Nil fields are kept.
type ProfilePatch struct {
	Name  *string
	About *string
}

// UserService implements the account lifecycle: registration, login and
// profile reads and updates. Every mutation targets the authenticated identity.
type UserService struct {
	users      store.UserStore
	tokens     TokenIssuer
	bcryptCost int
}

// NewUserService constructs a UserService.
func NewUserService(users store.UserStore, tokens TokenIssuer, bcryptCost int) *UserService {
	return &UserService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// ListUsers returns every user.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.Find(ctx)
	if err != nil {
		return nil, classify(err, messages{})
	}
	return users, nil
}

// GetCurrentUser returns the authenticated user's own document.
func (s *UserService) GetCurrentUser(ctx context.Context, identity auth.Identity) (*models.User, error) {
	return s.GetUser(ctx, identity.UserID)
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err, messages{notFound: MsgUserNotFound, badRequest: MsgInvalidUserID})
	}
	return user, nil
}

// Register hashes the password and creates the user. A taken email is a
// Conflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apierror.Internal(err)
	}

	user, err := s.users.Create(ctx, store.NewUser{
		Name:         in.Name,
		About:        in.About,
		Avatar:       in.Avatar,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, classify(err, messages{badRequest: MsgInvalidRegistration})
	}

	metrics.RecordUserRegistered()
	logging.Ctx(ctx).Info().Str("user_id", user.ID).Msg("User registered")
	return user, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password produce the same Unauthorized error.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			metrics.RecordLogin(false)
		}
		return "", classify(err, messages{})
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", apierror.Internal(err)
	}

	metrics.RecordLogin(true)
	return token, nil
}

// UpdateProfile changes name and about of the authenticated user.
func (s *UserService) UpdateProfile(ctx context.Context, identity auth.Identity, patch ProfilePatch) (*models.User, error) {
	return s.update(ctx, identity, store.UserPatch{Name: patch.Name, About: patch.About}, MsgInvalidProfile)
}

// UpdateAvatar changes the avatar of the authenticated user.
func (s *UserService) UpdateAvatar(ctx context.Context, identity auth.Identity, avatar *string) (*models.User, error) {
	return s.update(ctx, identity, store.UserPatch{Avatar: avatar}, MsgInvalidAvatar)
}

func (s *UserService) update(ctx context.Context, identity auth.Identity, patch store.UserPatch, invalidMsg string) (*models.User, error) {
	user, err := s.users.FindByIDAndUpdate(ctx, identity.UserID, patch, store.UpdateOptions{
		ReturnUpdated: true,
		RunValidators: true,
	})
	if err != nil {
		return nil, classify(err, messages{notFound: MsgUserNotFound, badRequest: invalidMsg})
	}
	return user, nil
}
