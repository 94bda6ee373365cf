// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/mesto/internal/auth"
	"github.com/tomtom215/mesto/internal/models"
)

// Key prefixes for the users collection.
const (
	userKeyPrefix      = "user:"
	userEmailKeyPrefix = "user_email:"

	usersCollection = "users"
)

// UserStore is the users collection contract consumed by the services.
type UserStore interface {
	Find(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]models.User, error)
	Create(ctx context.Context, in NewUser) (*models.User, error)
	FindByIDAndUpdate(ctx context.Context, id string, patch UserPatch, opts UpdateOptions) (*models.User, error)
	FindByCredentials(ctx context.Context, email, password string) (*models.User, error)
}

// NewUser is the input of Create. Nil profile fields receive the defaults.
type NewUser struct {
	Name         *string
	About        *string
	Avatar       *string
	Email        string
	PasswordHash string
}

// UserPatch lists the fields to overwrite. Nil fields are left unchanged.
type UserPatch struct {
	Name   *string
	About  *string
	Avatar *string
}

// UpdateOptions mirrors the options of a findByIdAndUpdate call.
type UpdateOptions struct {
	// ReturnUpdated returns the document after the update instead of before.
	ReturnUpdated bool

	// RunValidators re-validates the patched document before writing it.
	RunValidators bool
}

// userDocument is the stored form of a user. The validate tags are the
// write-time schema.
type userDocument struct {
	ID       string `json:"_id"`
	Name     string `json:"name" validate:"min=2,max=30"`
	About    string `json:"about" validate:"min=2,max=30"`
	Avatar   string `json:"avatar" validate:"urlpattern"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:     d.ID,
		Name:   d.Name,
		About:  d.About,
		Avatar: d.Avatar,
		Email:  d.Email,
	}
}

// Users is the BadgerDB implementation of UserStore. Each user is stored
// under user:<id> with a user_email:<email> index entry enforcing uniqueness.
type Users struct {
	s *Store
}

var _ UserStore = (*Users)(nil)

func userKey(id string) []byte {
	return []byte(userKeyPrefix + id)
}

func userEmailKey(email string) []byte {
	return []byte(userEmailKeyPrefix + email)
}

// NormalizeEmail trims and lower-cases an email so the unique index is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Find returns every user in creation order.
func (u *Users) Find(ctx context.Context) (users []models.User, err error) {
	start := time.Now()
	defer func() { u.s.observe("find", usersCollection, start, err) }()

	users = []models.User{}
	err = u.s.view(ctx, func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(userKeyPrefix), func(val []byte) error {
			var doc userDocument
			if err := json.Unmarshal(val, &doc); err != nil {
				return err
			}
			users = append(users, *doc.toModel())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FindByID returns the user with the given id.
func (u *Users) FindByID(ctx context.Context, id string) (user *models.User, err error) {
	start := time.Now()
	defer func() { u.s.observe("find_by_id", usersCollection, start, err) }()

	if err := checkID(id); err != nil {
		return nil, err
	}

	var doc userDocument
	err = u.s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &doc)
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// FindByIDs resolves a set of ids in one snapshot. Ids that do not resolve
// are absent from the result.
func (u *Users) FindByIDs(ctx context.Context, ids []string) (users map[string]models.User, err error) {
	start := time.Now()
	defer func() { u.s.observe("find_by_ids", usersCollection, start, err) }()

	users = make(map[string]models.User, len(ids))
	err = u.s.view(ctx, func(txn *badger.Txn) error {
		for _, id := range ids {
			if checkID(id) != nil {
				continue
			}
			var doc userDocument
			err := getJSON(txn, userKey(id), &doc)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			users[id] = *doc.toModel()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a user. It fails with ErrDuplicateKey when the email is
// taken and with *SchemaError when the document is invalid.
func (u *Users) Create(ctx context.Context, in NewUser) (user *models.User, err error) {
	start := time.Now()
	defer func() { u.s.observe("create", usersCollection, start, err) }()

	id, err := newID()
	if err != nil {
		return nil, err
	}

	doc := userDocument{
		ID:       id,
		Name:     stringOr(in.Name, models.DefaultUserName),
		About:    stringOr(in.About, models.DefaultUserAbout),
		Avatar:   stringOr(in.Avatar, models.DefaultUserAvatar),
		Email:    NormalizeEmail(in.Email),
		Password: in.PasswordHash,
	}
	if err := validateDocument(usersCollection, &doc); err != nil {
		return nil, err
	}

	err = u.s.update(ctx, func(txn *badger.Txn) error {
		emailKey := userEmailKey(doc.Email)
		_, err := txn.Get(emailKey)
		if err == nil {
			return ErrDuplicateKey
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := setJSON(txn, userKey(doc.ID), &doc); err != nil {
			return err
		}
		return txn.Set(emailKey, []byte(doc.ID))
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// FindByIDAndUpdate applies patch to the user in a single transaction.
func (u *Users) FindByIDAndUpdate(ctx context.Context, id string, patch UserPatch, opts UpdateOptions) (user *models.User, err error) {
	start := time.Now()
	defer func() { u.s.observe("update", usersCollection, start, err) }()

	if err := checkID(id); err != nil {
		return nil, err
	}

	var before, after userDocument
	err = u.s.update(ctx, func(txn *badger.Txn) error {
		if err := getJSON(txn, userKey(id), &before); err != nil {
			return err
		}

		after = before
		if patch.Name != nil {
			after.Name = *patch.Name
		}
		if patch.About != nil {
			after.About = *patch.About
		}
		if patch.Avatar != nil {
			after.Avatar = *patch.Avatar
		}
		if opts.RunValidators {
			if err := validateDocument(usersCollection, &after); err != nil {
				return err
			}
		}
		return setJSON(txn, userKey(id), &after)
	})
	if err != nil {
		return nil, err
	}

	if opts.ReturnUpdated {
		return after.toModel(), nil
	}
	return before.toModel(), nil
}

// FindByCredentials returns the user whose email and password match.
// An unknown email and a wrong password both yield ErrInvalidCredentials,
// and both pay for one bcrypt comparison.
func (u *Users) FindByCredentials(ctx context.Context, email, password string) (user *models.User, err error) {
	start := time.Now()
	defer func() { u.s.observe("find_by_credentials", usersCollection, start, err) }()

	var doc userDocument
	err = u.s.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(NormalizeEmail(email)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, userKey(string(id)), &doc)
	})
	if errors.Is(err, ErrNotFound) {
		auth.CompareDummy(password, u.s.bcryptCost)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.ComparePassword(doc.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return doc.toModel(), nil
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
