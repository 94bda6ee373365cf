// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/mesto/internal/models"
)

const (
	cardKeyPrefix   = "card:"
	cardsCollection = "cards"
)

// CardStore is the cards collection contract consumed by the services.
type CardStore interface {
	Find(ctx context.Context) ([]models.Card, error)
	FindByID(ctx context.Context, id string) (*models.Card, error)
	Create(ctx context.Context, in NewCard) (*models.Card, error)
	FindByIDAndUpdate(ctx context.Context, id string, update CardUpdate, opts UpdateOptions) (*models.Card, error)
	Remove(ctx context.Context, card *models.Card) error
}

// NewCard is the input of Create.
type NewCard struct {
	Name  string
	Link  string
	Owner string
}

// CardUpdate is a set operation on the like list. AddToLikes adds the user
// unless already present; PullFromLikes removes every occurrence.
type CardUpdate struct {
	AddToLikes    string
	PullFromLikes string
}

type cardDocument struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name" validate:"required,min=2,max=30"`
	Link      string    `json:"link" validate:"required,urlpattern"`
	Owner     string    `json:"owner" validate:"required,storeid"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d *cardDocument) toModel() *models.Card {
	likes := make([]string, len(d.Likes))
	copy(likes, d.Likes)
	return &models.Card{
		ID:        d.ID,
		Name:      d.Name,
		Link:      d.Link,
		Owner:     d.Owner,
		Likes:     likes,
		CreatedAt: d.CreatedAt,
	}
}

// Cards is the BadgerDB implementation of CardStore. Keys are card:<id>;
// time-ordered ids keep iteration in creation order.
type Cards struct {
	s *Store
}

var _ CardStore = (*Cards)(nil)

func cardKey(id string) []byte {
	return []byte(cardKeyPrefix + id)
}

// Find returns every card in creation order.
func (c *Cards) Find(ctx context.Context) (cards []models.Card, err error) {
	start := time.Now()
	defer func() { c.s.observe("find", cardsCollection, start, err) }()

	cards = []models.Card{}
	err = c.s.view(ctx, func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(cardKeyPrefix), func(val []byte) error {
			var doc cardDocument
			if err := json.Unmarshal(val, &doc); err != nil {
				return err
			}
			cards = append(cards, *doc.toModel())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// FindByID returns the card with the given id.
func (c *Cards) FindByID(ctx context.Context, id string) (card *models.Card, err error) {
	start := time.Now()
	defer func() { c.s.observe("find_by_id", cardsCollection, start, err) }()

	if err := checkID(id); err != nil {
		return nil, err
	}

	var doc cardDocument
	err = c.s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, cardKey(id), &doc)
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// Create inserts a card with an empty like list.
func (c *Cards) Create(ctx context.Context, in NewCard) (card *models.Card, err error) {
	start := time.Now()
	defer func() { c.s.observe("create", cardsCollection, start, err) }()

	id, err := newID()
	if err != nil {
		return nil, err
	}

	doc := cardDocument{
		ID:        id,
		Name:      in.Name,
		Link:      in.Link,
		Owner:     in.Owner,
		Likes:     []string{},
		CreatedAt: c.s.now().UTC(),
	}
	if err := validateDocument(cardsCollection, &doc); err != nil {
		return nil, err
	}

	err = c.s.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, cardKey(doc.ID), &doc)
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// FindByIDAndUpdate applies a like set operation atomically. Concurrent
// updates of the same card serialize through transaction conflicts, so no
// like is lost.
func (c *Cards) FindByIDAndUpdate(ctx context.Context, id string, update CardUpdate, opts UpdateOptions) (card *models.Card, err error) {
	start := time.Now()
	defer func() { c.s.observe("update", cardsCollection, start, err) }()

	if err := checkID(id); err != nil {
		return nil, err
	}
	if opts.RunValidators {
		for _, uid := range []string{update.AddToLikes, update.PullFromLikes} {
			if uid != "" && checkID(uid) != nil {
				return nil, &SchemaError{
					Collection: cardsCollection,
					Fields:     []FieldViolation{{Field: "likes", Tag: "storeid"}},
				}
			}
		}
	}

	var before, after cardDocument
	err = c.s.update(ctx, func(txn *badger.Txn) error {
		before = cardDocument{}
		if err := getJSON(txn, cardKey(id), &before); err != nil {
			return err
		}

		after = before
		after.Likes = applyLikeUpdate(before.Likes, update)
		return setJSON(txn, cardKey(id), &after)
	})
	if err != nil {
		return nil, err
	}

	if opts.ReturnUpdated {
		return after.toModel(), nil
	}
	return before.toModel(), nil
}

// Remove deletes the card. It fails with ErrNotFound if the card is already gone.
func (c *Cards) Remove(ctx context.Context, card *models.Card) (err error) {
	start := time.Now()
	defer func() { c.s.observe("remove", cardsCollection, start, err) }()

	if err := checkID(card.ID); err != nil {
		return err
	}

	return c.s.update(ctx, func(txn *badger.Txn) error {
		key := cardKey(card.ID)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
}

// applyLikeUpdate returns a new like list; likes itself is not modified.
func applyLikeUpdate(likes []string, update CardUpdate) []string {
	out := make([]string, 0, len(likes)+1)
	present := false
	for _, id := range likes {
		if update.PullFromLikes != "" && id == update.PullFromLikes {
			continue
		}
		if id == update.AddToLikes {
			present = true
		}
		out = append(out, id)
	}
	if update.AddToLikes != "" && !present {
		out = append(out, update.AddToLikes)
	}
	return out
}
