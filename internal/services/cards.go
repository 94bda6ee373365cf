// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package services

import (
	"context"

	"github.com/tomtom215/mesto/internal/apierror"
	"github.com/tomtom215/mesto/internal/auth"
	"github.com/tomtom215/mesto/internal/logging"
	"github.com/tomtom215/mesto/internal/metrics"
	"github.com/tomtom215/mesto/internal/models"
	"github.com/tomtom215/mesto/internal/store"
)

// CardService implements the card lifecycle. Deletion is owner-only; likes
// are set operations.
type CardService struct {
	cards store.CardStore
	users store.UserStore
}

// NewCardService constructs a CardService. users resolves owner and like
// references.
func NewCardService(cards store.CardStore, users store.UserStore) *CardService {
	return &CardService{cards: cards, users: users}
}

// ListCards returns every card with owner and likes resolved to users.
func (s *CardService) ListCards(ctx context.Context) ([]models.PopulatedCard, error) {
	cards, err := s.cards.Find(ctx)
	if err != nil {
		return nil, classify(err, messages{})
	}

	seen := make(map[string]struct{})
	var ids []string
	for i := range cards {
		for _, id := range cards[i].ReferencedUserIDs() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, classify(err, messages{})
	}

	out := make([]models.PopulatedCard, 0, len(cards))
	for i := range cards {
		out = append(out, cards[i].Populate(users))
	}
	return out, nil
}

// CreateCard stores a card owned by the authenticated user.
func (s *CardService) CreateCard(ctx context.Context, identity auth.Identity, name, link string) (*models.Card, error) {
	card, err := s.cards.Create(ctx, store.NewCard{Name: name, Link: link, Owner: identity.UserID})
	if err != nil {
		return nil, classify(err, messages{badRequest: MsgInvalidCard})
	}
	metrics.RecordCardOperation("create")
	return card, nil
}

// DeleteCard removes a card owned by the authenticated user. A missing card
// is NotFound; someone else's card is Forbidden.
func (s *CardService) DeleteCard(ctx context.Context, identity auth.Identity, cardID string) (*models.Card, error) {
	msgs := messages{notFound: MsgCardNotFound, badRequest: MsgInvalidCardID}

	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return nil, classify(err, msgs)
	}
	if card.Owner != identity.UserID {
		logging.Ctx(ctx).Debug().Str("card_id", cardID).Str("owner", card.Owner).Msg("Delete refused for non-owner")
		return nil, apierror.Forbidden(MsgDeleteForbidden)
	}
	if err := s.cards.Remove(ctx, card); err != nil {
		return nil, classify(err, msgs)
	}

	metrics.RecordCardOperation("delete")
	return card, nil
}

// LikeCard adds the authenticated user to the card's likes.
func (s *CardService) LikeCard(ctx context.Context, identity auth.Identity, cardID string) (*models.PopulatedCard, error) {
	return s.updateLikes(ctx, cardID, store.CardUpdate{AddToLikes: identity.UserID}, "like")
}

// UnlikeCard removes the authenticated user from the card's likes.
func (s *CardService) UnlikeCard(ctx context.Context, identity auth.Identity, cardID string) (*models.PopulatedCard, error) {
	return s.updateLikes(ctx, cardID, store.CardUpdate{PullFromLikes: identity.UserID}, "unlike")
}

func (s *CardService) updateLikes(ctx context.Context, cardID string, update store.CardUpdate, op string) (*models.PopulatedCard, error) {
	msgs := messages{notFound: MsgCardDoesNotExist, badRequest: MsgInvalidLike}

	card, err := s.cards.FindByIDAndUpdate(ctx, cardID, update, store.UpdateOptions{
		ReturnUpdated: true,
		RunValidators: true,
	})
	if err != nil {
		return nil, classify(err, msgs)
	}

	users, err := s.users.FindByIDs(ctx, card.ReferencedUserIDs())
	if err != nil {
		return nil, classify(err, msgs)
	}

	metrics.RecordCardOperation(op)
	populated := card.Populate(users)
	return &populated, nil
}
