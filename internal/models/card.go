// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package models

import "time"

// Card is a stored photo card. Owner and Likes hold user identifiers; Likes
// has no duplicates and keeps insertion order.
type Card struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Owner     string    `json:"owner"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// PopulatedCard is a Card with owner and likes resolved to user objects.
// Owner is nil and likes are skipped when the referenced user no longer exists.
type PopulatedCard struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Owner     *User     `json:"owner"`
	Likes     []User    `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Populate resolves the card references through users, keyed by user ID.
func (c *Card) Populate(users map[string]User) PopulatedCard {
	pc := PopulatedCard{
		ID:        c.ID,
		Name:      c.Name,
		Link:      c.Link,
		Likes:     make([]User, 0, len(c.Likes)),
		CreatedAt: c.CreatedAt,
	}
	if owner, ok := users[c.Owner]; ok {
		pc.Owner = &owner
	}
	for _, id := range c.Likes {
		if u, ok := users[id]; ok {
			pc.Likes = append(pc.Likes, u)
		}
	}
	return pc
}

// ReferencedUserIDs returns the owner followed by every liker, without duplicates.
func (c *Card) ReferencedUserIDs() []string {
	ids := make([]string, 0, len(c.Likes)+1)
	seen := make(map[string]struct{}, len(c.Likes)+1)
	for _, id := range append([]string{c.Owner}, c.Likes...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
