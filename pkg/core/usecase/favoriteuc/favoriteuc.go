// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package favoriteuc contains the favorites UseCase which lets users
// bookmark the boats which they like.
package favoriteuc

import (
	"context"
	"errors"

	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// UseCase represents the favorites use case.
type UseCase struct {
	pool      repo.Pool
	favorites repo.Favorites
}

// New instantiates a favorites use case.
func New(p repo.Pool, f repo.Favorites) *UseCase {
	return &UseCase{pool: p, favorites: f}
}

// Toggle removes boatID from the favorites of the id user if it was
// there, or adds it otherwise. It reports if the boat is a favorite
// afterwards. Unknown boats cause a cerr.NotFound error.
func (uc *UseCase) Toggle(
	ctx context.Context, id model.Identity, boatID int64,
) (favorited bool, err error) {
	if boatID <= 0 {
		return false, cerr.BadRequest(errors.New("boat_id is required"))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.favorites.Tx(tx)
			existed, err := q.Remove(ctx, id.UserID, boatID)
			if err != nil || existed {
				return err
			}
			favorited = true
			return q.Add(ctx, id.UserID, boatID)
		})
	})
	if err != nil {
		return false, err
	}
	return favorited, nil
}

// List returns the favorite boats of the id user.
func (uc *UseCase) List(
	ctx context.Context, id model.Identity,
) (boats []*model.Boat, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		boats, err = uc.favorites.Conn(c).List(ctx, id.UserID)
		return err
	})
	if err != nil {
		boats = nil
	}
	return
}
