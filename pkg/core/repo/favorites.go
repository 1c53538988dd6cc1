// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/boat-rental/pkg/core/model"
)

// Favorites is the repository of the user/boat favorite pairs.
type Favorites interface {
	Conn(Conn) FavoritesConnQueryer
	Tx(Tx) FavoritesTxQueryer
}

type FavoritesConnQueryer interface {
	FavoritesQueryer
}

type FavoritesTxQueryer interface {
	FavoritesQueryer

	// Add inserts a favorite pair. A missing boat causes a
	// cerr.NotFound error.
	Add(ctx context.Context, userID, boatID int64) error

	// Remove deletes a favorite pair, reporting if it existed.
	Remove(ctx context.Context, userID, boatID int64) (bool, error)
}

type FavoritesQueryer interface {
	// List returns the favorite boats of a user.
	List(ctx context.Context, userID int64) ([]*model.Boat, error)
}
