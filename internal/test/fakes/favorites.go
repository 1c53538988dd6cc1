// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"context"

	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Favorites is a fake repo.Favorites.
type Favorites struct{}

func (Favorites) Conn(c repo.Conn) repo.FavoritesConnQueryer {
	return favoritesQ{db: dbOf(c)}
}

func (Favorites) Tx(tx repo.Tx) repo.FavoritesTxQueryer {
	return favoritesQ{db: dbOf(tx)}
}

type favoritesQ struct {
	db *DB
}

func (q favoritesQ) Add(ctx context.Context, userID, boatID int64) error {
	return q.db.do("Favorites.Add", func(t *tables) error {
		if _, ok := t.boats[boatID]; !ok {
			return errBoatNotFound
		}
		t.favorites[[2]int64{userID, boatID}] = true
		return nil
	})
}

func (q favoritesQ) Remove(ctx context.Context, userID, boatID int64) (existed bool, err error) {
	err = q.db.do("Favorites.Remove", func(t *tables) error {
		k := [2]int64{userID, boatID}
		existed = t.favorites[k]
		delete(t.favorites, k)
		return nil
	})
	return
}

func (q favoritesQ) List(ctx context.Context, userID int64) (bs []*model.Boat, err error) {
	err = q.db.do("Favorites.List", func(t *tables) error {
		bs = t.sortedBoats(func(b *model.Boat) bool {
			return t.favorites[[2]int64{userID, b.ID}]
		})
		return nil
	})
	return
}
