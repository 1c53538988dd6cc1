// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package favoritesrp

import (
	"context"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Repo implements the repo.Favorites interface.
type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (favorites *Repo) Conn(c repo.Conn) repo.FavoritesConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) List(ctx context.Context, userID int64) ([]*model.Boat, error) {
	return List(ctx, cq.Conn, userID)
}

type txQueryer struct {
	*postgres.Tx
}

func (favorites *Repo) Tx(tx repo.Tx) repo.FavoritesTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) List(ctx context.Context, userID int64) ([]*model.Boat, error) {
	return List(ctx, tq.Tx, userID)
}

func (tq txQueryer) Add(ctx context.Context, userID, boatID int64) error {
	return Add(ctx, tq.Tx, userID, boatID)
}

func (tq txQueryer) Remove(ctx context.Context, userID, boatID int64) (bool, error) {
	return Remove(ctx, tq.Tx, userID, boatID)
}
