// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package captainsrp

import (
	"context"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Repo implements the repo.Captains interface.
type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (captains *Repo) Conn(c repo.Conn) repo.CaptainsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Insert(ctx context.Context, c *model.Captain) (int64, error) {
	return Insert(ctx, cq.Conn, c)
}

func (cq connQueryer) Captain(ctx context.Context, captainID int64) (*model.Captain, error) {
	return Captain(ctx, cq.Conn, captainID)
}

func (cq connQueryer) List(ctx context.Context, businessID int64) ([]*model.Captain, error) {
	return List(ctx, cq.Conn, businessID)
}

func (cq connQueryer) Delete(ctx context.Context, captainID int64) error {
	return Delete(ctx, cq.Conn, captainID)
}

type txQueryer struct {
	*postgres.Tx
}

func (captains *Repo) Tx(tx repo.Tx) repo.CaptainsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Insert(ctx context.Context, c *model.Captain) (int64, error) {
	return Insert(ctx, tq.Tx, c)
}

func (tq txQueryer) Captain(ctx context.Context, captainID int64) (*model.Captain, error) {
	return Captain(ctx, tq.Tx, captainID)
}

func (tq txQueryer) List(ctx context.Context, businessID int64) ([]*model.Captain, error) {
	return List(ctx, tq.Tx, businessID)
}

func (tq txQueryer) Delete(ctx context.Context, captainID int64) error {
	return Delete(ctx, tq.Tx, captainID)
}
