// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrp

import (
	"context"
	"time"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Repo implements the repo.Users interface.
type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (users *Repo) Conn(c repo.Conn) repo.UsersConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) UserByID(ctx context.Context, userID int64) (*model.User, error) {
	return UserByID(ctx, cq.Conn, userID)
}

func (cq connQueryer) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return UserByEmail(ctx, cq.Conn, email)
}

func (cq connQueryer) BusinessByID(ctx context.Context, businessID int64) (*model.Business, error) {
	return BusinessByID(ctx, cq.Conn, businessID)
}

func (cq connQueryer) BusinessByUser(ctx context.Context, userID int64) (*model.Business, error) {
	return BusinessByUser(ctx, cq.Conn, userID)
}

type txQueryer struct {
	*postgres.Tx
}

func (users *Repo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) UserByID(ctx context.Context, userID int64) (*model.User, error) {
	return UserByID(ctx, tq.Tx, userID)
}

func (tq txQueryer) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return UserByEmail(ctx, tq.Tx, email)
}

func (tq txQueryer) BusinessByID(ctx context.Context, businessID int64) (*model.Business, error) {
	return BusinessByID(ctx, tq.Tx, businessID)
}

func (tq txQueryer) BusinessByUser(ctx context.Context, userID int64) (*model.Business, error) {
	return BusinessByUser(ctx, tq.Tx, userID)
}

func (tq txQueryer) CreateUser(ctx context.Context, u *model.User) (int64, error) {
	return CreateUser(ctx, tq.Tx, u)
}

func (tq txQueryer) CreateBusiness(ctx context.Context, b *model.Business) (int64, error) {
	return CreateBusiness(ctx, tq.Tx, b)
}

func (tq txQueryer) SetEmailVerified(ctx context.Context, userID int64) error {
	return SetEmailVerified(ctx, tq.Tx, userID)
}

func (tq txQueryer) SetPasswordHash(ctx context.Context, userID int64, hash string) error {
	return SetPasswordHash(ctx, tq.Tx, userID, hash)
}

func (tq txQueryer) CreateToken(ctx context.Context, t *model.Token) error {
	return CreateToken(ctx, tq.Tx, t)
}

func (tq txQueryer) ConsumeToken(
	ctx context.Context, kind model.TokenKind, token string, now time.Time,
) (int64, error) {
	return ConsumeToken(ctx, tq.Tx, kind, token, now)
}

func (tq txQueryer) DeleteTokens(ctx context.Context, kind model.TokenKind, userID int64) error {
	return DeleteTokens(ctx, tq.Tx, kind, userID)
}
