// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Users is a fake repo.Users.
type Users struct{}

func (Users) Conn(c repo.Conn) repo.UsersConnQueryer {
	return usersQ{db: dbOf(c)}
}

func (Users) Tx(tx repo.Tx) repo.UsersTxQueryer {
	return usersQ{db: dbOf(tx)}
}

type usersQ struct {
	db *DB
}

func (q usersQ) UserByID(ctx context.Context, userID int64) (u *model.User, err error) {
	err = q.db.do("Users.UserByID", func(t *tables) error {
		uu, ok := t.users[userID]
		if !ok {
			return cerr.NotFound(errors.New("user not found"))
		}
		cp := *uu
		u = &cp
		return nil
	})
	return
}

func (q usersQ) UserByEmail(ctx context.Context, email string) (u *model.User, err error) {
	err = q.db.do("Users.UserByEmail", func(t *tables) error {
		for _, uu := range t.users {
			if strings.EqualFold(uu.Email, email) {
				cp := *uu
				u = &cp
				return nil
			}
		}
		return cerr.NotFound(errors.New("user not found"))
	})
	return
}

func (q usersQ) BusinessByID(ctx context.Context, businessID int64) (b *model.Business, err error) {
	err = q.db.do("Users.BusinessByID", func(t *tables) error {
		bb, ok := t.businesses[businessID]
		if !ok {
			return cerr.NotFound(errors.New("business not found"))
		}
		cp := *bb
		b = &cp
		return nil
	})
	return
}

func (q usersQ) BusinessByUser(ctx context.Context, userID int64) (b *model.Business, err error) {
	err = q.db.do("Users.BusinessByUser", func(t *tables) error {
		for _, bb := range t.businesses {
			if bb.UserID == userID {
				cp := *bb
				b = &cp
				return nil
			}
		}
		return cerr.NotFound(errors.New("business not found"))
	})
	return
}

func (q usersQ) CreateUser(ctx context.Context, u *model.User) (id int64, err error) {
	err = q.db.do("Users.CreateUser", func(t *tables) error {
		for _, uu := range t.users {
			if strings.EqualFold(uu.Email, u.Email) {
				return cerr.Conflict(errors.New("email is already registered"))
			}
		}
		cp := *u
		cp.ID = t.id()
		t.users[cp.ID] = &cp
		id = cp.ID
		return nil
	})
	return
}

func (q usersQ) CreateBusiness(ctx context.Context, b *model.Business) (id int64, err error) {
	err = q.db.do("Users.CreateBusiness", func(t *tables) error {
		if _, ok := t.users[b.UserID]; !ok {
			return errors.New("foreign key violation: user_id")
		}
		cp := *b
		cp.ID = t.id()
		t.businesses[cp.ID] = &cp
		id = cp.ID
		return nil
	})
	return
}

func (q usersQ) SetEmailVerified(ctx context.Context, userID int64) error {
	return q.db.do("Users.SetEmailVerified", func(t *tables) error {
		u, ok := t.users[userID]
		if !ok {
			return cerr.NotFound(errors.New("user not found"))
		}
		u.EmailVerified = true
		return nil
	})
}

func (q usersQ) SetPasswordHash(ctx context.Context, userID int64, hash string) error {
	return q.db.do("Users.SetPasswordHash", func(t *tables) error {
		u, ok := t.users[userID]
		if !ok {
			return cerr.NotFound(errors.New("user not found"))
		}
		u.PasswordHash = hash
		return nil
	})
}

func tokenKey(kind model.TokenKind, value string) string {
	return string(kind) + "/" + value
}

func (q usersQ) CreateToken(ctx context.Context, tk *model.Token) error {
	return q.db.do("Users.CreateToken", func(t *tables) error {
		cp := *tk
		t.tokens[tokenKey(tk.Kind, tk.Value)] = &cp
		return nil
	})
}

func (q usersQ) ConsumeToken(
	ctx context.Context, kind model.TokenKind, token string, now time.Time,
) (userID int64, err error) {
	err = q.db.do("Users.ConsumeToken", func(t *tables) error {
		k := tokenKey(kind, token)
		tk, ok := t.tokens[k]
		if !ok || !now.Before(tk.ExpiresAt) {
			return cerr.NotFound(errors.New("token is invalid or expired"))
		}
		delete(t.tokens, k)
		userID = tk.UserID
		return nil
	})
	return
}

func (q usersQ) DeleteTokens(ctx context.Context, kind model.TokenKind, userID int64) error {
	return q.db.do("Users.DeleteTokens", func(t *tables) error {
		for k, tk := range t.tokens {
			if tk.Kind == kind && tk.UserID == userID {
				delete(t.tokens, k)
			}
		}
		return nil
	})
}
