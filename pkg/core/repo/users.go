// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/momeni/boat-rental/pkg/core/model"
)

// Users is the repository of user accounts, their businesses, and
// their one-time tokens (email verification and password reset).
type Users interface {
	Conn(Conn) UsersConnQueryer
	Tx(Tx) UsersTxQueryer
}

type UsersConnQueryer interface {
	UsersQueryer
}

// UsersTxQueryer contains the mutating operations. They are only
// offered in a transaction because each account operation changes
// more than one row (e.g., a user and its business, or a password
// and the consumed reset token).
type UsersTxQueryer interface {
	UsersQueryer

	// CreateUser inserts u and returns its assigned id. A duplicate
	// email causes a cerr.Conflict error.
	CreateUser(ctx context.Context, u *model.User) (int64, error)

	// CreateBusiness inserts b and returns its assigned id.
	CreateBusiness(ctx context.Context, b *model.Business) (int64, error)

	SetEmailVerified(ctx context.Context, userID int64) error
	SetPasswordHash(ctx context.Context, userID int64, hash string) error

	// CreateToken stores a one-time token of the given kind.
	CreateToken(ctx context.Context, t *model.Token) error

	// ConsumeToken deletes a token of the given kind and returns its
	// user id, if it exists and has not expired until now. Otherwise,
	// a cerr.NotFound error is returned.
	ConsumeToken(
		ctx context.Context, kind model.TokenKind, token string,
		now time.Time,
	) (userID int64, err error)

	// DeleteTokens removes all tokens of the given kind for a user.
	DeleteTokens(
		ctx context.Context, kind model.TokenKind, userID int64,
	) error
}

// UsersQueryer contains the read-only operations. Missing rows are
// reported as cerr.NotFound errors.
type UsersQueryer interface {
	UserByID(ctx context.Context, userID int64) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	BusinessByID(ctx context.Context, businessID int64) (*model.Business, error)
	BusinessByUser(ctx context.Context, userID int64) (*model.Business, error)
}
