// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrp_test

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/internal/test/pgmock"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

var userCols = []string{
	"user_id", "email", "password_hash", "full_name", "phone",
	"account_type", "email_verified",
}

func inTx(t *testing.T, p repo.Pool, f repo.TxHandler) error {
	t.Helper()
	return p.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, f)
	})
}

func TestCreateUser(t *testing.T) {
	p, mock := pgmock.New(t)
	users := usersrp.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))
	mock.ExpectCommit()

	err := inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		id, err := users.Tx(tx).CreateUser(ctx, &model.User{
			Email:        "sam@example.com",
			PasswordHash: "hash",
			AccountType:  model.AccountCustomer,
		})
		assert.Equal(t, int64(7), id)
		return err
	})
	require.NoError(t, err)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	p, mock := pgmock.New(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		_, err := usersrp.New().Tx(tx).CreateUser(ctx, &model.User{
			Email:       "sam@example.com",
			AccountType: model.AccountCustomer,
		})
		return err
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, cerr.StatusOf(err))
}

func TestUserByEmail(t *testing.T) {
	p, mock := pgmock.New(t)
	users := usersrp.New()

	mock.ExpectQuery(`FROM users WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("Sam@Example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			3, "sam@example.com", "hash", "Sam", "+1", "business", true,
		))
	mock.ExpectQuery(`FROM users WHERE user_id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(userCols))

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		u, err := users.Conn(c).UserByEmail(ctx, "Sam@Example.com")
		require.NoError(t, err)
		assert.Equal(t, &model.User{
			ID:            3,
			Email:         "sam@example.com",
			PasswordHash:  "hash",
			FullName:      "Sam",
			Phone:         "+1",
			AccountType:   model.AccountBusiness,
			EmailVerified: true,
		}, u)

		_, err = users.Conn(c).UserByID(ctx, 9)
		assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))
		return nil
	})
}

func TestTokens(t *testing.T) {
	p, mock := pgmock.New(t)
	users := usersrp.New()
	q := regexp.QuoteMeta
	exp := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	now := exp.Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(q(`INSERT INTO reset_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`)).
		WithArgs("tkn", int64(3), exp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q(`DELETE FROM email_verifications WHERE token = $1 AND expires_at > $2 RETURNING user_id`)).
		WithArgs("tkn", now).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectQuery(q(`DELETE FROM reset_tokens WHERE token = $1 AND expires_at > $2 RETURNING user_id`)).
		WithArgs("tkn", now).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(3))
	mock.ExpectExec(q(`UPDATE "users" SET "password_hash"=$1 WHERE user_id = $2`)).
		WithArgs("new-hash", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`DELETE FROM reset_tokens WHERE user_id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		tq := users.Tx(tx)
		require.NoError(t, tq.CreateToken(ctx, &model.Token{
			Kind:      model.TokenPasswordReset,
			Value:     "tkn",
			UserID:    3,
			ExpiresAt: exp,
		}))
		_, err := tq.ConsumeToken(ctx, model.TokenEmailVerification, "tkn", now)
		assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err), "kinds are distinct")
		id, err := tq.ConsumeToken(ctx, model.TokenPasswordReset, "tkn", now)
		require.NoError(t, err)
		assert.Equal(t, int64(3), id)
		require.NoError(t, tq.SetPasswordHash(ctx, id, "new-hash"))
		return tq.DeleteTokens(ctx, model.TokenPasswordReset, id)
	})
	require.NoError(t, err)
}

func TestSetEmailVerifiedMissingUser(t *testing.T) {
	p, mock := pgmock.New(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "email_verified"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		return usersrp.New().Tx(tx).SetEmailVerified(ctx, 11)
	})
	assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))
}
