// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package captainsrp_test

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/internal/test/pgmock"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/captainsrp"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

var captainCols = []string{
	"captain_id", "business_id", "full_name", "phone", "license_url",
}

func TestCaptains(t *testing.T) {
	p, mock := pgmock.New(t)
	captains := captainsrp.New()
	q := regexp.QuoteMeta

	mock.ExpectQuery(`INSERT INTO "captains"`).
		WillReturnRows(sqlmock.NewRows([]string{"captain_id"}).AddRow(4))
	mock.ExpectQuery(q(`SELECT * FROM "captains" WHERE business_id = $1 ORDER BY captain_id`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(captainCols).
			AddRow(1, 2, "Jo", "+1", "l1").
			AddRow(4, 2, "Max", "+2", "l4"))
	mock.ExpectQuery(q(`SELECT * FROM "captains" WHERE captain_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(captainCols))
	mock.ExpectExec(q(`DELETE FROM captains WHERE captain_id = $1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`DELETE FROM captains WHERE captain_id = $1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		cq := captains.Conn(c)
		id, err := cq.Insert(ctx, &model.Captain{
			BusinessID: 2, FullName: "Max", Phone: "+2", LicenseURL: "l4",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), id)

		cs, err := cq.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, cs, 2)
		assert.Equal(t, &model.Captain{
			ID: 4, BusinessID: 2, FullName: "Max", Phone: "+2", LicenseURL: "l4",
		}, cs[1])

		_, err = cq.Captain(ctx, 7)
		assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))

		require.NoError(t, cq.Delete(ctx, 4))
		err = cq.Delete(ctx, 4)
		assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))
		return nil
	})
}

func TestInsertUnknownBusiness(t *testing.T) {
	p, mock := pgmock.New(t)

	mock.ExpectQuery(`INSERT INTO "captains"`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		_, err := captainsrp.New().Conn(c).Insert(ctx, &model.Captain{
			BusinessID: 99, FullName: "Jo",
		})
		assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))
		return nil
	})
}
