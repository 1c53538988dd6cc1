// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package favoritesrp_test

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
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/favoritesrp"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

func TestToggleStatements(t *testing.T) {
	p, mock := pgmock.New(t)
	favorites := favoritesrp.New()
	q := regexp.QuoteMeta

	mock.ExpectBegin()
	mock.ExpectExec(q(`DELETE FROM favorites WHERE user_id = $1 AND boat_id = $2`)).
		WithArgs(int64(5), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO favorites \(user_id, boat_id\)\s+VALUES \(\$1, \$2\) ON CONFLICT DO NOTHING`).
		WithArgs(int64(5), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`DELETE FROM favorites WHERE user_id = $1 AND boat_id = $2`)).
		WithArgs(int64(5), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := p.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			tq := favorites.Tx(tx)
			existed, err := tq.Remove(ctx, 5, 3)
			require.NoError(t, err)
			assert.False(t, existed)
			require.NoError(t, tq.Add(ctx, 5, 3))
			existed, err = tq.Remove(ctx, 5, 3)
			require.NoError(t, err)
			assert.True(t, existed)
			return nil
		})
	})
	require.NoError(t, err)
}

func TestAddUnknownBoat(t *testing.T) {
	p, mock := pgmock.New(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO favorites`).
		WillReturnError(&pgconn.PgError{
			Code:           "23503",
			ConstraintName: "favorites_boat_id_fkey",
		})
	mock.ExpectRollback()

	err := p.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return favoritesrp.New().Tx(tx).Add(ctx, 5, 99)
		})
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))
	assert.Contains(t, err.Error(), "boat not found")
}

func TestList(t *testing.T) {
	p, mock := pgmock.New(t)

	mock.ExpectQuery(`WHERE b.boat_id IN\s+\(SELECT boat_id FROM favorites WHERE user_id = \$1\) ORDER BY b.boat_id`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"boat_id", "business_id", "name", "description", "trip_types",
			"price_per_hour", "price_per_day", "capacity", "boat_type",
			"location", "photos", "license_url", "created_at",
			"verification_status",
		}).AddRow(
			3, 2, "Night Owl", "Fast", "overnight", 80.0, 0.0, 4, "Yacht",
			"North Pier", `["p"]`, "l", time.Now(), "inReview",
		))

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		bs, err := favoritesrp.New().Conn(c).List(ctx, 5)
		require.NoError(t, err)
		require.Len(t, bs, 1)
		assert.Equal(t, "Night Owl", bs[0].Name)
		assert.Equal(t, []string{"p"}, bs[0].Photos)
		return nil
	})
}
