// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package boatsrp_test

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
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/boatsrp"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

var boatCols = []string{
	"boat_id", "business_id", "name", "description", "trip_types",
	"price_per_hour", "price_per_day", "capacity", "boat_type",
	"location", "photos", "license_url", "created_at",
	"verification_status",
}

var created = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func inTx(t *testing.T, p repo.Pool, f repo.TxHandler) error {
	t.Helper()
	return p.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, f)
	})
}

func TestBoat(t *testing.T) {
	p, mock := pgmock.New(t)
	boats := boatsrp.New()

	mock.ExpectQuery(`LEFT JOIN verification v ON v.boat_id = b.boat_id WHERE b.boat_id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(boatCols).AddRow(
			4, 2, "Sea Breeze", "A calm sailboat", "short,day",
			0.0, 350.0, 6, "Sailboat", "Marina Bay",
			`["https://cdn/p1.jpg","https://cdn/p2.jpg"]`, "https://cdn/l.pdf",
			created, "approved",
		))
	mock.ExpectQuery(`WHERE b.boat_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(boatCols))

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		b, err := boats.Conn(c).Boat(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, &model.Boat{
			ID:         4,
			BusinessID: 2,
			BoatAttrs: model.BoatAttrs{
				Name:        "Sea Breeze",
				Description: "A calm sailboat",
				TripTypes: model.TripTypes{
					model.TripTypeShort, model.TripTypeDay,
				},
				PricePerDay: 350,
				Capacity:    6,
				Type:        "Sailboat",
				Location:    "Marina Bay",
			},
			Photos:     []string{"https://cdn/p1.jpg", "https://cdn/p2.jpg"},
			LicenseURL: "https://cdn/l.pdf",
			Status:     model.VerificationApproved,
			CreatedAt:  created,
		}, b)

		_, err = boats.Conn(c).Boat(ctx, 5)
		assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))
		return nil
	})
}

func TestSearchFilters(t *testing.T) {
	p, mock := pgmock.New(t)
	q := regexp.QuoteMeta

	mock.ExpectQuery(q(`WHERE v.verification_status = $1 AND b.location ILIKE $2 AND lower(b.boat_type) = lower($3) AND b.capacity >= $4 AND $5 = ANY(string_to_array(b.trip_types, ',')) ORDER BY b.boat_id`)).
		WithArgs("approved", `%sea\_side%`, "Sailboat", 4, "sunrise").
		WillReturnRows(sqlmock.NewRows(boatCols))
	mock.ExpectQuery(q(`WHERE v.verification_status = $1 ORDER BY b.boat_id`)).
		WithArgs("approved").
		WillReturnRows(sqlmock.NewRows(boatCols).AddRow(
			9, 2, "Night Owl", "Fast", "overnight", 80.0, 0.0, 4,
			"Yacht", "North Pier", "[]", "", created, "approved",
		))

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		bs, err := boatsrp.New().Conn(c).Search(ctx, model.BoatFilter{
			Location:    "sea_side",
			Type:        "Sailboat",
			MinCapacity: 4,
			TripType:    model.TripTypeSunrise,
		})
		require.NoError(t, err)
		assert.Empty(t, bs)

		bs, err = boatsrp.New().Conn(c).Search(ctx, model.BoatFilter{})
		require.NoError(t, err)
		require.Len(t, bs, 1)
		assert.Equal(t, []string{}, bs[0].Photos)
		assert.Equal(t, model.TripTypes{model.TripTypeOvernight}, bs[0].TripTypes)
		return nil
	})
}

func TestListInReviewGroupsCaptains(t *testing.T) {
	p, mock := pgmock.New(t)
	q := regexp.QuoteMeta

	mock.ExpectQuery(`FROM verification v\s+JOIN boats b`).
		WithArgs("inReview").
		WillReturnRows(sqlmock.NewRows([]string{
			"boat_id", "boat_name", "business_id", "business_name",
			"license_url", "photos",
		}).
			AddRow(3, "Night Owl", 2, "Blue Fleet", "l3", `["p3"]`).
			AddRow(6, "Gull", 8, "Red Fleet", "l6", `[]`))
	mock.ExpectQuery(q(`FROM captains WHERE business_id IN ($1,$2) ORDER BY captain_id`)).
		WithArgs(int64(2), int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{
			"captain_id", "business_id", "full_name", "phone", "license_url",
		}).AddRow(1, 2, "Jo", "+1", "cl1"))

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		prs, err := boatsrp.New().Conn(c).ListInReview(ctx)
		require.NoError(t, err)
		require.Len(t, prs, 2)
		assert.Equal(t, "Blue Fleet", prs[0].BusinessName)
		assert.Equal(t, []string{"p3"}, prs[0].Photos)
		assert.Equal(t, []*model.Captain{{
			ID: 1, BusinessID: 2, FullName: "Jo", Phone: "+1", LicenseURL: "cl1",
		}}, prs[0].Captains)
		assert.Equal(t, []*model.Captain{}, prs[1].Captains)
		return nil
	})
}

func TestOwnerBrokenLink(t *testing.T) {
	p, mock := pgmock.New(t)
	ownerCols := []string{
		"boat_id", "boat_name", "business_id", "business_name",
		"user_id", "email", "phone",
	}

	mock.ExpectQuery(`LEFT JOIN users u ON u.user_id = bz.user_id`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(ownerCols).
			AddRow(3, "Night Owl", 2, "Blue Fleet", 5, "owner@example.com", "+2"))
	mock.ExpectQuery(`LEFT JOIN users u ON u.user_id = bz.user_id`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(ownerCols).
			AddRow(4, "Orphan", nil, "", nil, "", ""))

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		o, err := boatsrp.New().Conn(c).Owner(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, &model.OwnerContact{
			BoatID:       3,
			BoatName:     "Night Owl",
			BusinessID:   2,
			BusinessName: "Blue Fleet",
			UserID:       5,
			Email:        "owner@example.com",
			Phone:        "+2",
		}, o)

		_, err = boatsrp.New().Conn(c).Owner(ctx, 4)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))
		assert.Contains(t, err.Error(), "business not found")
		return nil
	})
}

func TestRegisterStatements(t *testing.T) {
	p, mock := pgmock.New(t)
	q := regexp.QuoteMeta

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "boats"`).
		WillReturnRows(sqlmock.NewRows([]string{"boat_id"}).AddRow(12))
	mock.ExpectExec(q(`UPDATE boats SET photos = $1, license_url = $2 WHERE boat_id = $3`)).
		WithArgs(`["u1","u2"]`, "lic", int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`(boat_id, verification_status, boat_approvement) VALUES ($1, $2, false)`)).
		WithArgs(int64(12), "inReview").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		tq := boatsrp.New().Tx(tx)
		id, err := tq.Insert(ctx, 2, &model.BoatAttrs{
			Name:        "Gull",
			Description: "Small",
			TripTypes:   model.TripTypes{model.TripTypeShort},
			PricePerDay: 100,
			Capacity:    2,
			Type:        "Dinghy",
			Location:    "Bay",
		})
		require.NoError(t, err)
		require.Equal(t, int64(12), id)
		require.NoError(t, tq.SetFiles(ctx, id, []string{"u1", "u2"}, "lic"))
		return tq.InsertVerification(ctx, id)
	})
	require.NoError(t, err)
}

func TestDeleteWithRentalsConflicts(t *testing.T) {
	p, mock := pgmock.New(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM verification WHERE boat_id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM boats WHERE boat_id = \$1`).
		WithArgs(int64(3)).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	err := inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		tq := boatsrp.New().Tx(tx)
		require.NoError(t, tq.DeleteVerification(ctx, 3))
		return tq.Delete(ctx, 3)
	})
	assert.Equal(t, http.StatusConflict, cerr.StatusOf(err))
}

func TestSetVerificationMissingRow(t *testing.T) {
	p, mock := pgmock.New(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE verification SET verification_status = \$1`).
		WithArgs("approved", true, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		return boatsrp.New().Tx(tx).SetVerification(
			ctx, 3, model.VerificationApproved, true,
		)
	})
	assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))
}

func TestVerificationIsLockedInTx(t *testing.T) {
	p, mock := pgmock.New(t)
	updated := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	cols := []string{
		"boat_id", "verification_status", "boat_approvement", "updated_at",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM verification WHERE boat_id = \$1 FOR UPDATE$`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(3, "approved", true, updated))
	mock.ExpectQuery(`FROM verification WHERE boat_id = \$1 FOR UPDATE$`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectRollback()

	err := inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		tq := boatsrp.New().Tx(tx)
		v, err := tq.Verification(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, &model.Verification{
			BoatID:    3,
			Status:    model.VerificationApproved,
			Approved:  true,
			UpdatedAt: updated,
		}, v)
		_, err = tq.Verification(ctx, 4)
		return err
	})
	assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))
}
