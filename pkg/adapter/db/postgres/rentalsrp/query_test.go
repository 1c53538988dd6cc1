// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentalsrp_test

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
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/rentalsrp"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

var rentalCols = []string{
	"rental_id", "boat_id", "customer_id", "start_date", "end_date",
	"start_time", "end_time", "rental_price", "status", "created_at",
}

func TestSweep(t *testing.T) {
	p, mock := pgmock.New(t)
	q := regexp.QuoteMeta

	mock.ExpectExec(`UPDATE rentals SET status = \$1\s+WHERE status = \$2 AND end_date < \$3`).
		WithArgs("completed", "ongoing", day(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`UPDATE rentals SET status = $1`)).
		WithArgs("completed", "ongoing", day(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		rq := rentalsrp.New().Conn(c)
		n, err := rq.Sweep(ctx, model.NewDate(2024, time.June, 5))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		n, err = rq.Sweep(ctx, model.NewDate(2024, time.June, 5))
		require.NoError(t, err)
		assert.Zero(t, n)
		return nil
	})
}

func TestUnavailableDates(t *testing.T) {
	p, mock := pgmock.New(t)

	mock.ExpectQuery(`SELECT start_date, end_date FROM rentals\s+WHERE boat_id = \$1 AND status IN \(\$2, \$3\) ORDER BY rental_id`).
		WithArgs(int64(3), "ongoing", "completed").
		WillReturnRows(sqlmock.NewRows([]string{"start_date", "end_date"}).
			AddRow(day(1), day(2)).
			AddRow(day(9), day(9)))

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		drs, err := rentalsrp.New().Conn(c).UnavailableDates(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, []model.DateRange{
			{
				Start: model.NewDate(2024, time.June, 1),
				End:   model.NewDate(2024, time.June, 2),
			},
			{
				Start: model.NewDate(2024, time.June, 9),
				End:   model.NewDate(2024, time.June, 9),
			},
		}, drs)
		return nil
	})
}

const approvedBoat = `SELECT b.boat_id FROM boats b\s+` +
	`JOIN verification v ON v.boat_id = b.boat_id\s+` +
	`WHERE b.boat_id = \$1 AND v.verification_status = \$2`

func TestBoatBookable(t *testing.T) {
	p, mock := pgmock.New(t)

	mock.ExpectQuery(approvedBoat + `$`).
		WithArgs(int64(3), "approved").
		WillReturnRows(sqlmock.NewRows([]string{"boat_id"}).AddRow(3))
	mock.ExpectQuery(approvedBoat + `$`).
		WithArgs(int64(4), "approved").
		WillReturnRows(sqlmock.NewRows([]string{"boat_id"}))

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		cq := rentalsrp.New().Conn(c)
		ok, err := cq.BoatBookable(ctx, 3)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = cq.BoatBookable(ctx, 4)
		require.NoError(t, err)
		assert.False(t, ok, "boats in review may not be booked")
		return nil
	})
}

func TestBookingWithLock(t *testing.T) {
	p, mock := pgmock.New(t)

	mock.ExpectBegin()
	mock.ExpectQuery(approvedBoat + ` FOR UPDATE OF b`).
		WithArgs(int64(3), "approved").
		WillReturnRows(sqlmock.NewRows([]string{"boat_id"}).AddRow(3))
	mock.ExpectQuery(`INSERT INTO "rentals"`).
		WillReturnRows(sqlmock.NewRows([]string{"rental_id"}).AddRow(21))
	mock.ExpectQuery(approvedBoat + ` FOR UPDATE OF b`).
		WithArgs(int64(4), "approved").
		WillReturnRows(sqlmock.NewRows([]string{"boat_id"}))
	mock.ExpectRollback()

	err := p.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			tq := rentalsrp.New().Tx(tx)
			require.NoError(t, tq.LockBoat(ctx, 3))
			st := "10:00"
			id, err := tq.Insert(ctx, &model.Rental{
				BoatID:     3,
				CustomerID: 5,
				StartDate:  model.NewDate(2024, time.June, 1),
				EndDate:    model.NewDate(2024, time.June, 1),
				StartTime:  &st,
				Price:      350,
				Status:     model.RentalOngoing,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(21), id)
			return tq.LockBoat(ctx, 4)
		})
	})
	assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))
}

func TestRentalAndList(t *testing.T) {
	p, mock := pgmock.New(t)
	created := time.Date(2024, 5, 30, 8, 0, 0, 0, time.UTC)
	st := "09:30"

	mock.ExpectQuery(`FROM rentals r WHERE r.rental_id = \$1`).
		WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows(rentalCols).AddRow(
			21, 3, 5, day(1), day(2), st, nil, 700.0, "ongoing", created,
		))
	mock.ExpectQuery(`FROM rentals r LEFT JOIN boats b ON b.boat_id = r.boat_id\s+WHERE r.customer_id = \$1 ORDER BY r.rental_id`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(append(rentalCols,
			"boat_name", "location", "has_review",
		)).AddRow(
			21, 3, 5, day(1), day(2), nil, nil, 700.0, "completed", created,
			"Sea Breeze", "Marina Bay", true,
		))

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		rq := rentalsrp.New().Conn(c)
		r, err := rq.Rental(ctx, 21)
		require.NoError(t, err)
		assert.Equal(t, &model.Rental{
			ID:         21,
			BoatID:     3,
			CustomerID: 5,
			StartDate:  model.NewDate(2024, time.June, 1),
			EndDate:    model.NewDate(2024, time.June, 2),
			StartTime:  &st,
			Price:      700,
			Status:     model.RentalOngoing,
			CreatedAt:  created,
		}, r)

		rvs, err := rq.ListByCustomer(ctx, 5)
		require.NoError(t, err)
		require.Len(t, rvs, 1)
		assert.Equal(t, "Sea Breeze", rvs[0].BoatName)
		assert.True(t, rvs[0].HasReview)
		assert.Equal(t, model.RentalCompleted, rvs[0].Status)
		assert.Equal(t, int64(21), rvs[0].ID)
		return nil
	})
}

func TestBookingContacts(t *testing.T) {
	p, mock := pgmock.New(t)

	mock.ExpectQuery(`LEFT JOIN users u ON u.user_id = r.customer_id`).
		WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{
			"boat_id", "customer_email", "customer_name", "location",
		}).AddRow(3, "cust@example.com", "Cus Tomer", "Marina Bay"))
	mock.ExpectQuery(`LEFT JOIN users u ON u.user_id = bz.user_id`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"boat_id", "boat_name", "business_id", "business_name",
			"user_id", "email", "phone",
		}).AddRow(3, "Sea Breeze", 2, "Blue Fleet", 4, "owner@example.com", "+2"))
	mock.ExpectQuery(`FROM "captains" WHERE business_id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"captain_id", "business_id", "full_name", "phone", "license_url",
		}).AddRow(1, 2, "Jo", "+1", "l1"))

	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		bc, err := rentalsrp.New().Conn(c).BookingContacts(ctx, 21)
		require.NoError(t, err)
		assert.Equal(t, "cust@example.com", bc.CustomerEmail)
		assert.Equal(t, "owner@example.com", bc.Owner.Email)
		assert.Equal(t, "Marina Bay", bc.Location)
		require.Len(t, bc.Captains, 1)
		assert.Equal(t, "Jo", bc.Captains[0].FullName)
		return nil
	})
}

func TestReviews(t *testing.T) {
	p, mock := pgmock.New(t)
	q := regexp.QuoteMeta
	reviewCols := []string{
		"review_id", "rental_id", "boat_id", "user_id", "general_rating",
		"driver_rating", "cleanliness_rating", "review_text", "created_at",
	}
	created := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "boat_reviews"`).
		WillReturnRows(sqlmock.NewRows([]string{"review_id"}).AddRow(8))
	mock.ExpectQuery(`INSERT INTO "boat_reviews"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()
	mock.ExpectQuery(q(`SELECT * FROM "boat_reviews" WHERE boat_id = $1 ORDER BY review_id`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(reviewCols).
			AddRow(8, 21, 3, 5, 5, 4, 3, "Great", created))
	mock.ExpectExec(q(`DELETE FROM boat_reviews WHERE review_id = $1`)).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rv := &model.Review{
		RentalID: 21, BoatID: 3, UserID: 5,
		Ratings: model.Ratings{General: 5, Driver: 4, Cleanliness: 3},
		Text:    "Great",
	}
	pgmock.Conn(t, p, func(ctx context.Context, c repo.Conn) error {
		err := c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			tq := rentalsrp.New().Tx(tx)
			id, err := tq.InsertReview(ctx, rv)
			require.NoError(t, err)
			assert.Equal(t, int64(8), id)
			_, err = tq.InsertReview(ctx, rv)
			return err
		})
		assert.Equal(t, http.StatusConflict, cerr.StatusOf(err))

		rq := rentalsrp.New().Conn(c)
		rvs, err := rq.Reviews(ctx, 3)
		require.NoError(t, err)
		require.Len(t, rvs, 1)
		assert.Equal(t, model.Ratings{General: 5, Driver: 4, Cleanliness: 3}, rvs[0].Ratings)
		assert.Equal(t, created, rvs[0].CreatedAt)

		err = rq.DeleteReview(ctx, 8)
		assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))
		return nil
	})
}
