// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentaluc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/internal/test/fakes"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/usecase/rentaluc"
)

type env struct {
	db       *fakes.DB
	notifier *fakes.Notifier
	uc       *rentaluc.UseCase
	boat     *model.Boat
	customer model.Identity
}

func newEnv(t *testing.T, opts ...rentaluc.Option) *env {
	t.Helper()
	e := &env{db: fakes.NewDB(), notifier: &fakes.Notifier{}}
	uc, err := rentaluc.New(e.db.Pool(), fakes.Rentals{}, e.notifier, opts...)
	require.NoError(t, err)
	e.uc = uc
	_, biz := e.db.AddBusiness("owner@example.com", "Blue Fleet")
	e.db.AddCaptain(biz.ID, "Jack Sparrow")
	e.boat = e.db.AddBoat(biz.ID, "Sea Breeze", model.VerificationApproved)
	u := e.db.AddUser(model.User{
		Email:       "customer@example.com",
		FullName:    "Ann Customer",
		AccountType: model.AccountCustomer,
	})
	e.customer = model.Identity{UserID: u.ID, AccountType: model.AccountCustomer}
	return e
}

func june(day int) model.Date {
	return model.NewDate(2024, time.June, day)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	return ce.HTTPStatusCode
}

func TestCreateDefaultsEndDate(t *testing.T) {
	e := newEnv(t)
	start := "09:00"
	id, err := e.uc.Create(context.Background(), e.customer, &rentaluc.CreateRequest{
		BoatID:    e.boat.ID,
		StartDate: june(1),
		StartTime: &start,
		Price:     250,
	})
	require.NoError(t, err)
	r := e.db.RentalByID(id)
	require.NotNil(t, r)
	assert.Equal(t, june(1), r.EndDate)
	assert.Equal(t, model.RentalOngoing, r.Status)
	assert.Equal(t, e.customer.UserID, r.CustomerID)
	require.NotNil(t, r.StartTime)
	assert.Equal(t, "09:00", *r.StartTime)
	assert.Nil(t, r.EndTime)

	mails := e.notifier.Mails()
	require.Len(t, mails, 1)
	assert.Equal(t, "customer@example.com", mails[0].To)
	assert.Contains(t, mails[0].Body, "Sea Breeze")
	assert.Contains(t, mails[0].Body, "owner@example.com")
	assert.Contains(t, mails[0].Body, "Jack Sparrow")
}

func TestCreateValidation(t *testing.T) {
	e := newEnv(t)
	bad := "25:99"
	end := june(1)
	cases := map[string]*rentaluc.CreateRequest{
		"missing boat":  {StartDate: june(2), Price: 10},
		"missing start": {BoatID: e.boat.ID, Price: 10},
		"missing price": {BoatID: e.boat.ID, StartDate: june(2)},
		"end before":    {BoatID: e.boat.ID, StartDate: june(2), EndDate: &end, Price: 10},
		"bad time":      {BoatID: e.boat.ID, StartDate: june(2), EndTime: &bad, Price: 10},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.uc.Create(context.Background(), e.customer, req)
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		})
	}
	assert.Equal(t, 0, e.db.Counts()["rentals"])
}

func TestCreateUnknownBoat(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Create(context.Background(), e.customer, &rentaluc.CreateRequest{
		BoatID: 9999, StartDate: june(1), Price: 10,
	})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestCreateRejectsBoatsInReview(t *testing.T) {
	for name, opts := range map[string][]rentaluc.Option{
		"default":          nil,
		"overlap checking": {rentaluc.WithOverlapRejection()},
	} {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t, opts...)
			pending := e.db.AddBoat(e.boat.BusinessID, "Night Owl", model.VerificationInReview)
			orphan := e.db.AddBoat(e.boat.BusinessID, "Orphan", "")
			for _, id := range []int64{pending.ID, orphan.ID} {
				_, err := e.uc.Create(context.Background(), e.customer, &rentaluc.CreateRequest{
					BoatID: id, StartDate: june(1), Price: 10,
				})
				assert.Equal(t, http.StatusNotFound, statusOf(t, err))
			}
			assert.Equal(t, 0, e.db.Counts()["rentals"])
			assert.Empty(t, e.notifier.Mails())
		})
	}
}

func TestCreateSucceedsWhenEmailFails(t *testing.T) {
	e := newEnv(t)
	e.notifier.Err = errors.New("smtp down")
	id, err := e.uc.Create(context.Background(), e.customer, &rentaluc.CreateRequest{
		BoatID: e.boat.ID, StartDate: june(1), Price: 10,
	})
	require.NoError(t, err)
	assert.NotNil(t, e.db.RentalByID(id))
}

// Overlapping bookings are accepted unless WithOverlapRejection is
// configured. The booking UI is expected to block the unavailable dates.
func TestOverlappingBookingsBothSucceedByDefault(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	end1, end2 := june(5), june(6)
	_, err := e.uc.Create(ctx, e.customer, &rentaluc.CreateRequest{
		BoatID: e.boat.ID, StartDate: june(1), EndDate: &end1, Price: 10,
	})
	require.NoError(t, err)
	_, err = e.uc.Create(ctx, e.customer, &rentaluc.CreateRequest{
		BoatID: e.boat.ID, StartDate: june(3), EndDate: &end2, Price: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, e.db.Counts()["rentals"])
}

func TestOverlapRejection(t *testing.T) {
	e := newEnv(t, rentaluc.WithOverlapRejection())
	ctx := context.Background()
	end1 := june(5)
	_, err := e.uc.Create(ctx, e.customer, &rentaluc.CreateRequest{
		BoatID: e.boat.ID, StartDate: june(1), EndDate: &end1, Price: 10,
	})
	require.NoError(t, err)

	_, err = e.uc.Create(ctx, e.customer, &rentaluc.CreateRequest{
		BoatID: e.boat.ID, StartDate: june(5), Price: 10,
	})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	_, err = e.uc.Create(ctx, e.customer, &rentaluc.CreateRequest{
		BoatID: e.boat.ID, StartDate: june(6), Price: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, e.db.Counts()["rentals"])

	_, err = e.uc.Create(ctx, e.customer, &rentaluc.CreateRequest{
		BoatID: 9999, StartDate: june(6), Price: 10,
	})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestUnavailableDates(t *testing.T) {
	e := newEnv(t)
	other := e.db.AddBoat(e.boat.BusinessID, "Other", model.VerificationApproved)
	e.db.AddRental(model.Rental{
		BoatID: e.boat.ID, CustomerID: e.customer.UserID,
		StartDate: june(1), EndDate: june(3), Status: model.RentalCompleted,
	})
	e.db.AddRental(model.Rental{
		BoatID: e.boat.ID, CustomerID: e.customer.UserID,
		StartDate: june(10), EndDate: june(12), Status: model.RentalOngoing,
	})
	e.db.AddRental(model.Rental{
		BoatID: other.ID, CustomerID: e.customer.UserID,
		StartDate: june(20), EndDate: june(21), Status: model.RentalOngoing,
	})

	drs, err := e.uc.UnavailableDates(context.Background(), e.boat.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.DateRange{
		{Start: june(1), End: june(3)},
		{Start: june(10), End: june(12)},
	}, drs)

	_, err = e.uc.UnavailableDates(context.Background(), 0)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestCancel(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.db.AddRental(model.Rental{
		BoatID: e.boat.ID, CustomerID: e.customer.UserID,
		StartDate: june(1), EndDate: june(1), Status: model.RentalOngoing,
	})
	stranger := model.Identity{UserID: 777, AccountType: model.AccountCustomer}

	err := e.uc.Cancel(ctx, stranger, r.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	assert.NotNil(t, e.db.RentalByID(r.ID))

	require.NoError(t, e.uc.Cancel(ctx, e.customer, r.ID))
	assert.Nil(t, e.db.RentalByID(r.ID))

	err = e.uc.Cancel(ctx, e.customer, r.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestSweepScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.db.AddRental(model.Rental{
		BoatID: e.boat.ID, CustomerID: e.customer.UserID,
		StartDate: june(1), EndDate: june(3), Status: model.RentalOngoing,
	})

	n, err := e.uc.Sweep(ctx, june(2))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, model.RentalOngoing, e.db.RentalByID(r.ID).Status)

	n, err = e.uc.Sweep(ctx, june(3))
	require.NoError(t, err)
	assert.Zero(t, n, "end date itself is not passed yet")

	n, err = e.uc.Sweep(ctx, june(5))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, model.RentalCompleted, e.db.RentalByID(r.ID).Status)

	n, err = e.uc.Sweep(ctx, june(5))
	require.NoError(t, err)
	assert.Zero(t, n, "second run changes nothing")
	assert.Equal(t, model.RentalCompleted, e.db.RentalByID(r.ID).Status)
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC+4", 4*3600)
	uc, err := rentaluc.New(
		fakes.NewDB().Pool(), fakes.Rentals{}, &fakes.Notifier{},
		rentaluc.WithLocation(loc),
		rentaluc.WithClock(func() time.Time {
			return time.Date(2024, time.June, 4, 21, 0, 0, 0, time.UTC)
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, june(5), uc.Today())
}

func TestSubmitReview(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ongoing := e.db.AddRental(model.Rental{
		BoatID: e.boat.ID, CustomerID: e.customer.UserID,
		StartDate: june(1), EndDate: june(3), Status: model.RentalOngoing,
	})
	ratings := model.Ratings{General: 5, Driver: 4, Cleanliness: 5}

	_, err := e.uc.SubmitReview(ctx, e.customer, &rentaluc.ReviewRequest{
		RentalID: ongoing.ID, Ratings: ratings, Text: "great",
	})
	assert.Equal(t, http.StatusConflict, statusOf(t, err), "ongoing rental")

	_, err = e.uc.Sweep(ctx, june(4))
	require.NoError(t, err)

	_, err = e.uc.SubmitReview(ctx, e.customer, &rentaluc.ReviewRequest{
		RentalID: ongoing.ID, Ratings: model.Ratings{General: 6, Driver: 4, Cleanliness: 5},
	})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	stranger := model.Identity{UserID: 777, AccountType: model.AccountCustomer}
	_, err = e.uc.SubmitReview(ctx, stranger, &rentaluc.ReviewRequest{
		RentalID: ongoing.ID, Ratings: ratings,
	})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	id, err := e.uc.SubmitReview(ctx, e.customer, &rentaluc.ReviewRequest{
		RentalID: ongoing.ID, Ratings: ratings, Text: " great trip ",
	})
	require.NoError(t, err)

	_, err = e.uc.SubmitReview(ctx, e.customer, &rentaluc.ReviewRequest{
		RentalID: ongoing.ID, Ratings: ratings,
	})
	assert.Equal(t, http.StatusConflict, statusOf(t, err), "duplicate")

	rvs, err := e.uc.ListBoatReviews(ctx, e.boat.ID)
	require.NoError(t, err)
	require.Len(t, rvs, 1)
	assert.Equal(t, id, rvs[0].ID)
	assert.Equal(t, e.boat.ID, rvs[0].BoatID, "boat is taken from the rental")
	assert.Equal(t, "great trip", rvs[0].Text)

	views, err := e.uc.ListCustomerRentals(ctx, e.customer)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].HasReview)
	assert.Equal(t, "Sea Breeze", views[0].BoatName)

	err = e.uc.DeleteReview(ctx, stranger, id)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	require.NoError(t, e.uc.DeleteReview(ctx, e.customer, id))
	assert.Equal(t, 0, e.db.Counts()["boat_reviews"])
}

func TestSubmitReviewUnknownRental(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.SubmitReview(context.Background(), e.customer, &rentaluc.ReviewRequest{
		RentalID: 4242, Ratings: model.Ratings{General: 1, Driver: 1, Cleanliness: 1},
	})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}
