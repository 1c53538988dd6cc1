// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rentaluc contains the rentals UseCase which reserves boats
// for customers, keeps the rentals status consistent with the passage
// of time, and collects the customers reviews.
//
// A rental starts as ongoing and is completed by the daily Sweep once
// its end date passes. Cancellation deletes the rental. By default,
// overlapping bookings of a boat are not rejected (the booking UI is
// expected to block the UnavailableDates), unless the use case is
// instantiated with the WithOverlapRejection option.
package rentaluc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/log"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// UseCase represents the rentals use case.
type UseCase struct {
	pool     repo.Pool
	rentals  repo.Rentals
	notifier repo.Notifier

	rejectOverlaps bool
	location       *time.Location
	now            func() time.Time
}

// New instantiates a rentals use case.
func New(
	p repo.Pool, r repo.Rentals, n repo.Notifier, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, rentals: r, notifier: n}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.location == nil {
		uc.location = time.UTC
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Today returns the current calendar day in the configured time zone.
func (uc *UseCase) Today() model.Date {
	return model.DateOf(uc.now().In(uc.location))
}

// UnavailableDates lists the dates range of all ongoing and completed
// rentals of the boatID boat.
func (uc *UseCase) UnavailableDates(
	ctx context.Context, boatID int64,
) (drs []model.DateRange, err error) {
	if boatID <= 0 {
		return nil, cerr.BadRequest(errors.New("boat_id is required"))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		drs, err = uc.rentals.Conn(c).UnavailableDates(ctx, boatID)
		return err
	})
	if err != nil {
		drs = nil
	}
	return
}

// CreateRequest contains the booking request fields. EndDate,
// StartTime, and EndTime are optional.
type CreateRequest struct {
	BoatID    int64
	StartDate model.Date
	EndDate   *model.Date
	StartTime *string
	EndTime   *string
	Price     float64
}

func (req *CreateRequest) rental(customerID int64) (*model.Rental, error) {
	switch {
	case req.BoatID <= 0:
		return nil, errors.New("boat_id is required")
	case req.StartDate.IsZero():
		return nil, errors.New("start_date is required")
	case req.Price <= 0:
		return nil, errors.New("rental_price must be positive")
	}
	r := &model.Rental{
		BoatID:     req.BoatID,
		CustomerID: customerID,
		StartDate:  req.StartDate,
		EndDate:    req.StartDate,
		Price:      req.Price,
		Status:     model.RentalOngoing,
	}
	if req.EndDate != nil && !req.EndDate.IsZero() {
		if req.EndDate.Before(req.StartDate) {
			return nil, errors.New("end_date is before start_date")
		}
		r.EndDate = *req.EndDate
	}
	var err error
	if r.StartTime, err = timeOfDay(req.StartTime); err != nil {
		return nil, fmt.Errorf("start_time: %w", err)
	}
	if r.EndTime, err = timeOfDay(req.EndTime); err != nil {
		return nil, fmt.Errorf("end_time: %w", err)
	}
	return r, nil
}

func timeOfDay(s *string) (*string, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := model.ParseTimeOfDay(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create books a boat for the id customer and returns the rental id.
// The customer is always taken from the id identity. Thereafter, a
// confirmation email is sent to the customer on a best effort basis.
func (uc *UseCase) Create(
	ctx context.Context, id model.Identity, req *CreateRequest,
) (rentalID int64, err error) {
	r, err := req.rental(id.UserID)
	if err != nil {
		return 0, cerr.BadRequest(err)
	}
	var bc *model.BookingContacts
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if uc.rejectOverlaps {
			rentalID, err = uc.insertExclusively(ctx, c, r)
		} else {
			rentalID, err = uc.insert(ctx, uc.rentals.Conn(c), r)
		}
		if err != nil {
			return err
		}
		bc, err = uc.rentals.Conn(c).BookingContacts(ctx, rentalID)
		if err != nil {
			log.Warn(
				ctx, "collecting booking contacts failed",
				log.ID("rental_id", rentalID), log.Err("err", err),
			)
			bc = nil
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.ID = rentalID
	if bc != nil {
		uc.confirm(ctx, r, bc)
	}
	return rentalID, nil
}

func (uc *UseCase) insert(
	ctx context.Context, q repo.RentalsQueryer, r *model.Rental,
) (int64, error) {
	ok, err := q.BoatBookable(ctx, r.BoatID)
	if err != nil {
		return 0, fmt.Errorf("checking boat: %w", err)
	}
	if !ok {
		return 0, cerr.NotFound(errors.New("boat not found"))
	}
	return q.Insert(ctx, r)
}

// insertExclusively locks the boat row, so concurrent bookings of
// that boat are serialized, and rejects overlapping ranges.
func (uc *UseCase) insertExclusively(
	ctx context.Context, c repo.Conn, r *model.Rental,
) (rentalID int64, err error) {
	err = c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
		q := uc.rentals.Tx(tx)
		if err := q.LockBoat(ctx, r.BoatID); err != nil {
			return err
		}
		drs, err := q.UnavailableDates(ctx, r.BoatID)
		if err != nil {
			return fmt.Errorf("listing unavailable dates: %w", err)
		}
		for _, dr := range drs {
			if dr.Overlaps(r.Range()) {
				return cerr.Conflict(fmt.Errorf(
					"boat is already booked from %s to %s",
					dr.Start, dr.End,
				))
			}
		}
		rentalID, err = q.Insert(ctx, r)
		return err
	})
	return
}

func (uc *UseCase) confirm(
	ctx context.Context, r *model.Rental, bc *model.BookingContacts,
) {
	subject, body := confirmationMail(r, bc)
	if err := uc.notifier.Send(ctx, bc.CustomerEmail, subject, body); err != nil {
		log.Warn(
			ctx, "sending booking confirmation failed",
			log.ID("rental_id", r.ID),
			log.Err("err", cerr.Notifier(err)),
		)
	}
}

// Cancel deletes a rental. Only its customer or an admin may cancel it.
func (uc *UseCase) Cancel(
	ctx context.Context, id model.Identity, rentalID int64,
) error {
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.rentals.Tx(tx)
			r, err := q.Rental(ctx, rentalID)
			if err != nil {
				return err
			}
			if r.CustomerID != id.UserID && !id.IsAdmin() {
				return cerr.Authorization(
					errors.New("rental belongs to another customer"),
				)
			}
			return q.Delete(ctx, rentalID)
		})
	})
}

// Sweep completes all ongoing rentals which their end date is before
// today. It is idempotent and returns the number of updated rentals.
func (uc *UseCase) Sweep(
	ctx context.Context, today model.Date,
) (n int64, err error) {
	if today.IsZero() {
		return 0, cerr.BadRequest(errors.New("today is required"))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		n, err = uc.rentals.Conn(c).Sweep(ctx, today)
		return err
	})
	if err != nil {
		return 0, err
	}
	log.Info(
		ctx, "rentals status sweep is done",
		log.Valuer("today", today), log.ID("completed", n),
	)
	return n, nil
}

// ListCustomerRentals lists the rentals of the id customer.
func (uc *UseCase) ListCustomerRentals(
	ctx context.Context, id model.Identity,
) (rvs []*model.RentalView, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rvs, err = uc.rentals.Conn(c).ListByCustomer(ctx, id.UserID)
		return err
	})
	if err != nil {
		rvs = nil
	}
	return
}
