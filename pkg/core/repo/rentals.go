// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/boat-rental/pkg/core/model"
)

// Rentals is the repository of bookings and their reviews.
type Rentals interface {
	Conn(Conn) RentalsConnQueryer
	Tx(Tx) RentalsTxQueryer
}

type RentalsConnQueryer interface {
	RentalsQueryer
}

type RentalsTxQueryer interface {
	RentalsQueryer

	// LockBoat takes a row lock on a boat (SELECT ... FOR UPDATE) for
	// the rest of the transaction, so bookings of one boat may be
	// serialized. A missing or not yet approved boat causes a
	// cerr.NotFound error.
	LockBoat(ctx context.Context, boatID int64) error

	// InsertReview adds a review and returns its id.
	InsertReview(ctx context.Context, rv *model.Review) (int64, error)
}

// RentalsQueryer contains the operations which may run in their own
// auto-committed transactions. Missing rows are reported as
// cerr.NotFound errors.
type RentalsQueryer interface {
	// BoatBookable reports if a boat exists and is approved.
	BoatBookable(ctx context.Context, boatID int64) (bool, error)

	// UnavailableDates lists the dates range of ongoing and completed
	// rentals of a boat.
	UnavailableDates(ctx context.Context, boatID int64) ([]model.DateRange, error)

	// Insert adds a rental and returns its id.
	Insert(ctx context.Context, r *model.Rental) (int64, error)

	Rental(ctx context.Context, rentalID int64) (*model.Rental, error)

	// Delete removes a rental row.
	Delete(ctx context.Context, rentalID int64) error

	// Sweep marks the ongoing rentals which ended before today as
	// completed, returning the number of updated rows.
	Sweep(ctx context.Context, today model.Date) (int64, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]*model.RentalView, error)

	// BookingContacts collects the customer, owner, and captains
	// contact details of a rental for its confirmation email.
	BookingContacts(ctx context.Context, rentalID int64) (*model.BookingContacts, error)

	HasReview(ctx context.Context, rentalID int64) (bool, error)
	Review(ctx context.Context, reviewID int64) (*model.Review, error)
	DeleteReview(ctx context.Context, reviewID int64) error
	Reviews(ctx context.Context, boatID int64) ([]*model.Review, error)
}
