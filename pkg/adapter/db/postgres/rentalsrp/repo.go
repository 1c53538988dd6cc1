// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentalsrp

import (
	"context"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Repo implements the repo.Rentals interface.
type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (rentals *Repo) Conn(c repo.Conn) repo.RentalsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) BoatBookable(ctx context.Context, boatID int64) (bool, error) {
	return BoatBookable(ctx, cq.Conn, boatID)
}

func (cq connQueryer) UnavailableDates(ctx context.Context, boatID int64) ([]model.DateRange, error) {
	return UnavailableDates(ctx, cq.Conn, boatID)
}

func (cq connQueryer) Insert(ctx context.Context, r *model.Rental) (int64, error) {
	return Insert(ctx, cq.Conn, r)
}

func (cq connQueryer) Rental(ctx context.Context, rentalID int64) (*model.Rental, error) {
	return Rental(ctx, cq.Conn, rentalID)
}

func (cq connQueryer) Delete(ctx context.Context, rentalID int64) error {
	return Delete(ctx, cq.Conn, rentalID)
}

func (cq connQueryer) Sweep(ctx context.Context, today model.Date) (int64, error) {
	return Sweep(ctx, cq.Conn, today)
}

func (cq connQueryer) ListByCustomer(ctx context.Context, customerID int64) ([]*model.RentalView, error) {
	return ListByCustomer(ctx, cq.Conn, customerID)
}

func (cq connQueryer) BookingContacts(ctx context.Context, rentalID int64) (*model.BookingContacts, error) {
	return BookingContacts(ctx, cq.Conn, rentalID)
}

func (cq connQueryer) HasReview(ctx context.Context, rentalID int64) (bool, error) {
	return HasReview(ctx, cq.Conn, rentalID)
}

func (cq connQueryer) Review(ctx context.Context, reviewID int64) (*model.Review, error) {
	return Review(ctx, cq.Conn, reviewID)
}

func (cq connQueryer) DeleteReview(ctx context.Context, reviewID int64) error {
	return DeleteReview(ctx, cq.Conn, reviewID)
}

func (cq connQueryer) Reviews(ctx context.Context, boatID int64) ([]*model.Review, error) {
	return Reviews(ctx, cq.Conn, boatID)
}

type txQueryer struct {
	*postgres.Tx
}

func (rentals *Repo) Tx(tx repo.Tx) repo.RentalsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) BoatBookable(ctx context.Context, boatID int64) (bool, error) {
	return BoatBookable(ctx, tq.Tx, boatID)
}

func (tq txQueryer) UnavailableDates(ctx context.Context, boatID int64) ([]model.DateRange, error) {
	return UnavailableDates(ctx, tq.Tx, boatID)
}

func (tq txQueryer) Insert(ctx context.Context, r *model.Rental) (int64, error) {
	return Insert(ctx, tq.Tx, r)
}

func (tq txQueryer) Rental(ctx context.Context, rentalID int64) (*model.Rental, error) {
	return Rental(ctx, tq.Tx, rentalID)
}

func (tq txQueryer) Delete(ctx context.Context, rentalID int64) error {
	return Delete(ctx, tq.Tx, rentalID)
}

func (tq txQueryer) Sweep(ctx context.Context, today model.Date) (int64, error) {
	return Sweep(ctx, tq.Tx, today)
}

func (tq txQueryer) ListByCustomer(ctx context.Context, customerID int64) ([]*model.RentalView, error) {
	return ListByCustomer(ctx, tq.Tx, customerID)
}

func (tq txQueryer) BookingContacts(ctx context.Context, rentalID int64) (*model.BookingContacts, error) {
	return BookingContacts(ctx, tq.Tx, rentalID)
}

func (tq txQueryer) HasReview(ctx context.Context, rentalID int64) (bool, error) {
	return HasReview(ctx, tq.Tx, rentalID)
}

func (tq txQueryer) Review(ctx context.Context, reviewID int64) (*model.Review, error) {
	return Review(ctx, tq.Tx, reviewID)
}

func (tq txQueryer) DeleteReview(ctx context.Context, reviewID int64) error {
	return DeleteReview(ctx, tq.Tx, reviewID)
}

func (tq txQueryer) Reviews(ctx context.Context, boatID int64) ([]*model.Review, error) {
	return Reviews(ctx, tq.Tx, boatID)
}

func (tq txQueryer) LockBoat(ctx context.Context, boatID int64) error {
	return LockBoat(ctx, tq.Tx, boatID)
}

func (tq txQueryer) InsertReview(ctx context.Context, rv *model.Review) (int64, error) {
	return InsertReview(ctx, tq.Tx, rv)
}
