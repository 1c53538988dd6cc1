// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"context"
	"errors"
	"sort"

	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Rentals is a fake repo.Rentals.
type Rentals struct{}

func (Rentals) Conn(c repo.Conn) repo.RentalsConnQueryer {
	return rentalsQ{db: dbOf(c)}
}

func (Rentals) Tx(tx repo.Tx) repo.RentalsTxQueryer {
	return rentalsQ{db: dbOf(tx)}
}

type rentalsQ struct {
	db *DB
}

var errRentalNotFound = cerr.NotFound(errors.New("rental not found"))

func (t *tables) bookable(boatID int64) bool {
	if _, ok := t.boats[boatID]; !ok {
		return false
	}
	v, ok := t.verifications[boatID]
	return ok && v.Status == model.VerificationApproved
}

func (q rentalsQ) BoatBookable(ctx context.Context, boatID int64) (ok bool, err error) {
	err = q.db.do("Rentals.BoatBookable", func(t *tables) error {
		ok = t.bookable(boatID)
		return nil
	})
	return
}

func (q rentalsQ) LockBoat(ctx context.Context, boatID int64) error {
	return q.db.do("Rentals.LockBoat", func(t *tables) error {
		if !t.bookable(boatID) {
			return errBoatNotFound
		}
		return nil
	})
}

func (t *tables) sortedRentals(keep func(r *model.Rental) bool) []*model.Rental {
	var rs []*model.Rental
	for _, r := range t.rentals {
		if keep(r) {
			cp := *r
			rs = append(rs, &cp)
		}
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
	return rs
}

func (q rentalsQ) UnavailableDates(ctx context.Context, boatID int64) (drs []model.DateRange, err error) {
	err = q.db.do("Rentals.UnavailableDates", func(t *tables) error {
		rs := t.sortedRentals(func(r *model.Rental) bool {
			return r.BoatID == boatID && (r.Status == model.RentalOngoing ||
				r.Status == model.RentalCompleted)
		})
		drs = make([]model.DateRange, 0, len(rs))
		for _, r := range rs {
			drs = append(drs, r.Range())
		}
		return nil
	})
	return
}

func (q rentalsQ) Insert(ctx context.Context, r *model.Rental) (id int64, err error) {
	err = q.db.do("Rentals.Insert", func(t *tables) error {
		if _, ok := t.boats[r.BoatID]; !ok {
			return errors.New("foreign key violation: boat_id")
		}
		cp := *r
		cp.ID = t.id()
		cp.CreatedAt = q.db.Now()
		t.rentals[cp.ID] = &cp
		id = cp.ID
		return nil
	})
	return
}

func (q rentalsQ) Rental(ctx context.Context, rentalID int64) (r *model.Rental, err error) {
	err = q.db.do("Rentals.Rental", func(t *tables) error {
		rr, ok := t.rentals[rentalID]
		if !ok {
			return errRentalNotFound
		}
		cp := *rr
		r = &cp
		return nil
	})
	return
}

func (q rentalsQ) Delete(ctx context.Context, rentalID int64) error {
	return q.db.do("Rentals.Delete", func(t *tables) error {
		if _, ok := t.rentals[rentalID]; !ok {
			return errRentalNotFound
		}
		delete(t.rentals, rentalID)
		for id, rv := range t.reviews {
			if rv.RentalID == rentalID {
				delete(t.reviews, id)
			}
		}
		return nil
	})
}

func (q rentalsQ) Sweep(ctx context.Context, today model.Date) (n int64, err error) {
	err = q.db.do("Rentals.Sweep", func(t *tables) error {
		for _, r := range t.rentals {
			if r.Status == model.RentalOngoing && r.EndDate.Before(today) {
				r.Status = model.RentalCompleted
				n++
			}
		}
		return nil
	})
	return
}

func (t *tables) hasReview(rentalID int64) bool {
	for _, rv := range t.reviews {
		if rv.RentalID == rentalID {
			return true
		}
	}
	return false
}

func (q rentalsQ) ListByCustomer(ctx context.Context, customerID int64) (rvs []*model.RentalView, err error) {
	err = q.db.do("Rentals.ListByCustomer", func(t *tables) error {
		rs := t.sortedRentals(func(r *model.Rental) bool {
			return r.CustomerID == customerID
		})
		for _, r := range rs {
			rv := &model.RentalView{Rental: *r, HasReview: t.hasReview(r.ID)}
			if b, ok := t.boats[r.BoatID]; ok {
				rv.BoatName = b.Name
				rv.Location = b.Location
			}
			rvs = append(rvs, rv)
		}
		return nil
	})
	return
}

func (q rentalsQ) BookingContacts(ctx context.Context, rentalID int64) (bc *model.BookingContacts, err error) {
	err = q.db.do("Rentals.BookingContacts", func(t *tables) error {
		r, ok := t.rentals[rentalID]
		if !ok {
			return errRentalNotFound
		}
		c, ok := t.users[r.CustomerID]
		if !ok {
			return cerr.NotFound(errors.New("customer not found"))
		}
		o, err := t.owner(r.BoatID)
		if err != nil {
			return err
		}
		bc = &model.BookingContacts{
			CustomerEmail: c.Email,
			CustomerName:  c.FullName,
			Owner:         *o,
			Location:      t.boats[r.BoatID].Location,
			Captains:      t.captainsOf(o.BusinessID),
		}
		return nil
	})
	return
}

func (q rentalsQ) HasReview(ctx context.Context, rentalID int64) (ok bool, err error) {
	err = q.db.do("Rentals.HasReview", func(t *tables) error {
		ok = t.hasReview(rentalID)
		return nil
	})
	return
}

func (q rentalsQ) InsertReview(ctx context.Context, rv *model.Review) (id int64, err error) {
	err = q.db.do("Rentals.InsertReview", func(t *tables) error {
		if _, ok := t.rentals[rv.RentalID]; !ok {
			return errors.New("foreign key violation: rental_id")
		}
		cp := *rv
		cp.ID = t.id()
		cp.CreatedAt = q.db.Now()
		t.reviews[cp.ID] = &cp
		id = cp.ID
		return nil
	})
	return
}

func (q rentalsQ) Review(ctx context.Context, reviewID int64) (rv *model.Review, err error) {
	err = q.db.do("Rentals.Review", func(t *tables) error {
		r, ok := t.reviews[reviewID]
		if !ok {
			return cerr.NotFound(errors.New("review not found"))
		}
		cp := *r
		rv = &cp
		return nil
	})
	return
}

func (q rentalsQ) DeleteReview(ctx context.Context, reviewID int64) error {
	return q.db.do("Rentals.DeleteReview", func(t *tables) error {
		if _, ok := t.reviews[reviewID]; !ok {
			return cerr.NotFound(errors.New("review not found"))
		}
		delete(t.reviews, reviewID)
		return nil
	})
}

func (q rentalsQ) Reviews(ctx context.Context, boatID int64) (rvs []*model.Review, err error) {
	err = q.db.do("Rentals.Reviews", func(t *tables) error {
		for _, r := range t.reviews {
			if r.BoatID == boatID {
				cp := *r
				rvs = append(rvs, &cp)
			}
		}
		sort.Slice(rvs, func(i, j int) bool { return rvs[i].ID < rvs[j].ID })
		return nil
	})
	return
}
