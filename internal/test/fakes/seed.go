// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"github.com/momeni/boat-rental/pkg/core/model"
)

// AddUser inserts u directly, assigning its id.
func (db *DB) AddUser(u model.User) *model.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u.ID = db.tables.id()
	db.tables.users[u.ID] = &u
	return &u
}

// AddBusiness inserts a business account with its business row.
func (db *DB) AddBusiness(email, name string) (*model.User, *model.Business) {
	u := db.AddUser(model.User{
		Email:         email,
		FullName:      name + " owner",
		AccountType:   model.AccountBusiness,
		EmailVerified: true,
	})
	db.mu.Lock()
	defer db.mu.Unlock()
	b := &model.Business{ID: db.tables.id(), UserID: u.ID, Name: name}
	db.tables.businesses[b.ID] = b
	return u, b
}

// AddBoat inserts a boat with a verification row of the given status.
// An empty status inserts no verification row.
func (db *DB) AddBoat(
	businessID int64, name string, status model.VerificationStatus,
) *model.Boat {
	db.mu.Lock()
	defer db.mu.Unlock()
	b := &model.Boat{
		ID:         db.tables.id(),
		BusinessID: businessID,
		BoatAttrs: model.BoatAttrs{
			Name:        name,
			Description: name + " description",
			TripTypes:   model.TripTypes{model.TripTypeDay},
			PricePerDay: 100,
			Capacity:    6,
			Type:        "sailboat",
			Location:    "Marina",
		},
		Photos:     []string{"mem://boats/" + name + "/photo"},
		LicenseURL: "mem://boats/" + name + "/license",
		CreatedAt:  db.Now(),
	}
	db.tables.boats[b.ID] = b
	if status != "" {
		db.tables.verifications[b.ID] = &model.Verification{
			BoatID:    b.ID,
			Status:    status,
			Approved:  status == model.VerificationApproved,
			UpdatedAt: db.Now(),
		}
	}
	bb := *b
	bb.Status = status
	return &bb
}

// AddCaptain inserts a captain for a business.
func (db *DB) AddCaptain(businessID int64, name string) *model.Captain {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := &model.Captain{
		ID:         db.tables.id(),
		BusinessID: businessID,
		FullName:   name,
		Phone:      "+100",
		LicenseURL: "mem://captains/" + name,
	}
	db.tables.captains[c.ID] = c
	return c
}

// AddRental inserts r directly, assigning its id.
func (db *DB) AddRental(r model.Rental) *model.Rental {
	db.mu.Lock()
	defer db.mu.Unlock()
	r.ID = db.tables.id()
	db.tables.rentals[r.ID] = &r
	rr := r
	return &rr
}

// AddToken inserts t directly.
func (db *DB) AddToken(t model.Token) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tables.tokens[tokenKey(t.Kind, t.Value)] = &t
}

// Counts reports the number of rows in each table, keyed by the
// table name.
func (db *DB) Counts() map[string]int {
	db.mu.Lock()
	defer db.mu.Unlock()
	t := db.tables
	return map[string]int{
		"users":         len(t.users),
		"businesses":    len(t.businesses),
		"boats":         len(t.boats),
		"verification":  len(t.verifications),
		"captains":      len(t.captains),
		"rentals":       len(t.rentals),
		"boat_reviews":  len(t.reviews),
		"favorites":     len(t.favorites),
		"tokens":        len(t.tokens),
	}
}

// RentalByID returns a copy of a rental row, or nil.
func (db *DB) RentalByID(id int64) *model.Rental {
	db.mu.Lock()
	defer db.mu.Unlock()
	r, ok := db.tables.rentals[id]
	if !ok {
		return nil
	}
	rr := *r
	return &rr
}

// VerificationOf returns a copy of a verification row, or nil.
func (db *DB) VerificationOf(boatID int64) *model.Verification {
	db.mu.Lock()
	defer db.mu.Unlock()
	v, ok := db.tables.verifications[boatID]
	if !ok {
		return nil
	}
	vv := *v
	return &vv
}

// UserByID returns a copy of a user row, or nil.
func (db *DB) UserByID(id int64) *model.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.tables.users[id]
	if !ok {
		return nil
	}
	uu := *u
	return &uu
}

// Tokens returns copies of all tokens of a kind.
func (db *DB) Tokens(kind model.TokenKind) []model.Token {
	db.mu.Lock()
	defer db.mu.Unlock()
	var ts []model.Token
	for _, t := range db.tables.tokens {
		if t.Kind == kind {
			ts = append(ts, *t)
		}
	}
	return ts
}
