// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sch1 creates the tables of the database schema major version
// 1 and fills them with the development or production suitable rows.
// It expects the brweb1 schema to exist and to be the search_path of
// the transaction role, as prepared by the schemauc use case.
package sch1

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/momeni/boat-rental/pkg/core/passwd"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// These constants define the major, minor, and patch version of the
// database schema which is created by this package.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

//go:embed tables.sql
var tablesSQL string

// DevPassword is the password of all development accounts.
const DevPassword = "brweb-dev-password"

// Development accounts emails.
const (
	DevAdminEmail    = "admin@brweb.local"
	DevOwnerEmail    = "owner@brweb.local"
	DevCustomerEmail = "customer@brweb.local"
)

// Initializer implements the repo.SchemaInitializer interface.
type Initializer struct {
	tx     repo.Tx
	hasher passwd.Hasher
}

// New instantiates an Initializer which runs all statements in the
// `tx` transaction. The `h` hasher is used for hashing DevPassword.
func New(tx repo.Tx, h passwd.Hasher) *Initializer {
	return &Initializer{tx: tx, hasher: h}
}

// InitProdSchema creates all tables, leaving them empty.
func (i *Initializer) InitProdSchema(ctx context.Context) error {
	if _, err := i.tx.Exec(ctx, tablesSQL); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

type statement struct {
	sql  string
	args []any
}

// InitDevSchema creates all tables and inserts an admin, a business
// with a captain and two boats (one approved and one in review), a
// customer, and two rentals (one completed and reviewed, and one
// ongoing) in them.
func (i *Initializer) InitDevSchema(ctx context.Context) error {
	if err := i.InitProdSchema(ctx); err != nil {
		return err
	}
	h, err := i.hasher.Hash(DevPassword)
	if err != nil {
		return fmt.Errorf("hashing dev password: %w", err)
	}
	for n, s := range devRows(h) {
		if _, err := i.tx.Exec(ctx, s.sql, s.args...); err != nil {
			return fmt.Errorf("inserting dev rows (#%d): %w", n, err)
		}
	}
	return nil
}

func devRows(h string) []statement {
	return []statement{
		{`INSERT INTO users
	(email, password_hash, full_name, phone, account_type, email_verified)
VALUES
	(?, ?, 'Ada Admin', '', 'admin', true),
	(?, ?, 'Owen Owner', '+15550001', 'business', true),
	(?, ?, 'Cora Customer', '+15550002', 'customer', true)`,
			[]any{
				DevAdminEmail, h,
				DevOwnerEmail, h,
				DevCustomerEmail, h,
			}},
		{`INSERT INTO businesses (user_id, name, phone, address)
SELECT user_id, 'Blue Fleet', '+15550001', 'Pier 7, Marina'
FROM users WHERE email = ?`, []any{DevOwnerEmail}},
		{`INSERT INTO captains (business_id, full_name, phone, license_url)
SELECT business_id, 'Jack Sparrow', '+15550003',
	'https://storage.googleapis.com/brweb-dev/captains/1/license.pdf'
FROM businesses`, nil},
		{`INSERT INTO boats
	(business_id, name, description, trip_types, price_per_hour,
	price_per_day, capacity, boat_type, location, photos, license_url)
SELECT business_id, b.name, b.description, b.trip_types, b.per_hour,
	b.per_day, b.capacity, b.boat_type, 'Marina', b.photos, b.license
FROM businesses, (VALUES
	('Sea Breeze', 'A roomy catamaran for day trips.', 'short,day,sunrise',
	80, 450, 10, 'catamaran',
	'["https://storage.googleapis.com/brweb-dev/boats/1/1/0-deck.jpg"]',
	'https://storage.googleapis.com/brweb-dev/boats/1/1/0-license.pdf'),
	('Night Owl', 'A cozy sailboat with two cabins.', 'overnight',
	0, 600, 4, 'sailboat',
	'["https://storage.googleapis.com/brweb-dev/boats/1/2/0-cabin.jpg"]',
	'https://storage.googleapis.com/brweb-dev/boats/1/2/0-license.pdf')
) AS b(name, description, trip_types, per_hour, per_day, capacity,
	boat_type, photos, license)`, nil},
		{`INSERT INTO verification
	(boat_id, verification_status, boat_approvement)
SELECT boat_id,
	CASE name WHEN 'Sea Breeze' THEN 'approved' ELSE 'inReview' END,
	name = 'Sea Breeze'
FROM boats`, nil},
		{`INSERT INTO rentals
	(boat_id, customer_id, start_date, end_date, start_time, end_time,
	rental_price, status)
SELECT b.boat_id, u.user_id, r.start_date, r.end_date, r.start_time,
	r.end_time, r.price, r.status
FROM boats b, users u, (VALUES
	(current_date - 10, current_date - 9, time '09:00', time '17:00',
	900, 'completed'),
	(current_date + 5, current_date + 5, NULL::time, NULL::time,
	450, 'ongoing')
) AS r(start_date, end_date, start_time, end_time, price, status)
WHERE b.name = 'Sea Breeze' AND u.email = ?`, []any{DevCustomerEmail}},
		{`INSERT INTO boat_reviews
	(rental_id, boat_id, user_id, general_rating, driver_rating,
	cleanliness_rating, review_text)
SELECT rental_id, boat_id, customer_id, 5, 4, 5, 'Lovely sunset trip.'
FROM rentals WHERE status = 'completed'`, nil},
	}
}
