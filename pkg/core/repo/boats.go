// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/boat-rental/pkg/core/model"
)

// Boats is the repository of boat listings and their verification
// records. Each boat has exactly one verification row which is created
// with it in the same transaction and is deleted before it.
type Boats interface {
	Conn(Conn) BoatsConnQueryer
	Tx(Tx) BoatsTxQueryer
}

type BoatsConnQueryer interface {
	BoatsQueryer
}

// BoatsTxQueryer contains the operations which must be combined with
// other statements atomically. Operations which target a missing boat
// or verification row return a cerr.NotFound error.
type BoatsTxQueryer interface {
	BoatsQueryer

	// Insert adds a boat (without photos and license) for the given
	// business and returns its id.
	Insert(
		ctx context.Context, businessID int64, attrs *model.BoatAttrs,
	) (int64, error)

	// SetFiles stores the public URLs of the uploaded photos and
	// license of a boat.
	SetFiles(
		ctx context.Context, boatID int64, photos []string, license string,
	) error

	UpdateAttrs(ctx context.Context, boatID int64, attrs *model.BoatAttrs) error
	SetLicense(ctx context.Context, boatID int64, license string) error

	// InsertVerification adds the inReview verification row of a boat.
	InsertVerification(ctx context.Context, boatID int64) error

	// SetVerification updates the status and approvement flag of an
	// existing verification row.
	SetVerification(
		ctx context.Context, boatID int64,
		status model.VerificationStatus, approved bool,
	) error

	DeleteVerification(ctx context.Context, boatID int64) error

	// Delete removes a boat row. If some rentals still reference that
	// boat, a cerr.Conflict error is returned.
	Delete(ctx context.Context, boatID int64) error
}

// BoatsQueryer contains the read-only operations.
type BoatsQueryer interface {
	// Boat returns a boat together with its verification status.
	Boat(ctx context.Context, boatID int64) (*model.Boat, error)

	// Search lists the approved boats which match the filter.
	Search(ctx context.Context, f model.BoatFilter) ([]*model.Boat, error)

	// ListByBusiness lists all boats of a business, in all states.
	ListByBusiness(ctx context.Context, businessID int64) ([]*model.Boat, error)

	// ListInReview lists the inReview verification rows joined with
	// their boat, business, and the business captains.
	ListInReview(ctx context.Context) ([]*model.PendingReview, error)

	// Verification returns the verification row of a boat. Within a
	// transaction, the row is also locked until its end.
	Verification(ctx context.Context, boatID int64) (*model.Verification, error)

	// Owner follows the Boat->Business->User chain. A missing link
	// causes a cerr.NotFound error.
	Owner(ctx context.Context, boatID int64) (*model.OwnerContact, error)
}
