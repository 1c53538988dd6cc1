// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listinguc

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Search lists the approved boats which match with the filter.
func (uc *UseCase) Search(
	ctx context.Context, f model.BoatFilter,
) (boats []*model.Boat, err error) {
	if f.TripType != model.TripTypeInvalid {
		if err = f.TripType.Validate(); err != nil {
			return nil, cerr.BadRequest(err)
		}
	}
	if f.MinCapacity < 0 {
		return nil, cerr.BadRequest(errors.New("capacity may not be negative"))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		boats, err = uc.boats.Conn(c).Search(ctx, f)
		return err
	})
	if err != nil {
		boats = nil
	}
	return
}

// Get returns a boat with its verification status.
func (uc *UseCase) Get(
	ctx context.Context, boatID int64,
) (boat *model.Boat, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		boat, err = uc.boats.Conn(c).Boat(ctx, boatID)
		return err
	})
	if err != nil {
		boat = nil
	}
	return
}

// BusinessOf returns the business of a business account.
func (uc *UseCase) BusinessOf(
	ctx context.Context, id model.Identity,
) (b *model.Business, err error) {
	if id.AccountType != model.AccountBusiness {
		return nil, cerr.Authorization(errors.New("business account is required"))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		b, err = uc.users.Conn(c).BusinessByUser(ctx, id.UserID)
		return err
	})
	if err != nil {
		b = nil
	}
	return
}

// ListByBusiness lists all boats of a business, in all verification
// states, for its owner dashboard.
func (uc *UseCase) ListByBusiness(
	ctx context.Context, businessID int64,
) (boats []*model.Boat, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		boats, err = uc.boats.Conn(c).ListByBusiness(ctx, businessID)
		return err
	})
	if err != nil {
		boats = nil
	}
	return
}

// authorize returns nil if the id identity may modify the boat, that
// is, if it is an admin or the owner of that boat business.
func (uc *UseCase) authorize(
	ctx context.Context, q repo.UsersQueryer, id model.Identity, boat *model.Boat,
) error {
	if id.IsAdmin() {
		return nil
	}
	if id.AccountType != model.AccountBusiness {
		return cerr.Authorization(errors.New("business account is required"))
	}
	b, err := q.BusinessByUser(ctx, id.UserID)
	if err != nil {
		return err
	}
	if b.ID != boat.BusinessID {
		return cerr.Authorization(errors.New("boat belongs to another business"))
	}
	return nil
}

// Update replaces the attributes of a boat. Only its owner may
// update a boat.
func (uc *UseCase) Update(
	ctx context.Context, id model.Identity, boatID int64,
	attrs *model.BoatAttrs,
) (boat *model.Boat, err error) {
	if attrs == nil {
		return nil, cerr.BadRequest(errors.New("boat attributes are required"))
	}
	if err = attrs.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.boats.Tx(tx)
			boat, err = q.Boat(ctx, boatID)
			if err != nil {
				return err
			}
			if err = uc.authorize(ctx, uc.users.Tx(tx), id, boat); err != nil {
				return err
			}
			if err = q.UpdateAttrs(ctx, boatID, attrs); err != nil {
				return fmt.Errorf("updating boat: %w", err)
			}
			boat, err = q.Boat(ctx, boatID)
			return err
		})
	})
	if err != nil {
		boat = nil
	}
	return
}

// ReplaceLicense uploads a new license document for a boat and puts
// its listing back in review. The old license object is deleted after
// the commit on a best effort basis.
func (uc *UseCase) ReplaceLicense(
	ctx context.Context, id model.Identity, boatID int64,
	license *model.File,
) (boat *model.Boat, err error) {
	if license == nil {
		return nil, cerr.BadRequest(errors.New("license document is required"))
	}
	var oldURL string
	var uploaded []string
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.boats.Tx(tx)
			boat, err = q.Boat(ctx, boatID)
			if err != nil {
				return err
			}
			if err = uc.authorize(ctx, uc.users.Tx(tx), id, boat); err != nil {
				return err
			}
			oldURL = boat.LicenseURL
			uploaded, err = uc.storage.Upload(
				ctx, Namespace(boat.BusinessID, boatID),
				[]*model.File{license},
			)
			if err != nil {
				return cerr.Storage(err)
			}
			if len(uploaded) != 1 {
				return cerr.Storage(fmt.Errorf(
					"expected one url, but got %d", len(uploaded),
				))
			}
			if err = q.SetLicense(ctx, boatID, uploaded[0]); err != nil {
				return fmt.Errorf("storing license url: %w", err)
			}
			err = q.SetVerification(
				ctx, boatID, model.VerificationInReview, false,
			)
			if err != nil {
				return fmt.Errorf("resetting verification: %w", err)
			}
			boat, err = q.Boat(ctx, boatID)
			return err
		})
	})
	if err != nil {
		uc.deleteObjects(ctx, boatID, uploaded)
		return nil, err
	}
	if oldURL != "" && oldURL != boat.LicenseURL {
		uc.deleteObjects(ctx, boatID, []string{oldURL})
	}
	return boat, nil
}

// Delete removes a boat listing on behalf of its owner (or an admin).
// Boats which are referenced by rentals may not be deleted.
// Stored files are deleted after the commit on a best effort basis.
func (uc *UseCase) Delete(
	ctx context.Context, id model.Identity, boatID int64,
) error {
	var boat *model.Boat
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.boats.Tx(tx)
			boat, err = q.Boat(ctx, boatID)
			if err != nil {
				return err
			}
			if err = uc.authorize(ctx, uc.users.Tx(tx), id, boat); err != nil {
				return err
			}
			if err = q.DeleteVerification(ctx, boatID); err != nil {
				return fmt.Errorf("deleting verification: %w", err)
			}
			return q.Delete(ctx, boatID)
		})
	})
	if err != nil {
		return err
	}
	uc.deleteObjects(ctx, boatID, boatFiles(boat))
	return nil
}
