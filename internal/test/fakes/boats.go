// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Boats is a fake repo.Boats.
type Boats struct{}

func (Boats) Conn(c repo.Conn) repo.BoatsConnQueryer {
	return boatsQ{db: dbOf(c)}
}

func (Boats) Tx(tx repo.Tx) repo.BoatsTxQueryer {
	return boatsQ{db: dbOf(tx)}
}

type boatsQ struct {
	db *DB
}

var errBoatNotFound = cerr.NotFound(errors.New("boat not found"))

func (t *tables) boat(id int64) (*model.Boat, bool) {
	b, ok := t.boats[id]
	if !ok {
		return nil, false
	}
	cp := *b
	cp.Photos = append([]string(nil), b.Photos...)
	if v, ok := t.verifications[id]; ok {
		cp.Status = v.Status
	}
	return &cp, true
}

func (t *tables) sortedBoats(keep func(b *model.Boat) bool) []*model.Boat {
	var res []*model.Boat
	for id := range t.boats {
		b, _ := t.boat(id)
		if keep(b) {
			res = append(res, b)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (q boatsQ) Boat(ctx context.Context, boatID int64) (b *model.Boat, err error) {
	err = q.db.do("Boats.Boat", func(t *tables) error {
		var ok bool
		if b, ok = t.boat(boatID); !ok {
			return errBoatNotFound
		}
		return nil
	})
	return
}

func (q boatsQ) Search(ctx context.Context, f model.BoatFilter) (bs []*model.Boat, err error) {
	err = q.db.do("Boats.Search", func(t *tables) error {
		bs = t.sortedBoats(func(b *model.Boat) bool {
			switch {
			case b.Status != model.VerificationApproved:
				return false
			case f.Location != "" && !strings.Contains(
				strings.ToLower(b.Location), strings.ToLower(f.Location),
			):
				return false
			case f.Type != "" && !strings.EqualFold(b.Type, f.Type):
				return false
			case b.Capacity < f.MinCapacity:
				return false
			case f.TripType != model.TripTypeInvalid && !b.TripTypes.Contains(f.TripType):
				return false
			}
			return true
		})
		return nil
	})
	return
}

func (q boatsQ) ListByBusiness(ctx context.Context, businessID int64) (bs []*model.Boat, err error) {
	err = q.db.do("Boats.ListByBusiness", func(t *tables) error {
		bs = t.sortedBoats(func(b *model.Boat) bool {
			return b.BusinessID == businessID
		})
		return nil
	})
	return
}

func (q boatsQ) ListInReview(ctx context.Context) (prs []*model.PendingReview, err error) {
	err = q.db.do("Boats.ListInReview", func(t *tables) error {
		bs := t.sortedBoats(func(b *model.Boat) bool {
			return b.Status == model.VerificationInReview
		})
		for _, b := range bs {
			pr := &model.PendingReview{
				BoatID:     b.ID,
				BoatName:   b.Name,
				BusinessID: b.BusinessID,
				LicenseURL: b.LicenseURL,
				Photos:     b.Photos,
			}
			if bz, ok := t.businesses[b.BusinessID]; ok {
				pr.BusinessName = bz.Name
			}
			pr.Captains = t.captainsOf(b.BusinessID)
			prs = append(prs, pr)
		}
		return nil
	})
	return
}

func (q boatsQ) Verification(ctx context.Context, boatID int64) (v *model.Verification, err error) {
	err = q.db.do("Boats.Verification", func(t *tables) error {
		vv, ok := t.verifications[boatID]
		if !ok {
			return cerr.NotFound(errors.New("verification not found"))
		}
		cp := *vv
		v = &cp
		return nil
	})
	return
}

func (t *tables) owner(boatID int64) (*model.OwnerContact, error) {
	b, ok := t.boats[boatID]
	if !ok {
		return nil, errBoatNotFound
	}
	bz, ok := t.businesses[b.BusinessID]
	if !ok {
		return nil, cerr.NotFound(errors.New("business not found"))
	}
	u, ok := t.users[bz.UserID]
	if !ok {
		return nil, cerr.NotFound(errors.New("business user not found"))
	}
	return &model.OwnerContact{
		BoatID:       b.ID,
		BoatName:     b.Name,
		BusinessID:   bz.ID,
		BusinessName: bz.Name,
		UserID:       u.ID,
		Email:        u.Email,
		Phone:        bz.Phone,
	}, nil
}

func (q boatsQ) Owner(ctx context.Context, boatID int64) (o *model.OwnerContact, err error) {
	err = q.db.do("Boats.Owner", func(t *tables) error {
		o, err = t.owner(boatID)
		return err
	})
	return
}

func (q boatsQ) Insert(ctx context.Context, businessID int64, attrs *model.BoatAttrs) (id int64, err error) {
	err = q.db.do("Boats.Insert", func(t *tables) error {
		if _, ok := t.businesses[businessID]; !ok {
			return errors.New("foreign key violation: business_id")
		}
		id = t.id()
		t.boats[id] = &model.Boat{
			ID:         id,
			BusinessID: businessID,
			BoatAttrs:  *attrs,
			CreatedAt:  q.db.Now(),
		}
		return nil
	})
	return
}

func (q boatsQ) update(op string, boatID int64, f func(b *model.Boat)) error {
	return q.db.do(op, func(t *tables) error {
		b, ok := t.boats[boatID]
		if !ok {
			return errBoatNotFound
		}
		f(b)
		return nil
	})
}

func (q boatsQ) SetFiles(ctx context.Context, boatID int64, photos []string, license string) error {
	return q.update("Boats.SetFiles", boatID, func(b *model.Boat) {
		b.Photos = append([]string(nil), photos...)
		b.LicenseURL = license
	})
}

func (q boatsQ) UpdateAttrs(ctx context.Context, boatID int64, attrs *model.BoatAttrs) error {
	return q.update("Boats.UpdateAttrs", boatID, func(b *model.Boat) {
		b.BoatAttrs = *attrs
	})
}

func (q boatsQ) SetLicense(ctx context.Context, boatID int64, license string) error {
	return q.update("Boats.SetLicense", boatID, func(b *model.Boat) {
		b.LicenseURL = license
	})
}

func (q boatsQ) InsertVerification(ctx context.Context, boatID int64) error {
	return q.db.do("Boats.InsertVerification", func(t *tables) error {
		if _, ok := t.boats[boatID]; !ok {
			return errors.New("foreign key violation: boat_id")
		}
		if _, ok := t.verifications[boatID]; ok {
			return errors.New("unique violation: verification.boat_id")
		}
		t.verifications[boatID] = &model.Verification{
			BoatID:    boatID,
			Status:    model.VerificationInReview,
			UpdatedAt: q.db.Now(),
		}
		return nil
	})
}

func (q boatsQ) SetVerification(
	ctx context.Context, boatID int64,
	status model.VerificationStatus, approved bool,
) error {
	return q.db.do("Boats.SetVerification", func(t *tables) error {
		v, ok := t.verifications[boatID]
		if !ok {
			return cerr.NotFound(errors.New("verification not found"))
		}
		v.Status = status
		v.Approved = approved
		v.UpdatedAt = q.db.Now()
		return nil
	})
}

func (q boatsQ) DeleteVerification(ctx context.Context, boatID int64) error {
	return q.db.do("Boats.DeleteVerification", func(t *tables) error {
		if _, ok := t.verifications[boatID]; !ok {
			return cerr.NotFound(errors.New("verification not found"))
		}
		delete(t.verifications, boatID)
		return nil
	})
}

func (q boatsQ) Delete(ctx context.Context, boatID int64) error {
	return q.db.do("Boats.Delete", func(t *tables) error {
		if _, ok := t.boats[boatID]; !ok {
			return errBoatNotFound
		}
		for _, r := range t.rentals {
			if r.BoatID == boatID {
				return cerr.Conflict(errors.New("boat has rentals"))
			}
		}
		delete(t.boats, boatID)
		delete(t.verifications, boatID)
		for k := range t.favorites {
			if k[1] == boatID {
				delete(t.favorites, k)
			}
		}
		return nil
	})
}
