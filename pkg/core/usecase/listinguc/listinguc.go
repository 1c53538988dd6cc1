// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package listinguc contains the listings UseCase which admits boats
// into the catalog only after an administrator sign-off.
//
// A registered boat starts with an inReview verification record. An
// admin may approve it (making it searchable) or reject it, which
// deletes the boat and its verification record. Each decision emails
// the owning business exactly once, on a best effort basis.
package listinguc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/log"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// UseCase represents the listings use case. It holds a database
// connection pool, the boats and users repositories (to be guided with
// the DB pool), the object storage and notifier collaborators, and the
// listings specific settings.
type UseCase struct {
	pool     repo.Pool
	boats    repo.Boats
	users    repo.Users
	storage  repo.Storage
	notifier repo.Notifier

	maxPhotos int
}

// New instantiates a listings use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options.
func New(
	p repo.Pool,
	boats repo.Boats,
	users repo.Users,
	s repo.Storage,
	n repo.Notifier,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:     p,
		boats:    boats,
		users:    users,
		storage:  s,
		notifier: n,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.maxPhotos == 0 {
		uc.maxPhotos = 10
	}
	return uc, nil
}

// Namespace returns the object storage namespace of the files of
// a boat.
func Namespace(businessID, boatID int64) string {
	return fmt.Sprintf("boats/%d/%d", businessID, boatID)
}

// Register creates a boat for the businessID business with the given
// attributes, photos, and license document. All rows are inserted in
// one transaction along with an inReview verification record.
// Files are uploaded after the boat id is assigned, so they can be
// namespaced by it. If anything fails, the transaction is rolled back
// and uploaded objects are deleted again.
func (uc *UseCase) Register(
	ctx context.Context,
	businessID int64,
	attrs *model.BoatAttrs,
	photos []*model.File,
	license *model.File,
) (boat *model.Boat, err error) {
	if err = uc.validateRegistration(businessID, attrs, photos, license); err != nil {
		return nil, cerr.BadRequest(err)
	}
	files := make([]*model.File, 0, len(photos)+1)
	files = append(files, photos...)
	files = append(files, license)
	var uploaded []string
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if _, err := uc.users.Conn(c).BusinessByID(ctx, businessID); err != nil {
			return err
		}
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.boats.Tx(tx)
			boatID, err := q.Insert(ctx, businessID, attrs)
			if err != nil {
				return fmt.Errorf("inserting boat: %w", err)
			}
			urls, err := uc.storage.Upload(
				ctx, Namespace(businessID, boatID), files,
			)
			uploaded = urls
			if err != nil {
				return cerr.Storage(err)
			}
			if len(urls) != len(files) {
				return cerr.Storage(fmt.Errorf(
					"uploaded %d files, but got %d urls",
					len(files), len(urls),
				))
			}
			n := len(photos)
			if err = q.SetFiles(ctx, boatID, urls[:n], urls[n]); err != nil {
				return fmt.Errorf("storing file urls: %w", err)
			}
			if err = q.InsertVerification(ctx, boatID); err != nil {
				return fmt.Errorf("inserting verification: %w", err)
			}
			boat, err = q.Boat(ctx, boatID)
			return err
		})
	})
	if err != nil {
		uc.deleteObjects(ctx, 0, uploaded)
		return nil, err
	}
	return boat, nil
}

func (uc *UseCase) validateRegistration(
	businessID int64,
	attrs *model.BoatAttrs,
	photos []*model.File,
	license *model.File,
) error {
	switch {
	case businessID <= 0:
		return errors.New("business_id is required")
	case attrs == nil:
		return errors.New("boat attributes are required")
	case len(photos) == 0:
		return errors.New("at least one photo is required")
	case len(photos) > uc.maxPhotos:
		return fmt.Errorf("at most %d photos may be uploaded", uc.maxPhotos)
	case license == nil:
		return errors.New("license document is required")
	}
	for i, p := range photos {
		if p == nil {
			return fmt.Errorf("photo #%d is missing", i)
		}
	}
	return attrs.Validate()
}

// ListInReview returns all boats which are waiting for an admin
// decision, with their business and captains information.
func (uc *UseCase) ListInReview(
	ctx context.Context,
) (prs []*model.PendingReview, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		prs, err = uc.boats.Conn(c).ListInReview(ctx)
		return err
	})
	if err != nil {
		prs = nil
	}
	return
}

// Approve marks the verification record of boatID as approved and
// emails the owning business. The notified return value reports if
// that email could be sent. A failed email does not roll back the
// approval. Approving an already approved boat changes nothing and
// sends no email.
func (uc *UseCase) Approve(
	ctx context.Context, boatID int64,
) (notified bool, err error) {
	var owner *model.OwnerContact
	approved := false
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.boats.Tx(tx)
			v, err := q.Verification(ctx, boatID)
			if err != nil {
				return err
			}
			if v.Status == model.VerificationApproved {
				approved = true
				return nil
			}
			owner, err = q.Owner(ctx, boatID)
			if err != nil {
				return err
			}
			return q.SetVerification(
				ctx, boatID, model.VerificationApproved, true,
			)
		})
	})
	if err != nil {
		return false, err
	}
	if approved {
		log.Info(ctx, "boat is already approved", log.ID("boat_id", boatID))
		return false, nil
	}
	subject, body := approvalMail(owner)
	return uc.notify(ctx, boatID, owner.Email, subject, body), nil
}

// Reject deletes the verification record and then the boat itself in
// one transaction. Only boats which are in review may be rejected;
// approved listings are terminal and cause a cerr.Conflict error.
// Thereafter, the boat files are deleted from the
// storage and the owning business is emailed with the given reason.
// Both of these steps are best effort and only logged if they fail.
func (uc *UseCase) Reject(
	ctx context.Context, boatID int64, reason string,
) (notified bool, err error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return false, cerr.BadRequest(errors.New("reason is required"))
	}
	var owner *model.OwnerContact
	var boat *model.Boat
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.boats.Tx(tx)
			v, err := q.Verification(ctx, boatID)
			if err != nil {
				return err
			}
			if v.Status != model.VerificationInReview {
				return cerr.Conflict(fmt.Errorf(
					"boat is %s and may not be rejected", v.Status,
				))
			}
			owner, err = q.Owner(ctx, boatID)
			if err != nil {
				return err
			}
			boat, err = q.Boat(ctx, boatID)
			if err != nil {
				return err
			}
			if err = q.DeleteVerification(ctx, boatID); err != nil {
				return fmt.Errorf("deleting verification: %w", err)
			}
			if err = q.Delete(ctx, boatID); err != nil {
				return fmt.Errorf("deleting boat: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return false, err
	}
	uc.deleteObjects(ctx, boatID, boatFiles(boat))
	subject, body := rejectionMail(owner, reason)
	return uc.notify(ctx, boatID, owner.Email, subject, body), nil
}

func boatFiles(b *model.Boat) []string {
	urls := make([]string, 0, len(b.Photos)+1)
	urls = append(urls, b.Photos...)
	if b.LicenseURL != "" {
		urls = append(urls, b.LicenseURL)
	}
	return urls
}

func (uc *UseCase) notify(
	ctx context.Context, boatID int64, to, subject, body string,
) bool {
	if err := uc.notifier.Send(ctx, to, subject, body); err != nil {
		log.Warn(
			ctx, "sending listing email failed",
			log.ID("boat_id", boatID),
			log.Err("err", cerr.Notifier(err)),
		)
		return false
	}
	return true
}

func (uc *UseCase) deleteObjects(
	ctx context.Context, boatID int64, urls []string,
) {
	for _, u := range urls {
		if err := uc.storage.Delete(ctx, u); err != nil {
			log.Warn(
				ctx, "deleting stored object failed",
				log.ID("boat_id", boatID),
				slog.String("url", u),
				log.Err("err", cerr.Storage(err)),
			)
		}
	}
}
