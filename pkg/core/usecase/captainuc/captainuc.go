// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package captainuc contains the captains UseCase which lets the
// businesses manage their captains. The captains of a business are
// shown to the administrators while they review the boats of that
// business and are included in the booking confirmation emails.
package captainuc

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

// UseCase represents the captains use case.
type UseCase struct {
	pool     repo.Pool
	captains repo.Captains
	users    repo.Users
	storage  repo.Storage
}

// New instantiates a captains use case.
func New(
	p repo.Pool, c repo.Captains, u repo.Users, s repo.Storage,
) *UseCase {
	return &UseCase{pool: p, captains: c, users: u, storage: s}
}

// Namespace returns the object store namespace of the captain license
// documents of a business.
func Namespace(businessID int64) string {
	return fmt.Sprintf("captains/%d", businessID)
}

// AddRequest contains the captain fields.
type AddRequest struct {
	FullName string
	Phone    string
}

func (uc *UseCase) businessOf(
	ctx context.Context, q repo.UsersQueryer, id model.Identity,
) (*model.Business, error) {
	if id.AccountType != model.AccountBusiness {
		return nil, cerr.Authorization(
			errors.New("business account is required"),
		)
	}
	return q.BusinessByUser(ctx, id.UserID)
}

// Add uploads the license of a new captain and inserts it for the
// business of the id account.
func (uc *UseCase) Add(
	ctx context.Context,
	id model.Identity,
	req *AddRequest,
	license *model.File,
) (*model.Captain, error) {
	c := &model.Captain{
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.Phone),
	}
	switch {
	case c.FullName == "":
		return nil, cerr.BadRequest(errors.New("full_name is required"))
	case license == nil:
		return nil, cerr.BadRequest(errors.New("license is required"))
	}
	var uploaded []string
	err := uc.pool.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		b, err := uc.businessOf(ctx, uc.users.Conn(conn), id)
		if err != nil {
			return err
		}
		c.BusinessID = b.ID
		uploaded, err = uc.storage.Upload(
			ctx, Namespace(b.ID), []*model.File{license},
		)
		if err != nil {
			return cerr.Storage(err)
		}
		if len(uploaded) != 1 {
			return cerr.Storage(fmt.Errorf(
				"expected one url, got %d", len(uploaded),
			))
		}
		c.LicenseURL = uploaded[0]
		c.ID, err = uc.captains.Conn(conn).Insert(ctx, c)
		return err
	})
	if err != nil {
		for _, u := range uploaded {
			uc.deleteObject(ctx, u)
		}
		return nil, err
	}
	return c, nil
}

// List returns the captains of a business.
func (uc *UseCase) List(
	ctx context.Context, businessID int64,
) (cs []*model.Captain, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		cs, err = uc.captains.Conn(c).List(ctx, businessID)
		return err
	})
	if err != nil {
		cs = nil
	}
	return
}

// ListMine returns the captains of the business of the id account.
func (uc *UseCase) ListMine(
	ctx context.Context, id model.Identity,
) (cs []*model.Captain, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		b, err := uc.businessOf(ctx, uc.users.Conn(c), id)
		if err != nil {
			return err
		}
		cs, err = uc.captains.Conn(c).List(ctx, b.ID)
		return err
	})
	if err != nil {
		cs = nil
	}
	return
}

// Remove deletes a captain of the business of the id account (or any
// captain if id is an admin) and then its license object, best effort.
func (uc *UseCase) Remove(
	ctx context.Context, id model.Identity, captainID int64,
) error {
	var license string
	err := uc.pool.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		return conn.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.captains.Tx(tx)
			c, err := q.Captain(ctx, captainID)
			if err != nil {
				return err
			}
			if !id.IsAdmin() {
				b, err := uc.businessOf(ctx, uc.users.Tx(tx), id)
				if err != nil {
					return err
				}
				if b.ID != c.BusinessID {
					return cerr.Authorization(
						errors.New("captain belongs to another business"),
					)
				}
			}
			license = c.LicenseURL
			return q.Delete(ctx, captainID)
		})
	})
	if err != nil {
		return err
	}
	if license != "" {
		uc.deleteObject(ctx, license)
	}
	return nil
}

func (uc *UseCase) deleteObject(ctx context.Context, url string) {
	if err := uc.storage.Delete(ctx, url); err != nil {
		log.Warn(
			ctx, "deleting captain license failed",
			slog.String("url", url), log.Err("err", err),
		)
	}
}
