// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package captainsrp implements the repo.Captains repository.
package captainsrp

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
)

type gCaptain struct {
	ID         int64 `gorm:"primaryKey;column:captain_id"`
	BusinessID int64
	FullName   string
	Phone      string
	LicenseURL string
}

func (gc *gCaptain) TableName() string {
	return "captains"
}

func (gc *gCaptain) Model() *model.Captain {
	return &model.Captain{
		ID:         gc.ID,
		BusinessID: gc.BusinessID,
		FullName:   gc.FullName,
		Phone:      gc.Phone,
		LicenseURL: gc.LicenseURL,
	}
}

var errCaptainNotFound = cerr.NotFound(errors.New("captain not found"))

func Insert[Q postgres.Queryer](ctx context.Context, q Q, c *model.Captain) (int64, error) {
	gc := &gCaptain{
		BusinessID: c.BusinessID,
		FullName:   c.FullName,
		Phone:      c.Phone,
		LicenseURL: c.LicenseURL,
	}
	if err := q.GORM(ctx).Create(gc).Error; err != nil {
		if postgres.ErrCode(err) == postgres.ForeignKeyViolation {
			return 0, cerr.NotFound(errors.New("business not found"))
		}
		return 0, fmt.Errorf("inserting captain: %w", err)
	}
	return gc.ID, nil
}

func Captain[Q postgres.Queryer](ctx context.Context, q Q, captainID int64) (*model.Captain, error) {
	var gcs []gCaptain
	err := q.GORM(ctx).Where("captain_id = ?", captainID).Find(&gcs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gcs) != 1 {
		return nil, errCaptainNotFound
	}
	return gcs[0].Model(), nil
}

func List[Q postgres.Queryer](ctx context.Context, q Q, businessID int64) ([]*model.Captain, error) {
	var gcs []gCaptain
	err := q.GORM(ctx).Where("business_id = ?", businessID).
		Order("captain_id").Find(&gcs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	cs := make([]*model.Captain, len(gcs))
	for i := range gcs {
		cs[i] = gcs[i].Model()
	}
	return cs, nil
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, captainID int64) error {
	n, err := q.Exec(ctx, "DELETE FROM captains WHERE captain_id = ?", captainID)
	if err != nil {
		return fmt.Errorf("deleting captain: %w", err)
	}
	if n != 1 {
		return errCaptainNotFound
	}
	return nil
}
