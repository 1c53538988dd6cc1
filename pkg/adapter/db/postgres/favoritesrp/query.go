// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package favoritesrp implements the repo.Favorites repository.
package favoritesrp

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/boatsrp"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
)

// Add inserts a favorite pair. Adding an existing pair is a no-op.
func Add(ctx context.Context, tx *postgres.Tx, userID, boatID int64) error {
	_, err := tx.Exec(ctx, `INSERT INTO favorites (user_id, boat_id)
	VALUES (?, ?) ON CONFLICT DO NOTHING`, userID, boatID)
	if err == nil {
		return nil
	}
	if postgres.ErrCode(err) == postgres.ForeignKeyViolation {
		if postgres.ConstraintName(err) == "favorites_user_id_fkey" {
			return cerr.NotFound(errors.New("user not found"))
		}
		return cerr.NotFound(errors.New("boat not found"))
	}
	return fmt.Errorf("inserting favorite: %w", err)
}

func Remove(ctx context.Context, tx *postgres.Tx, userID, boatID int64) (bool, error) {
	n, err := tx.Exec(
		ctx, "DELETE FROM favorites WHERE user_id = ? AND boat_id = ?",
		userID, boatID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting favorite: %w", err)
	}
	return n > 0, nil
}

// List returns the favorite boats of a user, regardless of their
// verification status.
func List[Q postgres.Queryer](ctx context.Context, q Q, userID int64) ([]*model.Boat, error) {
	return boatsrp.Select(ctx, q, `WHERE b.boat_id IN
	(SELECT boat_id FROM favorites WHERE user_id = ?) ORDER BY b.boat_id`,
		userID)
}
