// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentaluc

import (
	"context"
	"errors"
	"strings"

	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// ReviewRequest contains the review fields which are submitted by
// a customer for one of its completed rentals.
type ReviewRequest struct {
	RentalID int64
	Ratings  model.Ratings
	Text     string
}

// SubmitReview attaches a review to a completed rental of the id
// customer and returns the review id. The boat of the review is taken
// from the rental. Each rental may have at most one review.
func (uc *UseCase) SubmitReview(
	ctx context.Context, id model.Identity, req *ReviewRequest,
) (reviewID int64, err error) {
	if req.RentalID <= 0 {
		return 0, cerr.BadRequest(errors.New("rental_id is required"))
	}
	if err = req.Ratings.Validate(); err != nil {
		return 0, cerr.BadRequest(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.rentals.Tx(tx)
			r, err := q.Rental(ctx, req.RentalID)
			if err != nil {
				return err
			}
			switch {
			case r.CustomerID != id.UserID:
				return cerr.Authorization(
					errors.New("rental belongs to another customer"),
				)
			case r.Status != model.RentalCompleted:
				return cerr.Conflict(
					errors.New("only completed rentals may be reviewed"),
				)
			}
			exists, err := q.HasReview(ctx, r.ID)
			if err != nil {
				return err
			}
			if exists {
				return cerr.Conflict(
					errors.New("rental is already reviewed"),
				)
			}
			reviewID, err = q.InsertReview(ctx, &model.Review{
				RentalID: r.ID,
				BoatID:   r.BoatID,
				UserID:   id.UserID,
				Ratings:  req.Ratings,
				Text:     strings.TrimSpace(req.Text),
			})
			return err
		})
	})
	if err != nil {
		return 0, err
	}
	return reviewID, nil
}

// DeleteReview removes a review. Only its author may delete it.
func (uc *UseCase) DeleteReview(
	ctx context.Context, id model.Identity, reviewID int64,
) error {
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.rentals.Tx(tx)
			rv, err := q.Review(ctx, reviewID)
			if err != nil {
				return err
			}
			if rv.UserID != id.UserID && !id.IsAdmin() {
				return cerr.Authorization(
					errors.New("review belongs to another customer"),
				)
			}
			return q.DeleteReview(ctx, reviewID)
		})
	})
}

// ListBoatReviews lists the reviews of a boat.
func (uc *UseCase) ListBoatReviews(
	ctx context.Context, boatID int64,
) (rvs []*model.Review, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rvs, err = uc.rentals.Conn(c).Reviews(ctx, boatID)
		return err
	})
	if err != nil {
		rvs = nil
	}
	return
}
