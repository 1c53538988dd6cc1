// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rentalsrp implements the repo.Rentals repository, keeping
// the rentals of boats and the reviews of completed rentals.
package rentalsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/boatsrp"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/captainsrp"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
)

// gRental is a row of the rentals table. The time of day columns are
// read as HH:MM texts, while writing them as texts too.
type gRental struct {
	ID          int64 `gorm:"primaryKey;column:rental_id"`
	BoatID      int64
	CustomerID  int64
	StartDate   time.Time
	EndDate     time.Time
	StartTime   *string
	EndTime     *string
	RentalPrice float64
	Status      string
	CreatedAt   time.Time
}

func (gr *gRental) TableName() string {
	return "rentals"
}

func (gr *gRental) Model() *model.Rental {
	return &model.Rental{
		ID:         gr.ID,
		BoatID:     gr.BoatID,
		CustomerID: gr.CustomerID,
		StartDate:  model.DateOf(gr.StartDate),
		EndDate:    model.DateOf(gr.EndDate),
		StartTime:  gr.StartTime,
		EndTime:    gr.EndTime,
		Price:      gr.RentalPrice,
		Status:     model.RentalStatus(gr.Status),
		CreatedAt:  gr.CreatedAt,
	}
}

type gReview struct {
	ID                int64 `gorm:"primaryKey;column:review_id"`
	RentalID          int64
	BoatID            int64
	UserID            int64
	GeneralRating     int
	DriverRating      int
	CleanlinessRating int
	ReviewText        string
	CreatedAt         time.Time
}

func (gv *gReview) TableName() string {
	return "boat_reviews"
}

func (gv *gReview) Model() *model.Review {
	return &model.Review{
		ID:       gv.ID,
		RentalID: gv.RentalID,
		BoatID:   gv.BoatID,
		UserID:   gv.UserID,
		Ratings: model.Ratings{
			General:     gv.GeneralRating,
			Driver:      gv.DriverRating,
			Cleanliness: gv.CleanlinessRating,
		},
		Text:      gv.ReviewText,
		CreatedAt: gv.CreatedAt,
	}
}

var (
	errBoatNotFound   = cerr.NotFound(errors.New("boat not found"))
	errRentalNotFound = cerr.NotFound(errors.New("rental not found"))
	errReviewNotFound = cerr.NotFound(errors.New("review not found"))
)

func boatIDs[Q postgres.Queryer](
	ctx context.Context, q Q, suffix string, boatID int64,
) ([]int64, error) {
	var ids []int64
	err := q.GORM(ctx).Raw(
		`SELECT b.boat_id FROM boats b
JOIN verification v ON v.boat_id = b.boat_id
WHERE b.boat_id = ? AND v.verification_status = ?`+suffix,
		boatID, string(model.VerificationApproved),
	).Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return ids, nil
}

// BoatBookable reports if boatID is an approved boat. Boats which are
// still in review are not listed in the catalog and may not be booked.
func BoatBookable[Q postgres.Queryer](ctx context.Context, q Q, boatID int64) (bool, error) {
	ids, err := boatIDs(ctx, q, "", boatID)
	if err != nil {
		return false, err
	}
	return len(ids) == 1, nil
}

// LockBoat locks the approved boat row until the end of tx, so
// concurrent bookings of one boat are serialized.
func LockBoat(ctx context.Context, tx *postgres.Tx, boatID int64) error {
	ids, err := boatIDs(ctx, tx, " FOR UPDATE OF b", boatID)
	if err != nil {
		return err
	}
	if len(ids) != 1 {
		return errBoatNotFound
	}
	return nil
}

type gRange struct {
	StartDate time.Time
	EndDate   time.Time
}

func UnavailableDates[Q postgres.Queryer](
	ctx context.Context, q Q, boatID int64,
) ([]model.DateRange, error) {
	var grs []gRange
	err := q.GORM(ctx).Raw(`SELECT start_date, end_date FROM rentals
	WHERE boat_id = ? AND status IN (?, ?) ORDER BY rental_id`,
		boatID, string(model.RentalOngoing), string(model.RentalCompleted),
	).Scan(&grs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	drs := make([]model.DateRange, len(grs))
	for i, gr := range grs {
		drs[i] = model.DateRange{
			Start: model.DateOf(gr.StartDate),
			End:   model.DateOf(gr.EndDate),
		}
	}
	return drs, nil
}

func Insert[Q postgres.Queryer](ctx context.Context, q Q, r *model.Rental) (int64, error) {
	gr := &gRental{
		BoatID:      r.BoatID,
		CustomerID:  r.CustomerID,
		StartDate:   r.StartDate.Time(),
		EndDate:     r.EndDate.Time(),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		RentalPrice: r.Price,
		Status:      string(r.Status),
	}
	if err := q.GORM(ctx).Create(gr).Error; err != nil {
		switch postgres.ErrCode(err) {
		case postgres.ForeignKeyViolation:
			if postgres.ConstraintName(err) == "rentals_customer_id_fkey" {
				return 0, cerr.NotFound(errors.New("customer not found"))
			}
			return 0, errBoatNotFound
		case postgres.CheckViolation:
			return 0, cerr.BadRequest(errors.New("invalid rental dates"))
		}
		return 0, fmt.Errorf("inserting rental: %w", err)
	}
	return gr.ID, nil
}

const selectRentals = `SELECT r.rental_id, r.boat_id, r.customer_id,
	r.start_date, r.end_date,
	to_char(r.start_time, 'HH24:MI') AS start_time,
	to_char(r.end_time, 'HH24:MI') AS end_time,
	r.rental_price, r.status, r.created_at`

func Rental[Q postgres.Queryer](ctx context.Context, q Q, rentalID int64) (*model.Rental, error) {
	var grs []gRental
	err := q.GORM(ctx).Raw(
		selectRentals+" FROM rentals r WHERE r.rental_id = ?", rentalID,
	).Scan(&grs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(grs) != 1 {
		return nil, errRentalNotFound
	}
	return grs[0].Model(), nil
}

// Delete removes a rental. Its review is removed by the cascading
// foreign key.
func Delete[Q postgres.Queryer](ctx context.Context, q Q, rentalID int64) error {
	n, err := q.Exec(ctx, "DELETE FROM rentals WHERE rental_id = ?", rentalID)
	if err != nil {
		return fmt.Errorf("deleting rental: %w", err)
	}
	if n != 1 {
		return errRentalNotFound
	}
	return nil
}

// Sweep completes the ongoing rentals which ended strictly before
// today. It is idempotent for a fixed today.
func Sweep[Q postgres.Queryer](ctx context.Context, q Q, today model.Date) (int64, error) {
	n, err := q.Exec(ctx, `UPDATE rentals SET status = ?
	WHERE status = ? AND end_date < ?`,
		string(model.RentalCompleted), string(model.RentalOngoing),
		today.Time(),
	)
	if err != nil {
		return 0, fmt.Errorf("updating rentals: %w", err)
	}
	return n, nil
}

type gRentalView struct {
	Rental    gRental `gorm:"embedded"`
	BoatName  string
	Location  string
	HasReview bool
}

func ListByCustomer[Q postgres.Queryer](
	ctx context.Context, q Q, customerID int64,
) ([]*model.RentalView, error) {
	var gvs []gRentalView
	err := q.GORM(ctx).Raw(selectRentals+`,
	COALESCE(b.name, '') AS boat_name, COALESCE(b.location, '') AS location,
	EXISTS (SELECT 1 FROM boat_reviews rv
		WHERE rv.rental_id = r.rental_id) AS has_review
	FROM rentals r LEFT JOIN boats b ON b.boat_id = r.boat_id
	WHERE r.customer_id = ? ORDER BY r.rental_id`, customerID).
		Scan(&gvs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	rvs := make([]*model.RentalView, len(gvs))
	for i := range gvs {
		rvs[i] = &model.RentalView{
			Rental:    *gvs[i].Rental.Model(),
			BoatName:  gvs[i].BoatName,
			Location:  gvs[i].Location,
			HasReview: gvs[i].HasReview,
		}
	}
	return rvs, nil
}

type gContact struct {
	BoatID        int64
	CustomerEmail *string
	CustomerName  string
	Location      string
}

// BookingContacts loads the customer of a rental, and then follows
// the boat to its owner and captains.
func BookingContacts[Q postgres.Queryer](
	ctx context.Context, q Q, rentalID int64,
) (*model.BookingContacts, error) {
	var gcs []gContact
	err := q.GORM(ctx).Raw(`SELECT r.boat_id,
	u.email AS customer_email, COALESCE(u.full_name, '') AS customer_name,
	COALESCE(b.location, '') AS location
	FROM rentals r
	LEFT JOIN users u ON u.user_id = r.customer_id
	LEFT JOIN boats b ON b.boat_id = r.boat_id
	WHERE r.rental_id = ?`, rentalID).Scan(&gcs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gcs) != 1 {
		return nil, errRentalNotFound
	}
	gc := gcs[0]
	if gc.CustomerEmail == nil {
		return nil, cerr.NotFound(errors.New("customer not found"))
	}
	owner, err := boatsrp.Owner(ctx, q, gc.BoatID)
	if err != nil {
		return nil, err
	}
	captains, err := captainsrp.List(ctx, q, owner.BusinessID)
	if err != nil {
		return nil, err
	}
	return &model.BookingContacts{
		CustomerEmail: *gc.CustomerEmail,
		CustomerName:  gc.CustomerName,
		Owner:         *owner,
		Location:      gc.Location,
		Captains:      captains,
	}, nil
}

func HasReview[Q postgres.Queryer](ctx context.Context, q Q, rentalID int64) (bool, error) {
	var ids []int64
	err := q.GORM(ctx).Raw(
		"SELECT review_id FROM boat_reviews WHERE rental_id = ?", rentalID,
	).Scan(&ids).Error
	if err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return len(ids) > 0, nil
}

func InsertReview(ctx context.Context, tx *postgres.Tx, rv *model.Review) (int64, error) {
	gv := &gReview{
		RentalID:          rv.RentalID,
		BoatID:            rv.BoatID,
		UserID:            rv.UserID,
		GeneralRating:     rv.Ratings.General,
		DriverRating:      rv.Ratings.Driver,
		CleanlinessRating: rv.Ratings.Cleanliness,
		ReviewText:        rv.Text,
	}
	if err := tx.GORM(ctx).Create(gv).Error; err != nil {
		switch postgres.ErrCode(err) {
		case postgres.UniqueViolation:
			return 0, cerr.Conflict(errors.New("rental is already reviewed"))
		case postgres.ForeignKeyViolation:
			return 0, errRentalNotFound
		case postgres.CheckViolation:
			return 0, cerr.BadRequest(errors.New("ratings must be in [1, 5]"))
		}
		return 0, fmt.Errorf("inserting review: %w", err)
	}
	return gv.ID, nil
}

func Review[Q postgres.Queryer](ctx context.Context, q Q, reviewID int64) (*model.Review, error) {
	var gvs []gReview
	err := q.GORM(ctx).Where("review_id = ?", reviewID).Find(&gvs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gvs) != 1 {
		return nil, errReviewNotFound
	}
	return gvs[0].Model(), nil
}

func DeleteReview[Q postgres.Queryer](ctx context.Context, q Q, reviewID int64) error {
	n, err := q.Exec(ctx, "DELETE FROM boat_reviews WHERE review_id = ?", reviewID)
	if err != nil {
		return fmt.Errorf("deleting review: %w", err)
	}
	if n != 1 {
		return errReviewNotFound
	}
	return nil
}

func Reviews[Q postgres.Queryer](ctx context.Context, q Q, boatID int64) ([]*model.Review, error) {
	var gvs []gReview
	err := q.GORM(ctx).Where("boat_id = ?", boatID).
		Order("review_id").Find(&gvs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	rvs := make([]*model.Review, len(gvs))
	for i := range gvs {
		rvs[i] = gvs[i].Model()
	}
	return rvs, nil
}
