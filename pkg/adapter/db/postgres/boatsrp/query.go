// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package boatsrp implements the repo.Boats repository, keeping the
// boat listings and their verification records.
package boatsrp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
)

// gBoat is a row of the boats table. The verification status is only
// filled by queries which join with the verification table.
type gBoat struct {
	ID                 int64 `gorm:"primaryKey;column:boat_id"`
	BusinessID         int64
	Name               string
	Description        string
	TripTypes          string
	PricePerHour       float64
	PricePerDay        float64
	Capacity           int
	BoatType           string
	Location           string
	Photos             string
	LicenseURL         string
	CreatedAt          time.Time
	VerificationStatus *string `gorm:"->"`
}

func (gb *gBoat) TableName() string {
	return "boats"
}

func (gb *gBoat) Model() (*model.Boat, error) {
	tts, err := model.ParseTripTypes(gb.TripTypes)
	if err != nil {
		return nil, fmt.Errorf("boat %d trip types: %w", gb.ID, err)
	}
	photos, err := decodePhotos(gb.Photos)
	if err != nil {
		return nil, fmt.Errorf("boat %d photos: %w", gb.ID, err)
	}
	b := &model.Boat{
		ID:         gb.ID,
		BusinessID: gb.BusinessID,
		BoatAttrs: model.BoatAttrs{
			Name:         gb.Name,
			Description:  gb.Description,
			TripTypes:    tts,
			PricePerHour: gb.PricePerHour,
			PricePerDay:  gb.PricePerDay,
			Capacity:     gb.Capacity,
			Type:         gb.BoatType,
			Location:     gb.Location,
		},
		Photos:     photos,
		LicenseURL: gb.LicenseURL,
		CreatedAt:  gb.CreatedAt,
	}
	if gb.VerificationStatus != nil {
		b.Status = model.VerificationStatus(*gb.VerificationStatus)
	}
	return b, nil
}

func encodePhotos(photos []string) (string, error) {
	if photos == nil {
		photos = []string{}
	}
	b, err := json.Marshal(photos)
	if err != nil {
		return "", fmt.Errorf("marshaling photos: %w", err)
	}
	return string(b), nil
}

func decodePhotos(s string) ([]string, error) {
	photos := []string{}
	if s == "" {
		return photos, nil
	}
	if err := json.Unmarshal([]byte(s), &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func models(gbs []gBoat) ([]*model.Boat, error) {
	bs := make([]*model.Boat, 0, len(gbs))
	for i := range gbs {
		b, err := gbs[i].Model()
		if err != nil {
			return nil, err
		}
		bs = append(bs, b)
	}
	return bs, nil
}

var (
	errBoatNotFound         = cerr.NotFound(errors.New("boat not found"))
	errVerificationNotFound = cerr.NotFound(errors.New("verification not found"))
)

const selectBoats = `SELECT b.boat_id, b.business_id, b.name, b.description,
	b.trip_types, b.price_per_hour, b.price_per_day, b.capacity,
	b.boat_type, b.location, b.photos, b.license_url, b.created_at,
	v.verification_status
	FROM boats b LEFT JOIN verification v ON v.boat_id = b.boat_id `

// Select lists the boats (joined with their verification status)
// which match the cond clause, e.g., a WHERE and ORDER BY suffix.
func Select[Q postgres.Queryer](
	ctx context.Context, q Q, cond string, args ...any,
) ([]*model.Boat, error) {
	var gbs []gBoat
	err := q.GORM(ctx).Raw(selectBoats+cond, args...).Scan(&gbs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return models(gbs)
}

func Boat[Q postgres.Queryer](ctx context.Context, q Q, boatID int64) (*model.Boat, error) {
	var gbs []gBoat
	err := q.GORM(ctx).Raw(selectBoats+"WHERE b.boat_id = ?", boatID).
		Scan(&gbs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gbs) != 1 {
		return nil, errBoatNotFound
	}
	return gbs[0].Model()
}

// Search lists approved boats. Location is matched as a case
// insensitive substring, and the boat type case insensitively.
// The trip type is matched against the comma separated codes.
func Search[Q postgres.Queryer](
	ctx context.Context, q Q, f model.BoatFilter,
) ([]*model.Boat, error) {
	conds := []string{"v.verification_status = ?"}
	args := []any{string(model.VerificationApproved)}
	if f.Location != "" {
		conds = append(conds, "b.location ILIKE ?")
		args = append(args, "%"+escapeLike(f.Location)+"%")
	}
	if f.Type != "" {
		conds = append(conds, "lower(b.boat_type) = lower(?)")
		args = append(args, f.Type)
	}
	if f.MinCapacity > 0 {
		conds = append(conds, "b.capacity >= ?")
		args = append(args, f.MinCapacity)
	}
	if f.TripType != model.TripTypeInvalid {
		conds = append(conds, "? = ANY(string_to_array(b.trip_types, ','))")
		args = append(args, f.TripType.String())
	}
	cond := "WHERE " + strings.Join(conds, " AND ") + " ORDER BY b.boat_id"
	return Select(ctx, q, cond, args...)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func ListByBusiness[Q postgres.Queryer](
	ctx context.Context, q Q, businessID int64,
) ([]*model.Boat, error) {
	return Select(ctx, q, "WHERE b.business_id = ? ORDER BY b.boat_id", businessID)
}

type gPending struct {
	BoatID       int64
	BoatName     string
	BusinessID   int64
	BusinessName string
	LicenseURL   string
	Photos       string
}

type gCaptain struct {
	CaptainID  int64
	BusinessID int64
	FullName   string
	Phone      string
	LicenseURL string
}

// ListInReview loads the in-review boats and then the captains of
// their businesses with a second query.
func ListInReview[Q postgres.Queryer](
	ctx context.Context, q Q,
) ([]*model.PendingReview, error) {
	var gps []gPending
	err := q.GORM(ctx).Raw(`SELECT b.boat_id, b.name AS boat_name,
	b.business_id, bz.name AS business_name, b.license_url, b.photos
	FROM verification v
	JOIN boats b ON b.boat_id = v.boat_id
	JOIN businesses bz ON bz.business_id = b.business_id
	WHERE v.verification_status = ?
	ORDER BY b.boat_id`, string(model.VerificationInReview)).Scan(&gps).Error
	if err != nil {
		return nil, fmt.Errorf("query boats: %w", err)
	}
	prs := make([]*model.PendingReview, 0, len(gps))
	if len(gps) == 0 {
		return prs, nil
	}
	bizIDs := make([]int64, 0, len(gps))
	seen := make(map[int64]bool)
	for _, gp := range gps {
		if !seen[gp.BusinessID] {
			seen[gp.BusinessID] = true
			bizIDs = append(bizIDs, gp.BusinessID)
		}
	}
	var gcs []gCaptain
	err = q.GORM(ctx).Raw(`SELECT captain_id, business_id, full_name, phone,
	license_url FROM captains WHERE business_id IN ? ORDER BY captain_id`,
		bizIDs).Scan(&gcs).Error
	if err != nil {
		return nil, fmt.Errorf("query captains: %w", err)
	}
	captains := make(map[int64][]*model.Captain)
	for _, gc := range gcs {
		captains[gc.BusinessID] = append(captains[gc.BusinessID], &model.Captain{
			ID:         gc.CaptainID,
			BusinessID: gc.BusinessID,
			FullName:   gc.FullName,
			Phone:      gc.Phone,
			LicenseURL: gc.LicenseURL,
		})
	}
	for _, gp := range gps {
		photos, err := decodePhotos(gp.Photos)
		if err != nil {
			return nil, fmt.Errorf("boat %d photos: %w", gp.BoatID, err)
		}
		cs := captains[gp.BusinessID]
		if cs == nil {
			cs = []*model.Captain{}
		}
		prs = append(prs, &model.PendingReview{
			BoatID:       gp.BoatID,
			BoatName:     gp.BoatName,
			BusinessID:   gp.BusinessID,
			BusinessName: gp.BusinessName,
			LicenseURL:   gp.LicenseURL,
			Photos:       photos,
			Captains:     cs,
		})
	}
	return prs, nil
}

type gVerification struct {
	BoatID             int64
	VerificationStatus string
	BoatApprovement    bool
	UpdatedAt          time.Time
}

func Verification[Q postgres.Queryer](
	ctx context.Context, q Q, boatID int64,
) (*model.Verification, error) {
	return verification(ctx, q, "", boatID)
}

// LockVerification is like Verification, but also locks the row until
// the end of tx, so concurrent admin decisions are serialized.
func LockVerification(
	ctx context.Context, tx *postgres.Tx, boatID int64,
) (*model.Verification, error) {
	return verification(ctx, tx, " FOR UPDATE", boatID)
}

func verification[Q postgres.Queryer](
	ctx context.Context, q Q, suffix string, boatID int64,
) (*model.Verification, error) {
	var gvs []gVerification
	err := q.GORM(ctx).Raw(`SELECT boat_id, verification_status,
	boat_approvement, updated_at FROM verification WHERE boat_id = ?`+
		suffix, boatID).Scan(&gvs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gvs) != 1 {
		return nil, errVerificationNotFound
	}
	gv := gvs[0]
	return &model.Verification{
		BoatID:    gv.BoatID,
		Status:    model.VerificationStatus(gv.VerificationStatus),
		Approved:  gv.BoatApprovement,
		UpdatedAt: gv.UpdatedAt,
	}, nil
}

type gOwner struct {
	BoatID       int64
	BoatName     string
	BusinessID   *int64
	BusinessName string
	UserID       *int64
	Email        string
	Phone        string
}

// Owner follows the boat, business, and user links with left joins,
// so a broken link is reported distinctly from a missing boat.
func Owner[Q postgres.Queryer](
	ctx context.Context, q Q, boatID int64,
) (*model.OwnerContact, error) {
	var gos []gOwner
	err := q.GORM(ctx).Raw(`SELECT b.boat_id, b.name AS boat_name,
	bz.business_id, COALESCE(bz.name, '') AS business_name,
	u.user_id, COALESCE(u.email, '') AS email,
	COALESCE(bz.phone, '') AS phone
	FROM boats b
	LEFT JOIN businesses bz ON bz.business_id = b.business_id
	LEFT JOIN users u ON u.user_id = bz.user_id
	WHERE b.boat_id = ?`, boatID).Scan(&gos).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gos) != 1 {
		return nil, errBoatNotFound
	}
	o := gos[0]
	switch {
	case o.BusinessID == nil:
		return nil, cerr.NotFound(errors.New("business not found"))
	case o.UserID == nil:
		return nil, cerr.NotFound(errors.New("business user not found"))
	}
	return &model.OwnerContact{
		BoatID:       o.BoatID,
		BoatName:     o.BoatName,
		BusinessID:   *o.BusinessID,
		BusinessName: o.BusinessName,
		UserID:       *o.UserID,
		Email:        o.Email,
		Phone:        o.Phone,
	}, nil
}

func Insert(
	ctx context.Context, tx *postgres.Tx, businessID int64,
	attrs *model.BoatAttrs,
) (int64, error) {
	gb := &gBoat{
		BusinessID:   businessID,
		Name:         attrs.Name,
		Description:  attrs.Description,
		TripTypes:    attrs.TripTypes.Join(),
		PricePerHour: attrs.PricePerHour,
		PricePerDay:  attrs.PricePerDay,
		Capacity:     attrs.Capacity,
		BoatType:     attrs.Type,
		Location:     attrs.Location,
		Photos:       "[]",
	}
	if err := tx.GORM(ctx).Create(gb).Error; err != nil {
		if postgres.ErrCode(err) == postgres.ForeignKeyViolation {
			return 0, cerr.NotFound(errors.New("business not found"))
		}
		return 0, fmt.Errorf("inserting boat: %w", err)
	}
	return gb.ID, nil
}

// exec runs an UPDATE or DELETE which must affect exactly one row.
func exec(
	ctx context.Context, tx *postgres.Tx, notFound error,
	sql string, args ...any,
) error {
	n, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if n != 1 {
		return notFound
	}
	return nil
}

func SetFiles(
	ctx context.Context, tx *postgres.Tx, boatID int64,
	photos []string, license string,
) error {
	js, err := encodePhotos(photos)
	if err != nil {
		return err
	}
	return exec(
		ctx, tx, errBoatNotFound,
		"UPDATE boats SET photos = ?, license_url = ? WHERE boat_id = ?",
		js, license, boatID,
	)
}

func UpdateAttrs(
	ctx context.Context, tx *postgres.Tx, boatID int64,
	attrs *model.BoatAttrs,
) error {
	return exec(
		ctx, tx, errBoatNotFound,
		`UPDATE boats SET name = ?, description = ?, trip_types = ?,
	price_per_hour = ?, price_per_day = ?, capacity = ?, boat_type = ?,
	location = ? WHERE boat_id = ?`,
		attrs.Name, attrs.Description, attrs.TripTypes.Join(),
		attrs.PricePerHour, attrs.PricePerDay, attrs.Capacity, attrs.Type,
		attrs.Location, boatID,
	)
}

func SetLicense(ctx context.Context, tx *postgres.Tx, boatID int64, license string) error {
	return exec(
		ctx, tx, errBoatNotFound,
		"UPDATE boats SET license_url = ? WHERE boat_id = ?", license, boatID,
	)
}

func InsertVerification(ctx context.Context, tx *postgres.Tx, boatID int64) error {
	_, err := tx.Exec(ctx, `INSERT INTO verification
	(boat_id, verification_status, boat_approvement) VALUES (?, ?, false)`,
		boatID, string(model.VerificationInReview))
	if err == nil {
		return nil
	}
	switch postgres.ErrCode(err) {
	case postgres.ForeignKeyViolation:
		return errBoatNotFound
	case postgres.UniqueViolation:
		return cerr.Conflict(errors.New("boat is already registered"))
	default:
		return fmt.Errorf("inserting verification: %w", err)
	}
}

func SetVerification(
	ctx context.Context, tx *postgres.Tx, boatID int64,
	status model.VerificationStatus, approved bool,
) error {
	return exec(
		ctx, tx, errVerificationNotFound,
		`UPDATE verification SET verification_status = ?,
	boat_approvement = ?, updated_at = now() WHERE boat_id = ?`,
		string(status), approved, boatID,
	)
}

func DeleteVerification(ctx context.Context, tx *postgres.Tx, boatID int64) error {
	return exec(
		ctx, tx, errVerificationNotFound,
		"DELETE FROM verification WHERE boat_id = ?", boatID,
	)
}

func Delete(ctx context.Context, tx *postgres.Tx, boatID int64) error {
	err := exec(
		ctx, tx, errBoatNotFound,
		"DELETE FROM boats WHERE boat_id = ?", boatID,
	)
	if postgres.ErrCode(err) == postgres.ForeignKeyViolation {
		return cerr.Conflict(errors.New("boat has rentals"))
	}
	return err
}
