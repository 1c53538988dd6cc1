// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package boatsrp

import (
	"context"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Repo implements the repo.Boats interface.
type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (boats *Repo) Conn(c repo.Conn) repo.BoatsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Boat(ctx context.Context, boatID int64) (*model.Boat, error) {
	return Boat(ctx, cq.Conn, boatID)
}

func (cq connQueryer) Search(ctx context.Context, f model.BoatFilter) ([]*model.Boat, error) {
	return Search(ctx, cq.Conn, f)
}

func (cq connQueryer) ListByBusiness(ctx context.Context, businessID int64) ([]*model.Boat, error) {
	return ListByBusiness(ctx, cq.Conn, businessID)
}

func (cq connQueryer) ListInReview(ctx context.Context) ([]*model.PendingReview, error) {
	return ListInReview(ctx, cq.Conn)
}

func (cq connQueryer) Verification(ctx context.Context, boatID int64) (*model.Verification, error) {
	return Verification(ctx, cq.Conn, boatID)
}

func (cq connQueryer) Owner(ctx context.Context, boatID int64) (*model.OwnerContact, error) {
	return Owner(ctx, cq.Conn, boatID)
}

type txQueryer struct {
	*postgres.Tx
}

func (boats *Repo) Tx(tx repo.Tx) repo.BoatsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Boat(ctx context.Context, boatID int64) (*model.Boat, error) {
	return Boat(ctx, tq.Tx, boatID)
}

func (tq txQueryer) Search(ctx context.Context, f model.BoatFilter) ([]*model.Boat, error) {
	return Search(ctx, tq.Tx, f)
}

func (tq txQueryer) ListByBusiness(ctx context.Context, businessID int64) ([]*model.Boat, error) {
	return ListByBusiness(ctx, tq.Tx, businessID)
}

func (tq txQueryer) ListInReview(ctx context.Context) ([]*model.PendingReview, error) {
	return ListInReview(ctx, tq.Tx)
}

func (tq txQueryer) Verification(ctx context.Context, boatID int64) (*model.Verification, error) {
	return LockVerification(ctx, tq.Tx, boatID)
}

func (tq txQueryer) Owner(ctx context.Context, boatID int64) (*model.OwnerContact, error) {
	return Owner(ctx, tq.Tx, boatID)
}

func (tq txQueryer) Insert(
	ctx context.Context, businessID int64, attrs *model.BoatAttrs,
) (int64, error) {
	return Insert(ctx, tq.Tx, businessID, attrs)
}

func (tq txQueryer) SetFiles(
	ctx context.Context, boatID int64, photos []string, license string,
) error {
	return SetFiles(ctx, tq.Tx, boatID, photos, license)
}

func (tq txQueryer) UpdateAttrs(ctx context.Context, boatID int64, attrs *model.BoatAttrs) error {
	return UpdateAttrs(ctx, tq.Tx, boatID, attrs)
}

func (tq txQueryer) SetLicense(ctx context.Context, boatID int64, license string) error {
	return SetLicense(ctx, tq.Tx, boatID, license)
}

func (tq txQueryer) InsertVerification(ctx context.Context, boatID int64) error {
	return InsertVerification(ctx, tq.Tx, boatID)
}

func (tq txQueryer) SetVerification(
	ctx context.Context, boatID int64,
	status model.VerificationStatus, approved bool,
) error {
	return SetVerification(ctx, tq.Tx, boatID, status, approved)
}

func (tq txQueryer) DeleteVerification(ctx context.Context, boatID int64) error {
	return DeleteVerification(ctx, tq.Tx, boatID)
}

func (tq txQueryer) Delete(ctx context.Context, boatID int64) error {
	return Delete(ctx, tq.Tx, boatID)
}
