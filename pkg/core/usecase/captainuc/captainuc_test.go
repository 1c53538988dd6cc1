// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package captainuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/internal/test/fakes"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/usecase/captainuc"
)

func setup(t *testing.T) (*fakes.DB, *fakes.Storage, *captainuc.UseCase, model.Identity, *model.Business) {
	t.Helper()
	db, s := fakes.NewDB(), fakes.NewStorage()
	uc := captainuc.New(db.Pool(), fakes.Captains{}, fakes.Users{}, s)
	u, b := db.AddBusiness("owner@example.com", "Blue Fleet")
	return db, s, uc, model.Identity{UserID: u.ID, AccountType: model.AccountBusiness}, b
}

func TestAddListRemove(t *testing.T) {
	db, s, uc, owner, b := setup(t)
	ctx := context.Background()

	c, err := uc.Add(ctx, owner, &captainuc.AddRequest{
		FullName: " Jack ", Phone: "+1",
	}, fakes.File("license.pdf", "%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "Jack", c.FullName)
	assert.Equal(t, b.ID, c.BusinessID)
	assert.Equal(t, "mem://"+captainuc.Namespace(b.ID)+"/0-license.pdf", c.LicenseURL)
	assert.Equal(t, []byte("%PDF"), s.Objects[c.LicenseURL])

	cs, err := uc.List(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	mine, err := uc.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, cs, mine)

	require.NoError(t, uc.Remove(ctx, owner, c.ID))
	assert.Equal(t, 0, db.Counts()["captains"])
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []string{c.LicenseURL}, s.Deleted)
}

func TestAddValidation(t *testing.T) {
	_, s, uc, owner, _ := setup(t)
	ctx := context.Background()
	_, err := uc.Add(ctx, owner, &captainuc.AddRequest{}, fakes.File("l", "x"))
	assert.Equal(t, http.StatusBadRequest, cerr.StatusOf(err))
	_, err = uc.Add(ctx, owner, &captainuc.AddRequest{FullName: "Jack"}, nil)
	assert.Equal(t, http.StatusBadRequest, cerr.StatusOf(err))

	customer := model.Identity{UserID: 99, AccountType: model.AccountCustomer}
	_, err = uc.Add(ctx, customer, &captainuc.AddRequest{FullName: "Jack"}, fakes.File("l", "x"))
	assert.Equal(t, http.StatusForbidden, cerr.StatusOf(err))
	assert.Equal(t, 0, s.Len())
}

func TestAddCleansUpOnInsertFailure(t *testing.T) {
	db, s, uc, owner, _ := setup(t)
	db.FailOn("Captains.Insert", errors.New("db down"))
	_, err := uc.Add(context.Background(), owner, &captainuc.AddRequest{
		FullName: "Jack",
	}, fakes.File("license.pdf", "%PDF"))
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Len(t, s.Deleted, 1)
}

func TestAddStorageFailure(t *testing.T) {
	db, s, uc, owner, _ := setup(t)
	s.FailAll = true
	_, err := uc.Add(context.Background(), owner, &captainuc.AddRequest{
		FullName: "Jack",
	}, fakes.File("license.pdf", "%PDF"))
	assert.ErrorIs(t, err, cerr.ErrStorage)
	assert.Equal(t, 0, db.Counts()["captains"])
}

func TestRemoveAuthorization(t *testing.T) {
	db, _, uc, owner, _ := setup(t)
	ctx := context.Background()
	ou, other := db.AddBusiness("other@example.com", "Red Fleet")
	c := db.AddCaptain(other.ID, "Jill")

	err := uc.Remove(ctx, owner, c.ID)
	assert.Equal(t, http.StatusForbidden, cerr.StatusOf(err))

	err = uc.Remove(ctx, owner, 4242)
	assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))

	admin := model.Identity{UserID: 1000, AccountType: model.AccountAdmin}
	require.NoError(t, uc.Remove(ctx, admin, c.ID))

	c = db.AddCaptain(other.ID, "Joe")
	otherOwner := model.Identity{UserID: ou.ID, AccountType: model.AccountBusiness}
	require.NoError(t, uc.Remove(ctx, otherOwner, c.ID))
}
