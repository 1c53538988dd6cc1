// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package favoriteuc_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/internal/test/fakes"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/usecase/favoriteuc"
)

func TestToggle(t *testing.T) {
	db := fakes.NewDB()
	uc := favoriteuc.New(db.Pool(), fakes.Favorites{})
	ctx := context.Background()
	_, b := db.AddBusiness("owner@example.com", "Blue Fleet")
	boat := db.AddBoat(b.ID, "Sea Breeze", model.VerificationApproved)
	id := model.Identity{UserID: 500, AccountType: model.AccountCustomer}

	fav, err := uc.Toggle(ctx, id, boat.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	boats, err := uc.List(ctx, id)
	require.NoError(t, err)
	require.Len(t, boats, 1)
	assert.Equal(t, "Sea Breeze", boats[0].Name)

	fav, err = uc.Toggle(ctx, id, boat.ID)
	require.NoError(t, err)
	assert.False(t, fav)
	assert.Equal(t, 0, db.Counts()["favorites"])

	_, err = uc.Toggle(ctx, id, 4242)
	assert.Equal(t, http.StatusNotFound, cerr.StatusOf(err))
	_, err = uc.Toggle(ctx, id, 0)
	assert.Equal(t, http.StatusBadRequest, cerr.StatusOf(err))
}
