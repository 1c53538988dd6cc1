// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package pgmock is an internal helper for the repository unit tests.
// It wraps a go-sqlmock database by a *postgres.Pool, so repositories
// may be tested against the exact statements which they send to the
// DBMS without a real PostgreSQL server.
package pgmock

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	gormpg "gorm.io/driver/postgres"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// New creates a mocked connections pool. All expectations must be
// met by the end of the test, as verified by a cleanup function.
func New(t *testing.T) (*postgres.Pool, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "creating sqlmock")
	p, err := postgres.NewPoolWithDialector(
		context.Background(),
		gormpg.New(gormpg.Config{Conn: db}),
	)
	require.NoError(t, err, "creating pool")
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return p, mock
}

// Conn runs f with a connection of p, failing the test if it fails.
func Conn(t *testing.T, p repo.Pool, f repo.ConnHandler) {
	t.Helper()
	require.NoError(t, p.Conn(context.Background(), f))
}
