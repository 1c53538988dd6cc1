// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sch1 provides database schema major version 1 verification
// logic. This implementation may be instantiated indirectly using
// the github.com/momeni/boat-rental/internal/test/schema package.
package sch1

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/schema/sch1"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Major is the database schema major version which is verified here.
const Major = sch1.Major

// Tables lists all tables of the schema major version 1.
var Tables = []string{
	"users", "businesses", "boats", "verification", "captains",
	"rentals", "boat_reviews", "favorites", "reset_tokens",
	"email_verifications",
}

// Verifier implements the schema major version 1 verification logic.
// It implements github.com/momeni/boat-rental/internal/test/schema.Verifier
// interface and wraps a database connection as noted in New function.
type Verifier struct {
	c repo.Conn // database connection which is used for testing
}

// New instantiates a Verifier struct, wrapping the `c` database
// connection which its search_path must point to the brweb1 schema.
func New(c repo.Conn) *Verifier {
	return &Verifier{c}
}

// VerifySchema ensures that all tables of the current schema exist and
// no other table is created.
func (v *Verifier) VerifySchema(ctx context.Context, t *testing.T) {
	rows, err := v.c.Query(ctx, `SELECT table_name
FROM information_schema.tables
WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'`)
	require.NoError(t, err, "listing tables")
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n), "scanning table name")
		names = append(names, n)
	}
	require.NoError(t, rows.Err(), "iterating tables")
	assert.ElementsMatch(t, Tables, names)
}

// VerifyDevData checks for presence of the development suitable initial
// data and marks possible issues using the `t` testing argument.
// Presence of extra rows is acceptable.
func (v *Verifier) VerifyDevData(ctx context.Context, t *testing.T) {
	for table, n := range map[string]int64{
		"users":        3,
		"businesses":   1,
		"captains":     1,
		"boats":        2,
		"verification": 2,
		"rentals":      2,
		"boat_reviews": 1,
	} {
		assert.GreaterOrEqual(t, v.count(ctx, t, table, ""), n, table)
	}
	approved := v.count(
		ctx, t, "verification", "verification_status = 'approved'",
	)
	assert.GreaterOrEqual(t, approved, int64(1), "approved boats")
	admins := v.count(ctx, t, "users", "account_type = 'admin'")
	assert.GreaterOrEqual(t, admins, int64(1), "admins")
}

// VerifyProdData checks that the production initialization has left
// all tables empty.
func (v *Verifier) VerifyProdData(ctx context.Context, t *testing.T) {
	for _, table := range Tables {
		assert.Zero(t, v.count(ctx, t, table, ""), table)
	}
}

func (v *Verifier) count(
	ctx context.Context, t *testing.T, table, where string,
) (n int64) {
	q := "SELECT count(*) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	rows, err := v.c.Query(ctx, q)
	require.NoError(t, err, "counting %s rows", table)
	defer rows.Close()
	require.True(t, rows.Next(), "no count row for %s", table)
	require.NoError(t, rows.Scan(&n), fmt.Sprintf("scanning %s count", table))
	return n
}
