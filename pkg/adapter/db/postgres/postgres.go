// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres implements the repo.Pool, repo.Conn, and repo.Tx
// interfaces using the GORM framework and its pgx based PostgreSQL
// driver. The xxxrp sub-packages implement the repositories on top of
// these types and may use the embedded *gorm.DB instances directly.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/schema/sch1"
)

// These constants represent the major, minor, and patch components of
// the current database schema semantic version. They are taken from
// the sch1 package which creates the tables of the latest version.
const (
	Major = sch1.Major
	Minor = sch1.Minor
	Patch = sch1.Patch
)

// SQLSTATE codes which are translated to the cerr errors by the
// repositories.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	CheckViolation      = "23514"
)

// ErrCode returns the SQLSTATE code of a PostgreSQL error in the err
// chain, or an empty string if err was not reported by the DBMS.
func ErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// ConstraintName returns the name of the violated constraint of a
// PostgreSQL error in the err chain, or an empty string.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
