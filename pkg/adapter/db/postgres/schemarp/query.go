// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp implements the repo.Schema repository which creates
// the database schema and roles and grants privileges to them. These
// DDL statements do not accept bind parameters, so all identifiers are
// quoted by pgx.Identifier and passwords are sent only as SCRAM hashes.
package schemarp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/core/repo"
	"github.com/momeni/boat-rental/pkg/core/scram"
)

// ScramIterations is the PBKDF2 iterations count of the role password
// hashes, as recommended by RFC 7677.
const ScramIterations = 15000

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func roleIdent(roleSuffix, role repo.Role) string {
	return ident(string(role + roleSuffix))
}

func literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// DropIfExists drops the `schema` schema with cascading if it exists.
// That is, if `schema` does not exist, a nil error will be returned
// without any change.
func DropIfExists[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(ctx, "DROP SCHEMA IF EXISTS "+ident(schema)+" CASCADE")
	return err
}

// CreateSchema tries to create the `schema` schema.
// There must be no other schema with the `schema` name, otherwise,
// this operation will fail.
func CreateSchema[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(ctx, "CREATE SCHEMA "+ident(schema))
	return err
}

// CreateRoleIfNotExists creates the `role` role (suffixed by
// `roleSuffix`) if it does not exist right now. The created role may
// login, but has no password until ChangePasswords is called.
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, role repo.Role,
) error {
	var found []int
	err := q.GORM(ctx).Raw(
		"SELECT 1 FROM pg_roles WHERE rolname = ?",
		string(role+roleSuffix),
	).Scan(&found).Error
	if err != nil {
		return fmt.Errorf("querying pg_roles: %w", err)
	}
	if len(found) > 0 {
		return nil
	}
	_, err = q.Exec(ctx, "CREATE ROLE "+roleIdent(roleSuffix, role)+" WITH LOGIN")
	return err
}

// GrantPrivileges grants ALL privileges on the `schema` schema to the
// `role` role (suffixed by `roleSuffix`), so it may create or access
// tables in that schema.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"GRANT ALL PRIVILEGES ON SCHEMA %s TO %s",
		ident(schema), roleIdent(roleSuffix, role),
	))
	return err
}

// SetSearchPath alters the given database role and sets its default
// search_path to the given schema name alone.
func SetSearchPath[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"ALTER ROLE %s SET search_path TO %s",
		roleIdent(roleSuffix, role), ident(schema),
	))
	return err
}

// ChangePasswords updates the passwords of the given roles (suffixed
// by `roleSuffix`) in the current transaction. The roles and passwords
// slices must have the same number of entries, so they can be used in
// pair. The `hasher` is used for hashing the `passwords` before sending
// them to the DBMS, so they may not leak in plaintext.
func ChangePasswords(
	ctx context.Context,
	tx *postgres.Tx,
	roleSuffix repo.Role,
	hasher scram.Hasher,
	roles []repo.Role,
	passwords []string,
) error {
	if len(roles) != len(passwords) {
		return fmt.Errorf(
			"got %d roles and %d passwords", len(roles), len(passwords),
		)
	}
	if hasher == nil {
		return errors.New("scram hasher is not configured")
	}
	for i, role := range roles {
		h, err := hasher.Hash(passwords[i], "", ScramIterations)
		if err != nil {
			return fmt.Errorf("hashing password of %q: %w", role, err)
		}
		_, err = tx.Exec(ctx, fmt.Sprintf(
			"ALTER ROLE %s WITH PASSWORD %s",
			roleIdent(roleSuffix, role), literal(h),
		))
		if err != nil {
			return fmt.Errorf("altering role %q: %w", role, err)
		}
	}
	return nil
}
