// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/core/repo"
	"github.com/momeni/boat-rental/pkg/core/scram"
)

// Repo implements the repo.Schema interface. All role names are
// suffixed by its roleSuffix, so multiple deployments may share one
// database server.
type Repo struct {
	roleSuffix repo.Role
	hasher     scram.Hasher
}

// New instantiates a schema repository.
func New(roleSuffix repo.Role, h scram.Hasher) *Repo {
	return &Repo{roleSuffix: roleSuffix, hasher: h}
}

type connQueryer struct {
	*postgres.Conn
	r *Repo
}

func (r *Repo) Conn(c repo.Conn) repo.SchemaConnQueryer {
	return connQueryer{Conn: c.(*postgres.Conn), r: r}
}

func (cq connQueryer) DropIfExists(ctx context.Context, schema string) error {
	return DropIfExists(ctx, cq.Conn, schema)
}

func (cq connQueryer) CreateSchema(ctx context.Context, schema string) error {
	return CreateSchema(ctx, cq.Conn, schema)
}

func (cq connQueryer) CreateRoleIfNotExists(ctx context.Context, role repo.Role) error {
	return CreateRoleIfNotExists(ctx, cq.Conn, cq.r.roleSuffix, role)
}

func (cq connQueryer) GrantPrivileges(ctx context.Context, schema string, role repo.Role) error {
	return GrantPrivileges(ctx, cq.Conn, cq.r.roleSuffix, schema, role)
}

func (cq connQueryer) SetSearchPath(ctx context.Context, schema string, role repo.Role) error {
	return SetSearchPath(ctx, cq.Conn, cq.r.roleSuffix, schema, role)
}

type txQueryer struct {
	*postgres.Tx
	r *Repo
}

func (r *Repo) Tx(tx repo.Tx) repo.SchemaTxQueryer {
	return txQueryer{Tx: tx.(*postgres.Tx), r: r}
}

func (tq txQueryer) DropIfExists(ctx context.Context, schema string) error {
	return DropIfExists(ctx, tq.Tx, schema)
}

func (tq txQueryer) CreateSchema(ctx context.Context, schema string) error {
	return CreateSchema(ctx, tq.Tx, schema)
}

func (tq txQueryer) CreateRoleIfNotExists(ctx context.Context, role repo.Role) error {
	return CreateRoleIfNotExists(ctx, tq.Tx, tq.r.roleSuffix, role)
}

func (tq txQueryer) GrantPrivileges(ctx context.Context, schema string, role repo.Role) error {
	return GrantPrivileges(ctx, tq.Tx, tq.r.roleSuffix, schema, role)
}

func (tq txQueryer) SetSearchPath(ctx context.Context, schema string, role repo.Role) error {
	return SetSearchPath(ctx, tq.Tx, tq.r.roleSuffix, schema, role)
}

func (tq txQueryer) ChangePasswords(
	ctx context.Context, roles []repo.Role, passwords []string,
) error {
	return ChangePasswords(
		ctx, tq.Tx, tq.r.roleSuffix, tq.r.hasher, roles, passwords,
	)
}
