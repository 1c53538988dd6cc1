// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer is an internal helper for the test packages.
// This packages facilitates creation of a temporary postgres:16
// podman container and connecting to it, using a *postgres.Pool
// connection pool. It also creates isolated databases and admin roles
// in that container, so parallel tests may not interfere.
// It may be used in all integration-level test suites which require
// a real PostgreSQL DBMS server. Those suites are skipped in the short
// testing mode.
package dbcontainer

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/pkg/adapter/config"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/adapter/hash/scram"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// New creates and starts up a postgres podman container.
// The podman.service needs to be started and the DOCKER_HOST
// environment variable needs to be initialized beforehand like
// DOCKER_HOST=unix://$XDG_RUNTIME_DIR/podman/podman.sock
// in order to be identified by this function properly.
// The ctx will be used during the container start up and shutdown,
// while the timeout will be considered only during the start up phase.
// In the short testing mode, t is skipped.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pg *sqltestutil.PostgresContainer,
	pool *postgres.Pool,
	dfrs []func(),
	ok bool,
) {
	if testing.Short() {
		t.Skip("skipping the database integration tests")
	}
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	dbmsVer := "16"
	pg, err := sqltestutil.StartPostgresContainer(ctx2, dbmsVer)
	ok = assert.NoError(t, err, "failed to set up a test database")
	if !ok {
		return
	}
	dfrs = append(dfrs, func() {
		err := pg.Shutdown(ctx)
		assert.NoError(t, err, "failed to shutdown test database")
	})
	u := pg.ConnectionString()
	for pool == nil {
		pool, err = postgres.NewPool(ctx2, u)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == "57P03" {
			continue // the database system is starting up
		}
		var netErr net.Error
		if ctx2.Err() == nil && errors.As(err, &netErr) {
			continue // tolerate network errors until a timeout
		}
		ok = assert.NoError(t, err, "cannot connect to test database")
		if !ok {
			return
		}
	}
	dfrs = append(dfrs, func() {
		err := pool.Close()
		assert.NoError(t, err, "failed to close the connections pool")
	})
	return
}

// Port returns the port number of the pg container.
func Port(t *testing.T, pg *sqltestutil.PostgresContainer) int {
	u, err := url.Parse(pg.ConnectionString())
	require.NoError(t, err, "parsing DB container URL")
	p, err := strconv.Atoi(u.Port())
	require.NoError(t, err, "parsing DB container port")
	return p
}

// NewDatabase creates the name database and a superuser admin role
// (having the _name suffix) using the pool connections and writes the
// admin password into a .pgpass file in a temporary directory.
// Returned settings describe that database and may be used by the
// schemauc use case for its initialization.
func NewDatabase(
	ctx context.Context, t *testing.T, pool repo.Pool, port int, name string,
) config.Database {
	roleSuffix := repo.Role("_" + name)
	u := repo.AdminRole + roleSuffix
	b := make([]byte, 8)
	_, err := rand.Read(b)
	require.NoError(t, err, "generating a random password")
	p := fmt.Sprintf("%x", b)
	err = pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		// The database and role creation DDL statements do not
		// support parameterized queries, nevertheless, the `name`
		// and `u` variables are trusted.
		if _, err := c.Exec(ctx, "CREATE DATABASE "+name); err != nil {
			return fmt.Errorf("creating %q database: %w", name, err)
		}
		hp, err := scram.SHA256().Hash(p, "", 15000)
		if err != nil {
			return fmt.Errorf("computing scram hash of password: %w", err)
		}
		if _, err := c.Exec(ctx, fmt.Sprintf(
			`CREATE ROLE %s WITH SUPERUSER LOGIN PASSWORD '%s';
GRANT ALL PRIVILEGES ON DATABASE %s TO %[1]s`,
			u, hp, name,
		)); err != nil {
			return fmt.Errorf("creating %q role: %w", u, err)
		}
		return nil
	})
	require.NoError(t, err, "creating database and admin role")
	d := t.TempDir()
	line := fmt.Sprintf("127.0.0.1:%d:%s:%s:%s\n", port, name, u, p)
	pgpass := filepath.Join(d, ".pgpass")
	require.NoError(t, os.WriteFile(pgpass, []byte(line), 0o600))
	db := config.Database{
		Host:       "127.0.0.1",
		Port:       port,
		Name:       name,
		PassDir:    d,
		RoleSuffix: roleSuffix,
	}
	require.NoError(t, db.ValidateAndNormalize())
	return db
}
