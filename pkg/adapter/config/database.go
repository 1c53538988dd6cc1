// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/schema/sch1"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/boat-rental/pkg/adapter/hash/scram"
	"github.com/momeni/boat-rental/pkg/core/log"
	"github.com/momeni/boat-rental/pkg/core/repo"
	scrami "github.com/momeni/boat-rental/pkg/core/scram"
)

// These constants name the passwords files in the pass-dir folder.
const (
	passFile    = ".pgpass"
	newPassFile = ".pgpass.new"
)

// DefaultAuthMethod is the database authentication method which is
// used when auth-method is not configured.
const DefaultAuthMethod = "scram-sha-256"

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like brweb
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// RoleSuffix specifies a possibly empty suffix for the database
	// role names. Normally, repo.AdminRole and repo.NormalRole roles
	// are used. In the parallel test cases, it is required to create
	// multiple non-colliding roles in the same database cluster and
	// so having a unique (per test) role suffix helps with parallelism.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty"`

	// AuthMethod specifies how role passwords should be hashed before
	// being stored in the database. Only scram-sha-1 and scram-sha-256
	// are supported and the latter is the default value.
	AuthMethod string `yaml:"auth-method,omitempty"`

	hasher scrami.Hasher
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	return c.Database.ConnectionPool(ctx, r)
}

// NewSchemaRepo instantiates a fresh Schema repository which uses the
// configured role suffix and password hashing method.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// SchemaInitializer creates a repo.SchemaInitializer which wraps the
// tx transaction and creates the current schema version tables in it.
// The development users passwords are hashed with bcrypt, similar to
// the passwords of the registered users.
func (c *Config) SchemaInitializer(tx repo.Tx) (
	repo.SchemaInitializer, error,
) {
	h, err := c.Auth.NewHasher()
	if err != nil {
		return nil, err
	}
	return sch1.New(tx, h), nil
}

// RenewPasswords generates new secure passwords for the given roles.
// See Database.RenewPasswords for details.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// Initially, the .pgpass file in the d.PassDir folder is checked
// which should conform with the pgpass format with lines like this:
//
//	host:port:dbname:role:password
//
// If a database connection could be established, created pool and nil
// error will be returned. Otherwise, passwords might have been updated
// during a previous incomplete initialization. So the .pgpass.new
// file in the same d.PassDir folder is checked too. If a connection
// could be established successfully, the .pgpass.new will be moved to
// the .pgpass file, so the .pgpass.new file may be overwritten safely
// by the subsequent RenewPasswords calls.
//
// The `d.RoleSuffix` will be appended to the given `r` role name too.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	path := filepath.Join(d.PassDir, passFile)
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u)
	if err == nil {
		return p, nil
	}
	newPath := filepath.Join(d.PassDir, newPassFile)
	log.Warn(
		ctx, "connecting with the main pass-file failed",
		slog.String("path", path), slog.String("next", newPath),
		log.Err("err", err),
	)
	u, err = d.ConnectionURL(r, newPath)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", newPath, err)
	}
	p, err = postgres.NewPool(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("can use neither pass-file: %w", err)
	}
	if err = os.Rename(newPath, path); err != nil {
		p.Close()
		return nil, fmt.Errorf("os.Rename: %w", err)
	}
	return p, nil
}

// ErrNoPassword indicates that a pass-file has no line for the asked
// host, port, database, and role.
var ErrNoPassword = errors.New("no matching password line")

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. The role name is
// given by r (and is suffixed by d.RoleSuffix) and the password value
// is read from the path file. Returned URL has the postgresql scheme.
// The path file may contain empty or `#`-commented lines in addition
// to the password lines.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	r = r + d.RoleSuffix
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", ErrNoPassword
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Database instance.
func (d Database) ConnectionInfo() (dbName, host string, port int) {
	return d.Name, d.Host, d.Port
}

// NewSchemaRepo instantiates a fresh Schema repository.
// ValidateAndNormalize must be called beforehand, so the hasher for
// the d.AuthMethod is created.
func (d Database) NewSchemaRepo() repo.Schema {
	return schemarp.New(d.RoleSuffix, d.hasher)
}

// RenewPasswords generates new secure passwords for the given roles
// and after recording them in the .pgpass.new file of the d.PassDir
// directory, will use the change function in order to update the
// passwords of those roles in the database too. The change function
// should perform the update operation in a transaction which may or may
// not be committed when RenewPasswords returns. After a successful
// commitment, the returned finalizer should be called in order to move
// the .pgpass.new file over the .pgpass file.
//
// The `d.RoleSuffix` will be appended to the given role names too.
// The change function must add the same suffix to the roles names in
// order to remain consistent with the in-file recorded information.
func (d Database) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	passwords := make([]string, len(roles))
	b := make([]byte, 16) // 128 bits
	enc := base64.RawStdEncoding
	p := make([]byte, enc.EncodedLen(len(b)))
	prfx := fmt.Sprintf("%s:%d:%s", d.Host, d.Port, d.Name)
	lines := make([]string, len(passwords))
	for i, r := range roles {
		if _, err = rand.Read(b); err != nil {
			return nil, fmt.Errorf("rand.Read for i=%d: %w", i, err)
		}
		enc.Encode(p, b)
		passwords[i] = string(p)
		r = r + d.RoleSuffix
		lines[i] = fmt.Sprintf("%s:%s:%s\n", prfx, r, passwords[i])
	}
	orgPath := filepath.Join(d.PassDir, passFile)
	newPath := filepath.Join(d.PassDir, newPassFile)
	finalizer = func() error {
		return os.Rename(newPath, orgPath)
	}
	err = os.WriteFile(newPath, []byte(strings.Join(lines, "")), 0o600)
	if err != nil {
		return nil, fmt.Errorf("writing %q file: %w", newPath, err)
	}
	if err = change(ctx, roles, passwords); err != nil {
		return nil, fmt.Errorf("passwords change callback: %w", err)
	}
	return finalizer, nil
}

// ValidateAndNormalize validates the database settings, fills the
// default auth-method, and creates its password hasher.
func (d *Database) ValidateAndNormalize() error {
	switch {
	case d.Host == "":
		return errors.New("host is required")
	case d.Port <= 0 || d.Port > 65535:
		return fmt.Errorf("invalid port: %d", d.Port)
	case d.Name == "":
		return errors.New("name is required")
	case d.PassDir == "":
		return errors.New("pass-dir is required")
	}
	if d.AuthMethod == "" {
		d.AuthMethod = DefaultAuthMethod
	}
	m, err := scram.ByName(d.AuthMethod)
	if err != nil {
		return err
	}
	d.hasher = m
	return nil
}
