// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemauc_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/internal/test/dbcontainer"
	"github.com/momeni/boat-rental/internal/test/schema"
	"github.com/momeni/boat-rental/pkg/adapter/config"
	"github.com/momeni/boat-rental/pkg/core/repo"
	"github.com/momeni/boat-rental/pkg/core/usecase/schemauc"
)

func TestInitDB(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	port := dbcontainer.Port(t, pg)
	for _, mode := range []string{"dev", "prod"} {
		db := dbcontainer.NewDatabase(ctx, t, pool, port, "initdb_"+mode)
		t.Run(mode, func(t *testing.T) {
			r := require.New(t)
			secret := filepath.Join(t.TempDir(), "jwt")
			r.NoError(os.WriteFile(secret, []byte("initdb-secret"), 0o600))
			cost := 4
			c := &config.Config{
				Database: db,
				Auth:     config.Auth{SecretFile: secret, BcryptCost: &cost},
				Storage: config.Storage{
					Kind: config.StorageLocal, Dir: t.TempDir(),
				},
				Versions: config.Versions{
					Config: config.Major, Database: schemauc.MajorVersion,
				},
			}
			r.NoError(c.ValidateAndNormalize())

			uc := schemauc.New(c)
			init := uc.InitProd
			if mode == "dev" {
				init = uc.InitDev
			}
			r.NoError(init(ctx), "initializing %s database", mode)
			// initialization drops the old schema, so it may be repeated
			r.NoError(init(ctx), "re-initializing %s database", mode)

			p, err := c.ConnectionPool(ctx, repo.NormalRole)
			r.NoError(err, "connecting with renewed normal role password")
			defer func() {
				r.NoError(p.Close())
			}()
			err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
				v, err := schema.NewVerifier(c, schemauc.MajorVersion)
				if err != nil {
					return err
				}
				v.VerifySchema(ctx, t)
				if mode == "dev" {
					v.VerifyDevData(ctx, t)
				} else {
					v.VerifyProdData(ctx, t)
				}
				return nil
			})
			r.NoError(err)
		})
	}
}
