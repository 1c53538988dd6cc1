// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/momeni/boat-rental/pkg/core/usecase/schemauc"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used.`,
}

const credsRenewalMessage = `The admin role must exist beforehand and its password should be
recorded in the .pgpass file of the configured pass-dir directory.
The normal role will be created (if missing) and the passwords of both
roles will be renewed. New passwords are written to .pgpass.new first
and are moved over the .pgpass file after they are changed in the
database, so an interrupted run may be repeated safely.`

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development sample data",
	Long: `Initialize database contents with development sample data,
such as an admin, a business with its captains and boats in both of
the verification states, a customer, and some rentals.
The database connection information are read from the config file.
` + credsRenewalMessage + `

The brwebN schema (N being the database schema major version) will be
dropped and created again, so all existing data will be lost.`,
	RunE: initDB((*schemauc.UseCase).InitDev),
	Args: cobra.NoArgs,
}

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data,
that is, creating all tables with no rows. Administrators may be added
by the "users create-admin" sub-command afterwards.
The database connection information are read from the config file.
` + credsRenewalMessage + `

The brwebN schema (N being the database schema major version) will be
dropped and created again, so all existing data will be lost.`,
	RunE: initDB((*schemauc.UseCase).InitProd),
	Args: cobra.NoArgs,
}

func initDB(
	action func(uc *schemauc.UseCase, ctx context.Context) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		if err = action(schemauc.New(c), cmd.Context()); err != nil {
			return fmt.Errorf("initializing DB: %w", err)
		}
		return nil
	}
}

func init() {
	dbCmd.AddCommand(initDevCmd, initProdCmd)
	rootCmd.AddCommand(dbCmd)
}
