// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var adminEmail, adminFullName string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "User accounts management actions",
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a verified administrator account",
	Long: `Create a verified administrator account. Administrators may not
register through the REST APIs, so they are created by this command.
The password is read from the first line of the standard input, so it
is not kept in the shell history.`,
	RunE: createAdmin,
	Args: cobra.NoArgs,
}

func createAdmin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sc := bufio.NewScanner(cmd.InOrStdin())
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		return errors.New("password is required on the standard input")
	}
	pass := strings.TrimRight(sc.Text(), "\r")
	c, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer a.close(ctx)
	u, err := a.ucs.Accounts.CreateAdmin(ctx, adminEmail, pass, adminFullName)
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "admin %d is created\n", u.ID)
	return nil
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminEmail, "email", "", "email address of the admin")
	f.StringVar(&adminFullName, "full-name", "", "full name of the admin")
	createAdminCmd.MarkFlagRequired("email")
	createAdminCmd.MarkFlagRequired("full-name")
	usersCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(usersCmd)
}
