// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/momeni/boat-rental/pkg/core/model"
)

var today string

var rentalsCmd = &cobra.Command{
	Use:   "rentals",
	Short: "Rentals management actions",
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Complete the ongoing rentals which their end date is passed",
	Long: `Complete the ongoing rentals which their end date is before
today. The web server runs this sweep periodically, as scheduled by the
sweep-schedule setting, so this command is only needed for catching up
after a downtime or for testing. Today is computed in the configured
time-zone, unless it is given by the --today flag as YYYY-MM-DD.
Running the sweep several times is harmless.`,
	RunE: sweep,
	Args: cobra.NoArgs,
}

func sweep(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer a.close(ctx)
	day := a.ucs.Rentals.Today()
	if today != "" {
		if day, err = model.ParseDate(today); err != nil {
			return err
		}
	}
	n, err := a.ucs.Rentals.Sweep(ctx, day)
	if err != nil {
		return fmt.Errorf("sweeping rentals: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d rentals are completed\n", n)
	return nil
}

func init() {
	sweepCmd.Flags().StringVar(
		&today, "today", "", "the current day as YYYY-MM-DD",
	)
	rentalsCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(rentalsCmd)
}
