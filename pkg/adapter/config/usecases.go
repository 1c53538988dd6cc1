// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/momeni/boat-rental/pkg/adapter/config/settings"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/boatsrp"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/captainsrp"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/favoritesrp"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/rentalsrp"
	"github.com/momeni/boat-rental/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/routes"
	"github.com/momeni/boat-rental/pkg/adapter/scheduler"
	"github.com/momeni/boat-rental/pkg/core/bearer"
	"github.com/momeni/boat-rental/pkg/core/repo"
	"github.com/momeni/boat-rental/pkg/core/usecase/accountuc"
	"github.com/momeni/boat-rental/pkg/core/usecase/captainuc"
	"github.com/momeni/boat-rental/pkg/core/usecase/favoriteuc"
	"github.com/momeni/boat-rental/pkg/core/usecase/listinguc"
	"github.com/momeni/boat-rental/pkg/core/usecase/rentaluc"
)

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Accounts Accounts // accounts use case related settings
	Listings Listings // boat listings use case related settings
	Rentals  Rentals  // rentals use case related settings
}

// Accounts contains the configuration settings for the accounts
// use case. Nil durations are left to the use case defaults.
type Accounts struct {
	EmailTokenTTL *settings.Duration `yaml:"email-token-ttl,omitempty"`
	ResetTokenTTL *settings.Duration `yaml:"reset-token-ttl,omitempty"`

	// AppBaseURL prefixes the links of the verification and password
	// reset emails, e.g., https://boats.example.com.
	AppBaseURL string `yaml:"app-base-url,omitempty"`
}

// Listings contains the configuration settings for the listings
// use case.
type Listings struct {
	MaxPhotos *int `yaml:"max-photos,omitempty"`
}

// Rentals contains the configuration settings for the rentals use case
// and its periodic status sweep.
type Rentals struct {
	SweepSchedule  string `yaml:"sweep-schedule"` // a 5 fields cron spec
	TimeZone       string `yaml:"time-zone"`      // an IANA zone name
	RejectOverlaps *bool  `yaml:"reject-overlaps"`

	location *time.Location
}

// Location returns the loaded TimeZone of `r`.
func (r Rentals) Location() *time.Location {
	return r.location
}

// NewScheduler instantiates a scheduler which runs the rentals sweep
// based on the SweepSchedule in the configured time zone.
func (r Rentals) NewScheduler(
	s scheduler.Sweeper, o scheduler.Observer,
) (*scheduler.Scheduler, error) {
	return scheduler.New(r.SweepSchedule, r.location, s, o)
}

// NewUseCase instantiates a rentals use case based on `r` settings.
func (r Rentals) NewUseCase(
	p repo.Pool, rr repo.Rentals, n repo.Notifier,
) (*rentaluc.UseCase, error) {
	opts := []rentaluc.Option{rentaluc.WithLocation(r.location)}
	if *r.RejectOverlaps {
		opts = append(opts, rentaluc.WithOverlapRejection())
	}
	return rentaluc.New(p, rr, n, opts...)
}

// NewUseCase instantiates a listings use case based on `l` settings.
func (l Listings) NewUseCase(
	p repo.Pool, b repo.Boats, u repo.Users,
	s repo.Storage, n repo.Notifier,
) (*listinguc.UseCase, error) {
	var opts []listinguc.Option
	if l.MaxPhotos != nil {
		opts = append(opts, listinguc.WithMaxPhotos(*l.MaxPhotos))
	}
	return listinguc.New(p, b, u, s, n, opts...)
}

// NewUseCase instantiates an accounts use case based on `a` settings.
func (a Accounts) NewUseCase(
	p repo.Pool, u repo.Users, auth Auth,
	i bearer.Issuer, n repo.Notifier,
) (*accountuc.UseCase, error) {
	h, err := auth.NewHasher()
	if err != nil {
		return nil, err
	}
	opts := make([]accountuc.Option, 0, 3)
	if a.EmailTokenTTL != nil {
		opts = append(
			opts, accountuc.WithEmailTokenTTL(a.EmailTokenTTL.Std()),
		)
	}
	if a.ResetTokenTTL != nil {
		opts = append(
			opts, accountuc.WithResetTokenTTL(a.ResetTokenTTL.Std()),
		)
	}
	if a.AppBaseURL != "" {
		opts = append(opts, accountuc.WithAppBaseURL(a.AppBaseURL))
	}
	return accountuc.New(p, u, h, i, n, opts...)
}

// NewUseCases instantiates all use cases which are served by the REST
// APIs over the p connection pool, using the PostgreSQL repositories.
func (c *Config) NewUseCases(
	p repo.Pool, s repo.Storage, n repo.Notifier, i bearer.Issuer,
) (*routes.UseCases, error) {
	users := usersrp.New()
	ucs := &routes.UseCases{
		Captains:  captainuc.New(p, captainsrp.New(), users, s),
		Favorites: favoriteuc.New(p, favoritesrp.New()),
	}
	var err error
	ucs.Accounts, err = c.Usecases.Accounts.NewUseCase(
		p, users, c.Auth, i, n,
	)
	if err != nil {
		return nil, fmt.Errorf("creating accounts use case: %w", err)
	}
	ucs.Listings, err = c.Usecases.Listings.NewUseCase(
		p, boatsrp.New(), users, s, n,
	)
	if err != nil {
		return nil, fmt.Errorf("creating listings use case: %w", err)
	}
	ucs.Rentals, err = c.Usecases.Rentals.NewUseCase(
		p, rentalsrp.New(), n,
	)
	if err != nil {
		return nil, fmt.Errorf("creating rentals use case: %w", err)
	}
	return ucs, nil
}

// ValidateAndNormalize fills the default values of all use cases
// settings and verifies their ranges.
func (u *Usecases) ValidateAndNormalize() error {
	a := &u.Accounts
	if err := settings.VerifyRange(
		"email-token-ttl", a.EmailTokenTTL,
		settings.Duration(10*time.Minute),
		settings.Duration(7*24*time.Hour),
	); err != nil {
		return err
	}
	if err := settings.VerifyRange(
		"reset-token-ttl", a.ResetTokenTTL,
		settings.Duration(5*time.Minute),
		settings.Duration(24*time.Hour),
	); err != nil {
		return err
	}
	if a.AppBaseURL != "" {
		bu, err := url.Parse(a.AppBaseURL)
		if err != nil {
			return fmt.Errorf("parsing app-base-url: %w", err)
		}
		if bu.Scheme == "" || bu.Host == "" {
			return fmt.Errorf("app-base-url %q is not absolute", a.AppBaseURL)
		}
	}
	if err := settings.VerifyRange(
		"max-photos", u.Listings.MaxPhotos, 1, 50,
	); err != nil {
		return err
	}
	r := &u.Rentals
	if r.SweepSchedule == "" {
		r.SweepSchedule = scheduler.DefaultSweepSpec
	}
	if err := scheduler.ParseSpec(r.SweepSchedule); err != nil {
		return err
	}
	if r.TimeZone == "" {
		r.TimeZone = "UTC"
	}
	loc, err := time.LoadLocation(r.TimeZone)
	if err != nil {
		return fmt.Errorf("loading time-zone: %w", err)
	}
	r.location = loc
	settings.Default(&r.RejectOverlaps, false)
	return nil
}
