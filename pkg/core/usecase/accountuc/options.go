// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package accountuc

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Option is a functional option for the accounts use case.
type Option func(uc *UseCase) error

func positive(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("ttl (%v) is not positive", d)
	}
	return nil
}

// WithEmailTokenTTL option specifies how long the email verification
// links remain valid.
func WithEmailTokenTTL(d time.Duration) Option {
	return func(uc *UseCase) error {
		if err := positive(d); err != nil {
			return err
		}
		uc.emailTTL = d
		return nil
	}
}

// WithResetTokenTTL option specifies how long the password reset
// links remain valid.
func WithResetTokenTTL(d time.Duration) Option {
	return func(uc *UseCase) error {
		if err := positive(d); err != nil {
			return err
		}
		uc.resetTTL = d
		return nil
	}
}

// WithAppBaseURL option specifies the absolute URL which prefixes the
// links in the emails, e.g., https://boats.example.com.
func WithAppBaseURL(base string) Option {
	return func(uc *UseCase) error {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("parsing app base url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return errors.New("app base url must be absolute")
		}
		uc.baseURL = base
		return nil
	}
}

// WithClock option replaces the time.Now function.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		uc.now = now
		return nil
	}
}

// WithTokenGenerator option replaces the random one-time tokens
// generator, which creates UUID strings by default.
func WithTokenGenerator(gen func() string) Option {
	return func(uc *UseCase) error {
		if gen == nil {
			return errors.New("token generator is nil")
		}
		uc.newToken = gen
		return nil
	}
}
