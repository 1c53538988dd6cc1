// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentaluc

import (
	"errors"
	"time"
)

// Option is a functional option for the rentals use case.
type Option func(uc *UseCase) error

// WithOverlapRejection option makes Create to lock the boat row in
// a transaction and reject bookings which overlap with the ongoing or
// completed rentals of that boat.
func WithOverlapRejection() Option {
	return func(uc *UseCase) error {
		uc.rejectOverlaps = true
		return nil
	}
}

// WithLocation option configures the time zone which is used for
// finding out the current calendar day. UTC is used by default.
func WithLocation(loc *time.Location) Option {
	return func(uc *UseCase) error {
		if loc == nil {
			return errors.New("location is nil")
		}
		if uc.location != nil {
			return errors.New("location is already configured")
		}
		uc.location = loc
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
