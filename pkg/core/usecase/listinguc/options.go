// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listinguc

import (
	"errors"
	"fmt"
)

// Option is a functional option for the listings use case.
type Option func(uc *UseCase) error

// WithMaxPhotos option limits the number of photos which may be
// uploaded for a boat. When it is not passed, 10 photos are allowed.
func WithMaxPhotos(n int) Option {
	return func(uc *UseCase) error {
		if n <= 0 {
			return fmt.Errorf("max photos (%d) is not positive", n)
		}
		if uc.maxPhotos != 0 {
			return errors.New("max photos is already configured")
		}
		uc.maxPhotos = n
		return nil
	}
}
