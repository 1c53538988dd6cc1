// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package passwd exports the expected interfaces for hashing and
// verification of the user account passwords. For the corresponding
// implementation, check the pkg/adapter/hash/bcrypt package.
package passwd

import "errors"

// ErrMismatch is returned by Hasher.Compare when a password does not
// match with its stored hash.
var ErrMismatch = errors.New("password mismatch")

// Hasher computes and verifies one-way password hashes which embed
// their own salt and cost parameters.
type Hasher interface {
	// Hash returns a hash string for the given non-empty password.
	Hash(pass string) (string, error)

	// Compare returns nil if pass matches with hash, ErrMismatch if it
	// does not match, or another error if hash is malformed.
	Compare(hash, pass string) error
}

// MinLength is the minimum accepted length of a user password.
const MinLength = 8
