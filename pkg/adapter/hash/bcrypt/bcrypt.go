// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bcrypt implements the passwd.Hasher interface for the user
// account passwords using the golang.org/x/crypto/bcrypt module.
package bcrypt

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/momeni/boat-rental/pkg/core/passwd"
)

// DefaultCost is the bcrypt cost of the production hashes.
const DefaultCost = bcrypt.DefaultCost

// Hasher computes bcrypt hashes with a fixed cost.
type Hasher struct {
	cost int
}

// New returns a Hasher with the given cost. It must be in the
// [bcrypt.MinCost, bcrypt.MaxCost] range. Tests may use the MinCost
// in order to run faster.
func New(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf(
			"cost must be in [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost,
		)
	}
	return &Hasher{cost: cost}, nil
}

// Hash returns a bcrypt hash of pass. Passwords which are longer than
// 72 bytes are rejected instead of being truncated silently.
func (h *Hasher) Hash(pass string) (string, error) {
	if pass == "" {
		return "", errors.New("password must be non-empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pass), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(b), nil
}

func (h *Hasher) Compare(hash, pass string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return passwd.ErrMismatch
	}
	return err
}
