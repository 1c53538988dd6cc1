// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bearer exports the expected interfaces for issuing and
// verifying the bearer tokens of authenticated users. For the
// corresponding implementation, check the pkg/adapter/auth/jwt package.
package bearer

import (
	"errors"

	"github.com/momeni/boat-rental/pkg/core/model"
)

// ErrInvalidToken is returned by Verifier.Verify for malformed,
// expired, or forged tokens.
var ErrInvalidToken = errors.New("invalid bearer token")

// Issuer creates signed bearer tokens for identities.
type Issuer interface {
	Issue(id model.Identity) (string, error)
}

// Verifier validates a token and returns the identity which it was
// issued for.
type Verifier interface {
	Verify(token string) (model.Identity, error)
}

// IssueVerifier is implemented by the token adapters.
type IssueVerifier interface {
	Issuer
	Verifier
}
