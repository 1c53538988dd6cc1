// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"fmt"
	"strings"

	"github.com/momeni/boat-rental/pkg/core/bearer"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/passwd"
)

// Hasher is a reversible passwd.Hasher which keeps passwords with a
// "plain:" prefix. It is only useful for tests.
type Hasher struct{}

func (Hasher) Hash(pass string) (string, error) {
	return "plain:" + pass, nil
}

func (Hasher) Compare(hash, pass string) error {
	p, ok := strings.CutPrefix(hash, "plain:")
	switch {
	case !ok:
		return fmt.Errorf("malformed hash %q", hash)
	case p != pass:
		return passwd.ErrMismatch
	}
	return nil
}

// Tokens is a bearer.IssueVerifier which formats identities as
// "<user_id>:<account_type>" strings.
type Tokens struct{}

func (Tokens) Issue(id model.Identity) (string, error) {
	return fmt.Sprintf("%d:%s", id.UserID, id.AccountType), nil
}

func (Tokens) Verify(token string) (id model.Identity, err error) {
	var at string
	if _, err = fmt.Sscanf(token, "%d:%s", &id.UserID, &at); err != nil {
		return model.Identity{}, bearer.ErrInvalidToken
	}
	if id.AccountType, err = model.ParseAccountType(at); err != nil {
		return model.Identity{}, bearer.ErrInvalidToken
	}
	return id, nil
}
