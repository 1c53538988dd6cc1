// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram computes the SCRAM verifiers of the database roles.
// A verifier is what PostgreSQL keeps for a role password, so the
// schema initialization may set passwords without sending them in
// plaintext. It implements the pkg/core/scram.Hasher interface on top
// of the github.com/xdg-go/scram module.
package scram

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/xdg-go/scram"
)

// MinIterations is the least PBKDF2 iterations count which is accepted
// by Hash. RFC 7677 recommends 15000 or more.
const MinIterations = 4096

// Mechanism is a SCRAM variant with a fixed hash function.
type Mechanism struct {
	gen     scram.HashGeneratorFcn
	keySize int // bytes
	name    string
}

// SHA1 returns the SCRAM-SHA-1 mechanism.
func SHA1() *Mechanism {
	return &Mechanism{gen: scram.SHA1, keySize: 20, name: "SCRAM-SHA-1"}
}

// SHA256 returns the SCRAM-SHA-256 mechanism which is the PostgreSQL
// default for password_encryption.
func SHA256() *Mechanism {
	return &Mechanism{gen: scram.SHA256, keySize: 32, name: "SCRAM-SHA-256"}
}

// ByName returns a mechanism by its case insensitive name, such as
// "scram-sha-256" which is configured as the database auth method.
func ByName(name string) (*Mechanism, error) {
	for _, m := range []*Mechanism{SHA256(), SHA1()} {
		if strings.EqualFold(m.name, name) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unsupported auth method %q", name)
}

// Name returns the SCRAM-SHA-X name of m.
func (m *Mechanism) Name() string {
	return m.name
}

// Hash returns the verifier of pass in the PostgreSQL format:
//
//	SCRAM-SHA-X$<iters>:<b64-salt>$<b64-StoredKey>:<b64-ServerKey>
//
// An empty salt is replaced by a random one; otherwise it must be in
// base64. The password is normalized by SASLprep first.
func (m *Mechanism) Hash(pass, salt string, iters int) (string, error) {
	if pass == "" {
		return "", errors.New("password must be non-empty")
	}
	if iters < MinIterations {
		return "", fmt.Errorf(
			"iters (%d) is less than %d", iters, MinIterations,
		)
	}
	if salt == "" {
		b := make([]byte, m.keySize)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("creating random salt: %w", err)
		}
		salt = base64.StdEncoding.EncodeToString(b)
	}
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("decoding base64 salt: %w", err)
	}
	c, err := m.gen.NewClient("", pass, "")
	if err != nil {
		return "", fmt.Errorf("preparing password: %w", err)
	}
	creds := c.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(rawSalt),
		Iters: iters,
	})
	enc := base64.StdEncoding.EncodeToString
	return fmt.Sprintf(
		"%s$%d:%s$%s:%s", m.name, iters, salt,
		enc(creds.StoredKey), enc(creds.ServerKey),
	), nil
}
