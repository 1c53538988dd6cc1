// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/momeni/boat-rental/pkg/adapter/auth/jwt"
	"github.com/momeni/boat-rental/pkg/adapter/config/settings"
	"github.com/momeni/boat-rental/pkg/adapter/hash/bcrypt"
)

// DefaultIssuer is the issuer of bearer tokens when it is not set.
const DefaultIssuer = "brweb"

// Auth contains the bearer tokens and password hashing settings.
type Auth struct {
	// SecretFile is the path of a file which contains the JWT signing
	// secret. Surrounding white spaces of its content are ignored.
	SecretFile string             `yaml:"jwt-secret-file"`
	Issuer     string             `yaml:"issuer"`
	TokenTTL   *settings.Duration `yaml:"token-ttl"`
	BcryptCost *int               `yaml:"bcrypt-cost"`
}

// NewTokens reads the signing secret and instantiates the bearer
// tokens issuer and verifier.
func (a Auth) NewTokens() (*jwt.Tokens, error) {
	b, err := os.ReadFile(a.SecretFile)
	if err != nil {
		return nil, fmt.Errorf("reading jwt secret: %w", err)
	}
	return jwt.New(
		strings.TrimSpace(string(b)), a.Issuer,
		jwt.WithTTL(a.TokenTTL.Std()),
	)
}

// NewHasher instantiates the users password hasher.
func (a Auth) NewHasher() (*bcrypt.Hasher, error) {
	return bcrypt.New(*a.BcryptCost)
}

// ValidateAndNormalize fills the default values of `a` settings and
// verifies them.
func (a *Auth) ValidateAndNormalize() error {
	if a.SecretFile == "" {
		return errors.New("jwt-secret-file is required")
	}
	if a.Issuer == "" {
		a.Issuer = DefaultIssuer
	}
	settings.Default(&a.TokenTTL, settings.Duration(jwt.DefaultTTL))
	settings.Default(&a.BcryptCost, bcrypt.DefaultCost)
	if err := settings.VerifyRange(
		"token-ttl", a.TokenTTL,
		settings.Duration(5*time.Minute),
		settings.Duration(30*24*time.Hour),
	); err != nil {
		return err
	}
	if _, err := a.NewHasher(); err != nil {
		return fmt.Errorf("bcrypt-cost: %w", err)
	}
	return nil
}
