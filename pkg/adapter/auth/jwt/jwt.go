// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package jwt implements the bearer.IssueVerifier interface with HMAC
// signed JSON Web Tokens using the github.com/golang-jwt/jwt/v5 module.
package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/momeni/boat-rental/pkg/core/bearer"
	"github.com/momeni/boat-rental/pkg/core/model"
)

// MinSecretLength is the least accepted length of the signing secret.
const MinSecretLength = 32

// DefaultTTL is the lifetime of the issued tokens.
const DefaultTTL = 24 * time.Hour

// Claims of the issued tokens. The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	AccountType model.AccountType `json:"account_type"`
}

// Tokens issues and verifies HS256 tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes a Tokens instance.
type Option func(ts *Tokens) error

// WithTTL sets the lifetime of the issued tokens.
func WithTTL(ttl time.Duration) Option {
	return func(ts *Tokens) error {
		if ttl <= 0 {
			return fmt.Errorf("ttl (%v) must be positive", ttl)
		}
		ts.ttl = ttl
		return nil
	}
}

// WithClock replaces the time source of the issued and verified
// tokens, so expiration may be tested.
func WithClock(now func() time.Time) Option {
	return func(ts *Tokens) error {
		ts.now = now
		return nil
	}
}

// New creates a Tokens instance. The same secret and issuer must be
// used by all replicas of the server.
func New(secret, issuer string, opts ...Option) (*Tokens, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf(
			"secret must have at least %d bytes", MinSecretLength,
		)
	}
	ts := &Tokens{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(ts); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

func (ts *Tokens) Issue(id model.Identity) (string, error) {
	now := ts.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		AccountType: id.AccountType,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return s, nil
}

// Verify checks the signature, issuer, and expiration of token. All
// failures wrap bearer.ErrInvalidToken.
func (ts *Tokens) Verify(token string) (model.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (any, error) { return ts.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ts.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %w", bearer.ErrInvalidToken, err)
	}
	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || uid <= 0 {
		return model.Identity{}, fmt.Errorf(
			"%w: bad subject %q", bearer.ErrInvalidToken, claims.Subject,
		)
	}
	at, err := model.ParseAccountType(string(claims.AccountType))
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %w", bearer.ErrInvalidToken, err)
	}
	return model.Identity{UserID: uid, AccountType: at}, nil
}
