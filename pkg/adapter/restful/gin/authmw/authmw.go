// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authmw provides the bearer token authentication middlewares.
// Authenticated identities are kept in the gin context, so resources
// may pass them to the use cases for their ownership checks.
package authmw

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/boat-rental/pkg/core/bearer"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
)

const identityKey = "brweb.identity"

var (
	errMissingToken = errors.New("bearer token is required")
	errForbidden    = errors.New("account type is not permitted")
)

// Auth creates authentication middlewares using a bearer.Verifier.
type Auth struct {
	v bearer.Verifier
}

// New instantiates an Auth which verifies tokens using v.
func New(v bearer.Verifier) *Auth {
	return &Auth{v: v}
}

// Require returns a middleware which rejects requests without a valid
// bearer token with the 401 status. If types are given, identities of
// other account types are rejected with the 403 status.
func (a *Auth) Require(types ...model.AccountType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := a.authenticate(c)
		if err == nil && len(types) > 0 && !permitted(id, types) {
			err = cerr.Authorization(errForbidden)
		}
		if err != nil {
			serdser.SerErr(c, err)
			c.Abort()
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func (a *Auth) authenticate(c *gin.Context) (model.Identity, error) {
	h := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return model.Identity{}, cerr.Authentication(errMissingToken)
	}
	id, err := a.v.Verify(strings.TrimSpace(token))
	if err != nil {
		return model.Identity{}, cerr.Authentication(bearer.ErrInvalidToken)
	}
	return id, nil
}

func permitted(id model.Identity, types []model.AccountType) bool {
	for _, t := range types {
		if id.AccountType == t {
			return true
		}
	}
	return false
}

// Identity returns the identity which was stored by the Require
// middleware. It panics if Require was not used for the route.
func Identity(c *gin.Context) model.Identity {
	return c.MustGet(identityKey).(model.Identity)
}
