// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema is a facade for database schema verifiers which can
// be used for testing purposes. The verification logic depends on the
// schema major version, so each major version has its own schN
// sub-package and the NewVerifier picks one of them.
package schema

import (
	"context"
	"fmt"
	"testing"

	"github.com/momeni/boat-rental/internal/test/schema/sch1"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Verifier interface presents the database schema verifier expectations
// as they are provided by each major version specific implementation.
type Verifier interface {
	// VerifySchema verifies the database schema (such as tables)
	// using its wrapped database connection. The `t` argument is
	// marked as failed if the schema was invalid.
	VerifySchema(ctx context.Context, t *testing.T)

	// VerifyDevData verifies the schema contents assuming that the
	// development suitable data items were inserted there. Only
	// presence of development data and not the absence of extra data
	// rows will be checked.
	VerifyDevData(ctx context.Context, t *testing.T)

	// VerifyProdData verifies the schema contents assuming that the
	// production suitable initialization was performed.
	VerifyProdData(ctx context.Context, t *testing.T)
}

// NewVerifier creates a new schema Verifier instance for the given
// schema major version, wrapping the `c` database connection.
func NewVerifier(c repo.Conn, major uint) (Verifier, error) {
	switch major {
	case sch1.Major:
		return sch1.New(c), nil
	default:
		return nil, fmt.Errorf("unsupported major: %d", major)
	}
}
