// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Queryer is the type constraint of the generic query functions of
// the repository packages. It is satisfied by both of *Conn and *Tx,
// so each query may be implemented once and run in both contexts.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORM(ctx context.Context) *gorm.DB
}
