// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/boat-rental/pkg/core/model"
)

// Captains is the repository of the business captains.
type Captains interface {
	Conn(Conn) CaptainsConnQueryer
	Tx(Tx) CaptainsTxQueryer
}

type CaptainsConnQueryer interface {
	CaptainsQueryer
}

type CaptainsTxQueryer interface {
	CaptainsQueryer
}

type CaptainsQueryer interface {
	Insert(ctx context.Context, c *model.Captain) (int64, error)
	Captain(ctx context.Context, captainID int64) (*model.Captain, error)
	List(ctx context.Context, businessID int64) ([]*model.Captain, error)
	Delete(ctx context.Context, captainID int64) error
}
