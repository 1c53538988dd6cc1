// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// ConnHandler is a callback which receives a connection from a Pool.
// The connection is released when the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool which may be shared by
// all request handlers. It is safe to be used concurrently.
type Pool interface {
	// Conn acquires a connection and passes it to the handler.
	Conn(ctx context.Context, handler ConnHandler) error

	// Close releases all idle connections of the pool.
	Close() error
}
