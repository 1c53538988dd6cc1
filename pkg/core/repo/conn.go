// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// TxHandler is a callback which receives an open transaction.
// Returning nil commits the transaction, while returning an error
// (or panicking) rolls it back.
type TxHandler func(context.Context, Tx) error

// Conn represents a single database connection which is taken from
// a Pool. Statements which are executed directly on a Conn run in
// their own auto-committed transactions.
// It is unsafe to be used concurrently.
type Conn interface {
	Queryer

	// Tx begins a transaction, passes it to the handler, and then
	// commits or rolls it back based on the handler outcome.
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
