// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"log/slog"

	"github.com/momeni/boat-rental/pkg/core/cerr"
)

// Valuer returns an Attr for the given slog.LogValuer value.
func Valuer(key string, value slog.LogValuer) slog.Attr {
	return slog.Any(key, value)
}

// Err returns an Attr for the given error value.
// Storage and notifier errors hide their causes from the clients, but
// the logs should contain them, so the hidden cause is appended.
// If error value is nil, the constant "no-error" value will be used.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	msg := value.Error()
	if cause := cerr.Cause(value); cause != value && cause != nil {
		msg += ": " + cause.Error()
	}
	return slog.String(key, msg)
}

// ID returns an Attr for a numeric entity identifier such as a boat_id.
func ID(key string, id int64) slog.Attr {
	return slog.Int64(key, id)
}
