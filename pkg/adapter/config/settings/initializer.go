// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings contains the helpers which are shared by the
// config sections for filling the default values and validation of
// the optional (pointer) settings.
package settings

// Default makes the (*t) pointer, if it is nil, to point to a newly
// allocated T instance which is initialized by the v value.
// If the (*t) pointer was not nil, Default will perform no action.
func Default[T any](t **T, v T) {
	if (*t) != nil {
		return
	}
	(*t) = &v
}

// Enabled reports if b is set and is true.
func Enabled(b *bool) bool {
	return b != nil && *b
}
