// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// OutOfRangeError indicates that the Name setting had a Value which
// was out of its acceptable [Min, Max] range.
type OutOfRangeError[T cmp.Ordered] struct {
	Name     string
	Value    T
	Min, Max T
}

// Error implements error interface and returns a string reporting that
// minimum or maximum boundary value was not respected.
func (e *OutOfRangeError[T]) Error() string {
	bound := "greater than max"
	if e.Value < e.Min {
		bound = "less than min"
	}
	return fmt.Sprintf(
		"%s (%v) is %s, expecting [%v, %v]",
		e.Name, e.Value, bound, e.Min, e.Max,
	)
}

// VerifyRange verifies that the name setting is either nil or is
// within the inclusive [minb, maxb] range.
func VerifyRange[T cmp.Ordered](name string, value *T, minb, maxb T) error {
	if minb > maxb {
		panic(fmt.Sprintf("invalid range for %s: [%v, %v]", name, minb, maxb))
	}
	if value == nil {
		return nil
	}
	if v := *value; v < minb || v > maxb {
		return &OutOfRangeError[T]{Name: name, Value: v, Min: minb, Max: maxb}
	}
	return nil
}
