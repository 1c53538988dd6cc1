// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"strings"
)

// TripType enumerates the kinds of trips which a boat may offer.
// The web forms identify them by numeric ids (1 to 4) while the boats
// table keeps their short codes (comma-joined for a set of them).
type TripType int

// Valid values for the TripType enum. Their numeric values match the
// ids which are used by the web forms.
const (
	TripTypeInvalid TripType = iota // zero value is invalid

	TripTypeShort     // a few hours trip
	TripTypeDay       // whole day trip
	TripTypeSunrise   // early morning trip
	TripTypeOvernight // multi-day trip with overnight stay
)

// ErrUnknownTripType indicates that a trip type id or code could not
// be recognized.
var ErrUnknownTripType = errors.New("unknown trip type")

// TripTypeError indicates an invalid TripType numeric value.
type TripTypeError int

func (e TripTypeError) Error() string {
	return fmt.Sprintf("invalid trip type: %d", e)
}

// Validate returns nil if TripType value is valid.
func (t TripType) Validate() error {
	switch t {
	case TripTypeShort, TripTypeDay, TripTypeSunrise, TripTypeOvernight:
		return nil
	default:
		return TripTypeError(t)
	}
}

// String returns the short code of t, as persisted in the database.
// Invalid trip types cause a panic.
func (t TripType) String() string {
	switch t {
	case TripTypeShort:
		return "short"
	case TripTypeDay:
		return "day"
	case TripTypeSunrise:
		return "sunrise"
	case TripTypeOvernight:
		return "overnight"
	default:
		panic(TripTypeError(t))
	}
}

// MarshalText serializes t as its short code.
func (t TripType) MarshalText() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return []byte(t.String()), nil
}

// UnmarshalText accepts a short code.
func (t *TripType) UnmarshalText(b []byte) error {
	tt, err := ParseTripType(string(b))
	if err != nil {
		return err
	}
	*t = tt
	return nil
}

// ParseTripType parses a short code such as "sunrise".
func ParseTripType(code string) (TripType, error) {
	switch strings.TrimSpace(code) {
	case "short":
		return TripTypeShort, nil
	case "day":
		return TripTypeDay, nil
	case "sunrise":
		return TripTypeSunrise, nil
	case "overnight":
		return TripTypeOvernight, nil
	default:
		return TripTypeInvalid, ErrUnknownTripType
	}
}

// TripTypeFromID maps the numeric form ids (1 to 4) to TripType.
func TripTypeFromID(id int) (TripType, error) {
	t := TripType(id)
	if t.Validate() != nil {
		return TripTypeInvalid, ErrUnknownTripType
	}
	return t, nil
}

// TripTypes is a set of trip types, kept in their ascending order
// without duplicates.
type TripTypes []TripType

// NewTripTypes normalizes the given trip types, sorting them and
// dropping the duplicates. Invalid entries cause an error.
func NewTripTypes(tts ...TripType) (TripTypes, error) {
	var seen [TripTypeOvernight + 1]bool
	for _, t := range tts {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		seen[t] = true
	}
	res := make(TripTypes, 0, len(tts))
	for t := TripTypeShort; t <= TripTypeOvernight; t++ {
		if seen[t] {
			res = append(res, t)
		}
	}
	return res, nil
}

// Join returns the comma-joined short codes, e.g., "short,sunrise".
func (tts TripTypes) Join() string {
	codes := make([]string, len(tts))
	for i, t := range tts {
		codes[i] = t.String()
	}
	return strings.Join(codes, ",")
}

// Contains reports if t belongs to the tts set.
func (tts TripTypes) Contains(t TripType) bool {
	for _, tt := range tts {
		if tt == t {
			return true
		}
	}
	return false
}

// ParseTripTypes parses a comma-joined list of short codes as it is
// stored in the boats table. An empty string yields an empty set.
func ParseTripTypes(joined string) (TripTypes, error) {
	if strings.TrimSpace(joined) == "" {
		return TripTypes{}, nil
	}
	parts := strings.Split(joined, ",")
	tts := make([]TripType, 0, len(parts))
	for _, p := range parts {
		t, err := ParseTripType(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		tts = append(tts, t)
	}
	return NewTripTypes(tts...)
}
