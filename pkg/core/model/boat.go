// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"strings"
	"time"
)

// BoatAttrs holds the boat attributes which are entered by its owner
// during registration or edit.
type BoatAttrs struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	TripTypes    TripTypes `json:"trip_types"`
	PricePerHour float64   `json:"price_per_hour"`
	PricePerDay  float64   `json:"price_per_day"`
	Capacity     int       `json:"capacity"`
	Type         string    `json:"boat_type"`
	Location     string    `json:"location"`
}

// Validate reports the first missing or invalid attribute.
func (a BoatAttrs) Validate() error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return errors.New("name is required")
	case strings.TrimSpace(a.Description) == "":
		return errors.New("description is required")
	case len(a.TripTypes) == 0:
		return errors.New("at least one trip type is required")
	case a.PricePerHour <= 0 && a.PricePerDay <= 0:
		return errors.New("an hourly or daily price is required")
	case a.PricePerHour < 0 || a.PricePerDay < 0:
		return errors.New("prices may not be negative")
	case a.Capacity <= 0:
		return errors.New("capacity must be positive")
	case strings.TrimSpace(a.Type) == "":
		return errors.New("boat_type is required")
	case strings.TrimSpace(a.Location) == "":
		return errors.New("location is required")
	}
	for _, t := range a.TripTypes {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Boat is a listing which is owned by exactly one business.
// Photos and LicenseURL keep the public URLs of the stored objects.
type Boat struct {
	ID         int64 `json:"boat_id"`
	BusinessID int64 `json:"business_id"`
	BoatAttrs
	Photos     []string           `json:"photos"`
	LicenseURL string             `json:"license_url"`
	Status     VerificationStatus `json:"verification_status,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// VerificationStatus is the state of a boat listing verification.
// Rejected boats are deleted, so they have no status.
type VerificationStatus string

// Valid values for the VerificationStatus enum.
const (
	VerificationInReview VerificationStatus = "inReview"
	VerificationApproved VerificationStatus = "approved"
)

// Verification is the one-to-one companion of a boat which records
// the administrator decision about it.
type Verification struct {
	BoatID    int64              `json:"boat_id"`
	Status    VerificationStatus `json:"verification_status"`
	Approved  bool               `json:"boat_approvement"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// PendingReview is a verification row which is waiting for an admin,
// together with the information which is needed for its review.
type PendingReview struct {
	BoatID       int64      `json:"boat_id"`
	BoatName     string     `json:"boat_name"`
	BusinessID   int64      `json:"business_id"`
	BusinessName string     `json:"business_name"`
	LicenseURL   string     `json:"license_url"`
	Photos       []string   `json:"photos"`
	Captains     []*Captain `json:"captains"`
}

// OwnerContact is the result of following a Boat->Business->User
// chain. It is used to notify the owner of a boat.
type OwnerContact struct {
	BoatID       int64
	BoatName     string
	BusinessID   int64
	BusinessName string
	UserID       int64
	Email        string
	Phone        string
}

// BoatFilter narrows down the catalog search. Zero-valued fields are
// ignored.
type BoatFilter struct {
	Location    string
	Type        string
	MinCapacity int
	TripType    TripType
}
