// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"time"
)

// RentalStatus is the state of a rental. A rental starts as ongoing
// and becomes completed by the nightly sweep once its end date passes.
// Cancellation deletes the rental, so it has no status.
type RentalStatus string

// Valid values for the RentalStatus enum.
const (
	RentalOngoing   RentalStatus = "ongoing"
	RentalCompleted RentalStatus = "completed"
)

// Rental reserves a boat for a range of days for one customer.
// StartTime and EndTime are optional HH:MM times of day.
type Rental struct {
	ID         int64        `json:"rental_id"`
	BoatID     int64        `json:"boat_id"`
	CustomerID int64        `json:"customer_id"`
	StartDate  Date         `json:"start_date"`
	EndDate    Date         `json:"end_date"`
	StartTime  *string      `json:"start_time"`
	EndTime    *string      `json:"end_time"`
	Price      float64      `json:"rental_price"`
	Status     RentalStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Range returns the inclusive days range of r.
func (r *Rental) Range() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}

// RentalView is a rental as listed in a customer dashboard.
type RentalView struct {
	Rental
	BoatName  string `json:"boat_name"`
	Location  string `json:"location"`
	HasReview bool   `json:"has_review"`
}

// BookingContacts contains the details which are included in a booking
// confirmation email: the customer address, the boat, the business
// owner contact information, and its captains.
type BookingContacts struct {
	CustomerEmail string
	CustomerName  string
	Owner         OwnerContact
	Location      string
	Captains      []*Captain
}

// ErrInvalidTime indicates a time of day which is not HH:MM.
var ErrInvalidTime = errors.New("time must be formatted as HH:MM")

// ParseTimeOfDay validates s as HH:MM (or HH:MM:SS) and returns
// its HH:MM form.
func ParseTimeOfDay(s string) (string, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()), nil
		}
	}
	return "", ErrInvalidTime
}
