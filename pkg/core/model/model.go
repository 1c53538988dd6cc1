// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models of the boat rental marketplace,
// such as boats, their verification records, businesses, captains,
// users, rentals, and reviews. This layer may not depend on outter
// layers, while all other layers may depend on it.
// Models carry json tags because they are reported by the REST API
// as they are. Database specific structs (having gorm tags) are kept
// in the repository packages and converted to these models.
package model

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// AccountType specifies which dashboards and APIs a user may reach.
// Each account has exactly one type.
type AccountType string

// Valid values for the AccountType enum.
const (
	AccountCustomer AccountType = "customer"
	AccountBusiness AccountType = "business"
	AccountAdmin    AccountType = "admin"
)

// ErrUnknownAccountType indicates an unknown account type string.
var ErrUnknownAccountType = errors.New("unknown account type")

// ParseAccountType validates and converts s to an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch at := AccountType(s); at {
	case AccountCustomer, AccountBusiness, AccountAdmin:
		return at, nil
	default:
		return "", ErrUnknownAccountType
	}
}

// User models an account of the marketplace.
type User struct {
	ID            int64       `json:"user_id"`
	Email         string      `json:"email"`
	FullName      string      `json:"full_name"`
	Phone         string      `json:"phone"`
	AccountType   AccountType `json:"account_type"`
	EmailVerified bool        `json:"email_verified"`
	PasswordHash  string      `json:"-"`
}

// Identity is the authenticated caller as described by a bearer token.
// Use cases trust it for ownership checks, e.g., the customer of a new
// rental is always the Identity.UserID and never a request body field.
type Identity struct {
	UserID      int64
	AccountType AccountType
}

// IsAdmin reports if id belongs to an administrator.
func (id Identity) IsAdmin() bool {
	return id.AccountType == AccountAdmin
}

// Business is a boat owning company which is linked to exactly one
// user account of the business type.
type Business struct {
	ID      int64  `json:"business_id"`
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Captain belongs to a business. Its license is shown to the
// administrators when they review the boats of that business.
type Captain struct {
	ID         int64  `json:"captain_id"`
	BusinessID int64  `json:"business_id"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	LicenseURL string `json:"license_url"`
}

// File is an uploaded file which should be passed to the object store
// with no change in its bytes.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Review is the feedback of a customer about a completed rental.
type Review struct {
	ID        int64     `json:"review_id"`
	RentalID  int64     `json:"rental_id"`
	BoatID    int64     `json:"boat_id"`
	UserID    int64     `json:"user_id"`
	Ratings   Ratings   `json:"ratings"`
	Text      string    `json:"review_text"`
	CreatedAt time.Time `json:"created_at"`
}

// Ratings holds the three rating dimensions of a review, each one
// in the [1, 5] range.
type Ratings struct {
	General     int `json:"general_rating"`
	Driver      int `json:"driver_rating"`
	Cleanliness int `json:"cleanliness_rating"`
}

// Validate returns an error if any rating is out of range.
func (r Ratings) Validate() error {
	for _, v := range []struct {
		name  string
		value int
	}{
		{"general_rating", r.General},
		{"driver_rating", r.Driver},
		{"cleanliness_rating", r.Cleanliness},
	} {
		if v.value < 1 || v.value > 5 {
			return fmt.Errorf("%s must be in [1, 5]", v.name)
		}
	}
	return nil
}

// TokenKind distinguishes the one-time tokens which are emailed to
// the users.
type TokenKind string

// Valid values for the TokenKind enum.
const (
	TokenEmailVerification TokenKind = "email-verification"
	TokenPasswordReset     TokenKind = "password-reset"
)

// Token is a durable one-time token. It is consumed (deleted) by its
// first successful use and may not be used after ExpiresAt.
type Token struct {
	Kind      TokenKind
	Value     string
	UserID    int64
	ExpiresAt time.Time
}
