// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rentalsrs realizes the rentals resource, accepting the
// booking, cancellation, and review REST APIs and delegating them to
// the rentals use case.
package rentalsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/usecase/rentaluc"
)

type resource struct {
	rentals *rentaluc.UseCase
}

// Register instantiates a resource adapting the rentals use case
// instance with the relevant REST APIs including:
//  1. GET request to /rentals/unavailable-dates?boat_id=
//     in order to list the date ranges which are already booked,
//  2. POST request to /rentals/create in order to book a boat,
//  3. DELETE request to /rentals/:rental_id in order to cancel it,
//  4. GET request to /rentals/mine in order to list own rentals,
//  5. POST request to /rentals/review in order to review a rental,
//  6. DELETE request to /rentals/review/:review_id
//     in order to delete a review,
//  7. GET request to /boats/:boat_id/reviews in order to list the
//     reviews of a boat.
//
// The customer of a booking is always the authenticated user. Only
// customer accounts may book boats and review their rentals.
func Register(r *gin.RouterGroup, a *authmw.Auth, rentals *rentaluc.UseCase) {
	rs := &resource{rentals: rentals}
	auth := a.Require()
	customer := a.Require(model.AccountCustomer)
	r.GET("rentals/unavailable-dates", rs.UnavailableDates)
	r.POST("rentals/create", customer, rs.CreateRental)
	r.DELETE("rentals/:rental_id", auth, rs.CancelRental)
	r.GET("rentals/mine", auth, rs.ListMyRentals)
	r.POST("rentals/review", customer, rs.SubmitReview)
	r.DELETE("rentals/review/:review_id", auth, rs.DeleteReview)
	r.GET("boats/:boat_id/reviews", rs.ListBoatReviews)
}

func (rs *resource) UnavailableDates(c *gin.Context) {
	boatID := rs.DserUnavailableDatesReq(c)
	if boatID == 0 {
		return
	}
	drs, err := rs.rentals.UnavailableDates(c, boatID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boat_id": boatID, "dates": drs})
}

func (rs *resource) CreateRental(c *gin.Context) {
	req := rs.DserCreateRentalReq(c)
	if req == nil {
		return
	}
	rentalID, err := rs.rentals.Create(c, authmw.Identity(c), req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rental_id": rentalID})
}

func (rs *resource) CancelRental(c *gin.Context) {
	rentalID, ok := serdser.PathID(c, "rental_id")
	if !ok {
		return
	}
	if err := rs.rentals.Cancel(c, authmw.Identity(c), rentalID); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) ListMyRentals(c *gin.Context) {
	rvs, err := rs.rentals.ListCustomerRentals(c, authmw.Identity(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rentals": rvs})
}

func (rs *resource) SubmitReview(c *gin.Context) {
	req := rs.DserReviewReq(c)
	if req == nil {
		return
	}
	reviewID, err := rs.rentals.SubmitReview(c, authmw.Identity(c), req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review_id": reviewID})
}

func (rs *resource) DeleteReview(c *gin.Context) {
	reviewID, ok := serdser.PathID(c, "review_id")
	if !ok {
		return
	}
	if err := rs.rentals.DeleteReview(c, authmw.Identity(c), reviewID); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) ListBoatReviews(c *gin.Context) {
	boatID, ok := serdser.PathID(c, "boat_id")
	if !ok {
		return
	}
	rvs, err := rs.rentals.ListBoatReviews(c, boatID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": rvs})
}
