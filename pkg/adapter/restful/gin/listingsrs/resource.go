// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package listingsrs realizes the boats resource, accepting the boat
// registration, catalog, and owner REST APIs and delegating them to
// the listings use case.
package listingsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/usecase/listinguc"
)

type resource struct {
	listings *listinguc.UseCase
}

// Register instantiates a resource adapting the listings use case
// instance with the relevant REST APIs including:
//  1. POST request to /auth/registerBoat (multipart, business account)
//     in order to register a boat along with its photos and license,
//  2. GET request to /boats in order to search the approved boats,
//  3. GET request to /boats/:boat_id in order to fetch one boat,
//  4. GET request to /business/boats in order to list the boats of
//     the authenticated business,
//  5. PUT request to /boats/:boat_id in order to update a boat,
//  6. PUT request to /boats/:boat_id/license (multipart) in order to
//     replace the license document of a boat,
//  7. DELETE request to /boats/:boat_id in order to delete a boat.
//
// Boats may be modified by their owner business or an admin.
func Register(r *gin.RouterGroup, a *authmw.Auth, listings *listinguc.UseCase) {
	rs := &resource{listings: listings}
	business := a.Require(model.AccountBusiness)
	owner := a.Require(model.AccountBusiness, model.AccountAdmin)
	r.POST("auth/registerBoat", business, rs.RegisterBoat)
	r.GET("boats", rs.SearchBoats)
	r.GET("boats/:boat_id", rs.GetBoat)
	r.GET("business/boats", business, rs.ListBusinessBoats)
	r.PUT("boats/:boat_id", owner, rs.UpdateBoat)
	r.PUT("boats/:boat_id/license", owner, rs.ReplaceLicense)
	r.DELETE("boats/:boat_id", owner, rs.DeleteBoat)
}

func (rs *resource) RegisterBoat(c *gin.Context) {
	req := rs.DserRegisterBoatReq(c)
	if req == nil {
		return
	}
	biz, err := rs.listings.BusinessOf(c, authmw.Identity(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	boat, err := rs.listings.Register(
		c, biz.ID, req.Attrs, req.Photos, req.License,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, boat)
}

func (rs *resource) SearchBoats(c *gin.Context) {
	f := rs.DserSearchBoatsReq(c)
	if f == nil {
		return
	}
	boats, err := rs.listings.Search(c, *f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boats": boats})
}

func (rs *resource) GetBoat(c *gin.Context) {
	boatID, ok := serdser.PathID(c, "boat_id")
	if !ok {
		return
	}
	boat, err := rs.listings.Get(c, boatID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, boat)
}

func (rs *resource) ListBusinessBoats(c *gin.Context) {
	biz, err := rs.listings.BusinessOf(c, authmw.Identity(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	boats, err := rs.listings.ListByBusiness(c, biz.ID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boats": boats})
}

func (rs *resource) UpdateBoat(c *gin.Context) {
	boatID, ok := serdser.PathID(c, "boat_id")
	if !ok {
		return
	}
	attrs := rs.DserUpdateBoatReq(c)
	if attrs == nil {
		return
	}
	boat, err := rs.listings.Update(c, authmw.Identity(c), boatID, attrs)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, boat)
}

func (rs *resource) ReplaceLicense(c *gin.Context) {
	boatID, ok := serdser.PathID(c, "boat_id")
	if !ok {
		return
	}
	license := rs.DserLicenseReq(c)
	if license == nil {
		return
	}
	boat, err := rs.listings.ReplaceLicense(
		c, authmw.Identity(c), boatID, license,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, boat)
}

func (rs *resource) DeleteBoat(c *gin.Context) {
	boatID, ok := serdser.PathID(c, "boat_id")
	if !ok {
		return
	}
	if err := rs.listings.Delete(c, authmw.Identity(c), boatID); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
