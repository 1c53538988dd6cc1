// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package verificationrs realizes the verification resource, allowing
// administrators to review the registered boats and approve or reject
// them using the listings use case.
package verificationrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/usecase/listinguc"
)

type resource struct {
	listings *listinguc.UseCase
}

type approveReq struct {
	BoatID int64 `json:"boat_id" binding:"required,gt=0"`
}

type rejectReq struct {
	BoatID int64  `json:"boat_id" binding:"required,gt=0"`
	Reason string `json:"reason"`
}

// Register instantiates a resource adapting the listings use case
// instance with the admin only REST APIs including:
//  1. GET request to /verification/inReview
//     in order to list the boats which are waiting for a review,
//  2. POST request to /verification/approve with a boat_id
//     in order to approve a boat and notify its owner,
//  3. POST request to /verification/reject with boat_id and reason
//     in order to delete a boat and notify its owner.
//
// The approve and reject responses report if the owner was notified.
// A notification failure does not fail them.
func Register(r *gin.RouterGroup, a *authmw.Auth, listings *listinguc.UseCase) {
	rs := &resource{listings: listings}
	g := r.Group("verification", a.Require(model.AccountAdmin))
	g.GET("inReview", rs.ListInReview)
	g.POST("approve", rs.Approve)
	g.POST("reject", rs.Reject)
}

func (rs *resource) ListInReview(c *gin.Context) {
	prs, err := rs.listings.ListInReview(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boats": prs})
}

func (rs *resource) Approve(c *gin.Context) {
	req := &approveReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	notified, err := rs.listings.Approve(c, req.BoatID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"boat_id":             req.BoatID,
		"verification_status": model.VerificationApproved,
		"notified":            notified,
	})
}

func (rs *resource) Reject(c *gin.Context) {
	req := &rejectReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	notified, err := rs.listings.Reject(c, req.BoatID, req.Reason)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"boat_id":  req.BoatID,
		"deleted":  true,
		"notified": notified,
	})
}
