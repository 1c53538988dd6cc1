// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package captainsrs realizes the captains resource of the business
// accounts, delegating its REST APIs to the captains use case.
package captainsrs

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/usecase/captainuc"
)

type resource struct {
	captains *captainuc.UseCase
}

type rawAddCaptainReq struct {
	FullName string                `form:"full_name" binding:"required,max=200"`
	Phone    string                `form:"phone" binding:"max=40"`
	License  *multipart.FileHeader `form:"license" binding:"required"`
}

// Register instantiates a resource adapting the captains use case
// instance with the business only REST APIs including:
//  1. POST request to /business/captains (multipart: full_name, phone,
//     and license) in order to add a captain,
//  2. GET request to /business/captains in order to list them,
//  3. DELETE request to /business/captains/:captain_id
//     in order to remove a captain.
func Register(r *gin.RouterGroup, a *authmw.Auth, captains *captainuc.UseCase) {
	rs := &resource{captains: captains}
	g := r.Group("business/captains", a.Require(model.AccountBusiness))
	g.POST("", rs.AddCaptain)
	g.GET("", rs.ListCaptains)
	g.DELETE(":captain_id", rs.RemoveCaptain)
}

func (rs *resource) AddCaptain(c *gin.Context) {
	req := &rawAddCaptainReq{}
	if ok := serdser.Bind(c, req, binding.FormMultipart); !ok {
		return
	}
	license := &model.File{
		Name:        req.License.Filename,
		ContentType: req.License.Header.Get("Content-Type"),
		Size:        req.License.Size,
		Open: func() (io.ReadCloser, error) {
			return req.License.Open()
		},
	}
	captain, err := rs.captains.Add(
		c, authmw.Identity(c),
		&captainuc.AddRequest{FullName: req.FullName, Phone: req.Phone},
		license,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, captain)
}

func (rs *resource) ListCaptains(c *gin.Context) {
	cs, err := rs.captains.ListMine(c, authmw.Identity(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"captains": cs})
}

func (rs *resource) RemoveCaptain(c *gin.Context) {
	captainID, ok := serdser.PathID(c, "captain_id")
	if !ok {
		return
	}
	if err := rs.captains.Remove(c, authmw.Identity(c), captainID); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
