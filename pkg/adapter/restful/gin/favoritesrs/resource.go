// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package favoritesrs realizes the favorite boats resource.
package favoritesrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/boat-rental/pkg/core/usecase/favoriteuc"
)

type resource struct {
	favorites *favoriteuc.UseCase
}

// Register instantiates a resource adapting the favorites use case
// instance with the relevant REST APIs including:
//  1. POST request to /favorites/:boat_id in order to toggle the
//     favorite state of a boat for the authenticated user,
//  2. GET request to /favorites in order to list the favorite boats.
func Register(r *gin.RouterGroup, a *authmw.Auth, favorites *favoriteuc.UseCase) {
	rs := &resource{favorites: favorites}
	g := r.Group("favorites", a.Require())
	g.POST(":boat_id", rs.ToggleFavorite)
	g.GET("", rs.ListFavorites)
}

func (rs *resource) ToggleFavorite(c *gin.Context) {
	boatID, ok := serdser.PathID(c, "boat_id")
	if !ok {
		return
	}
	favorited, err := rs.favorites.Toggle(c, authmw.Identity(c), boatID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boat_id": boatID, "favorite": favorited})
}

func (rs *resource) ListFavorites(c *gin.Context) {
	boats, err := rs.favorites.List(c, authmw.Identity(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boats": boats})
}
