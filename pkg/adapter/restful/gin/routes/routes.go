// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates their
// registration based on the instantiated use cases. The use cases are
// created by the config package (see config.Config.NewUseCases) and
// passed here, so they may be replaced by fakes in tests.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/authrs"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/captainsrs"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/favoritesrs"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/listingsrs"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/rentalsrs"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/verificationrs"
	"github.com/momeni/boat-rental/pkg/core/bearer"
	"github.com/momeni/boat-rental/pkg/core/usecase/accountuc"
	"github.com/momeni/boat-rental/pkg/core/usecase/captainuc"
	"github.com/momeni/boat-rental/pkg/core/usecase/favoriteuc"
	"github.com/momeni/boat-rental/pkg/core/usecase/listinguc"
	"github.com/momeni/boat-rental/pkg/core/usecase/rentaluc"
)

// APIPrefix is the path prefix of all REST APIs.
const APIPrefix = "/api"

// UseCases holds the use case instances which are adapted by the
// resource packages.
type UseCases struct {
	Accounts  *accountuc.UseCase
	Listings  *listinguc.UseCase
	Rentals   *rentaluc.UseCase
	Captains  *captainuc.UseCase
	Favorites *favoriteuc.UseCase
}

// Register instantiates the resources, named like rentalsrs, which
// adapt the ucs use cases with the REST APIs and registers them as
// request handlers using the e gin-gonic engine instance.
// Bearer tokens are verified by v for the authenticated routes.
func Register(e *gin.Engine, v bearer.Verifier, ucs *UseCases) {
	a := authmw.New(v)
	r := e.Group(APIPrefix)
	authrs.Register(r, ucs.Accounts)
	listingsrs.Register(r, a, ucs.Listings)
	verificationrs.Register(r, a, ucs.Listings)
	rentalsrs.Register(r, a, ucs.Rentals)
	captainsrs.Register(r, a, ucs.Captains)
	favoritesrs.Register(r, a, ucs.Favorites)
}

// RegisterMetrics serves the prometheus metrics using h at /metrics.
func RegisterMetrics(e *gin.Engine, h http.Handler) {
	e.GET("/metrics", gin.WrapH(h))
}

// RegisterFiles serves the root directory files at the prefix path.
// It is used when uploads are kept on the local file system.
func RegisterFiles(e *gin.Engine, prefix, root string) {
	e.Static(prefix, root)
}
