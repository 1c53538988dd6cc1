// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentalsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/usecase/rentaluc"
)

type rawUnavailableDatesReq struct {
	BoatID int64 `form:"boat_id" binding:"required,gt=0"`
}

// rawCreateRentalReq has no customer field. Dates are YYYY-MM-DD and
// times are HH:MM strings.
type rawCreateRentalReq struct {
	BoatID    int64   `json:"boat_id" binding:"required,gt=0"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   string  `json:"end_date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Price     float64 `json:"rental_price" binding:"required,gt=0"`
}

type rawReviewReq struct {
	RentalID    int64  `json:"rental_id" binding:"required,gt=0"`
	General     int    `json:"general_rating" binding:"required,min=1,max=5"`
	Driver      int    `json:"driver_rating" binding:"required,min=1,max=5"`
	Cleanliness int    `json:"cleanliness_rating" binding:"required,min=1,max=5"`
	Text        string `json:"review_text" binding:"max=4000"`
}

// DserUnavailableDatesReq returns zero if the boat_id query param is
// missing or invalid, after writing a 400 response.
func (rs *resource) DserUnavailableDatesReq(c *gin.Context) int64 {
	req := &rawUnavailableDatesReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return 0
	}
	return req.BoatID
}

func (rs *resource) DserCreateRentalReq(c *gin.Context) *rentaluc.CreateRequest {
	req := &rawCreateRentalReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	val := &rentaluc.CreateRequest{
		BoatID:    req.BoatID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Price:     req.Price,
	}
	var err error
	val.StartDate, err = model.ParseDate(req.StartDate)
	serdser.Assert(&errs, err == nil, "start_date", "Expected a YYYY-MM-DD date.")
	if req.EndDate != "" {
		end, err := model.ParseDate(req.EndDate)
		if serdser.Assert(&errs, err == nil, "end_date", "Expected a YYYY-MM-DD date.") {
			val.EndDate = &end
		}
	}
	if errs != nil {
		return nil
	}
	return val
}

func (rs *resource) DserReviewReq(c *gin.Context) *rentaluc.ReviewRequest {
	req := &rawReviewReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return &rentaluc.ReviewRequest{
		RentalID: req.RentalID,
		Ratings: model.Ratings{
			General:     req.General,
			Driver:      req.Driver,
			Cleanliness: req.Cleanliness,
		},
		Text: req.Text,
	}
}
