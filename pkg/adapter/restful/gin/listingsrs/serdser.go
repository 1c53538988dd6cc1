// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsrs

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/boat-rental/pkg/core/model"
)

// rawBoatAttrs is shared by the multipart registration form and the
// JSON update body. Trip types are given by their numeric form ids.
type rawBoatAttrs struct {
	Name         string  `form:"name" json:"name" binding:"required,max=200"`
	Description  string  `form:"description" json:"description" binding:"required"`
	TripTypes    []int   `form:"trip_types" json:"trip_types" binding:"required,min=1,dive,min=1,max=4"`
	PricePerHour float64 `form:"price_per_hour" json:"price_per_hour" binding:"gte=0"`
	PricePerDay  float64 `form:"price_per_day" json:"price_per_day" binding:"gte=0"`
	Capacity     int     `form:"capacity" json:"capacity" binding:"required,gt=0"`
	Type         string  `form:"boat_type" json:"boat_type" binding:"required"`
	Location     string  `form:"location" json:"location" binding:"required"`
}

type registerBoatReq struct {
	Attrs   *model.BoatAttrs
	Photos  []*model.File
	License *model.File
}

type rawSearchBoatsReq struct {
	Location    string `form:"location"`
	Type        string `form:"boat_type"`
	MinCapacity int    `form:"min_capacity" binding:"gte=0"`
	TripType    int    `form:"trip_type" binding:"omitempty,min=1,max=4"`
}

func (raw *rawBoatAttrs) toModel(errs *map[string][]string) *model.BoatAttrs {
	tts := make([]model.TripType, 0, len(raw.TripTypes))
	for _, id := range raw.TripTypes {
		t, err := model.TripTypeFromID(id)
		if !serdser.Assert(errs, err == nil, "trip_types", "Trip type ids must be in [1, 4].") {
			return nil
		}
		tts = append(tts, t)
	}
	normalized, err := model.NewTripTypes(tts...)
	if !serdser.Assert(errs, err == nil, "trip_types", "Invalid trip types.") {
		return nil
	}
	return &model.BoatAttrs{
		Name:         raw.Name,
		Description:  raw.Description,
		TripTypes:    normalized,
		PricePerHour: raw.PricePerHour,
		PricePerDay:  raw.PricePerDay,
		Capacity:     raw.Capacity,
		Type:         raw.Type,
		Location:     raw.Location,
	}
}

// fileOf adapts an uploaded multipart file, so its bytes may be read
// by the storage adapters as they are.
func fileOf(fh *multipart.FileHeader) *model.File {
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &model.File{
		Name:        fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// formFiles returns the files of the first non-empty key, so both of
// the photos[] and photos naming conventions are accepted.
func formFiles(form *multipart.Form, keys ...string) []*multipart.FileHeader {
	for _, k := range keys {
		if fhs := form.File[k]; len(fhs) > 0 {
			return fhs
		}
	}
	return nil
}

func (rs *resource) DserRegisterBoatReq(c *gin.Context) *registerBoatReq {
	raw := &rawBoatAttrs{}
	if ok := serdser.Bind(c, raw, binding.FormMultipart); !ok {
		return nil
	}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	form, err := c.MultipartForm()
	if err != nil {
		serdser.AddErr(&errs, "form", "Request must be a multipart form.")
		return nil
	}
	attrs := raw.toModel(&errs)
	photos := formFiles(form, "photos[]", "photos")
	licenses := formFiles(form, "license")
	serdser.Assert(&errs, len(photos) > 0, "photos", "At least one photo is required.")
	serdser.Assert(&errs, len(licenses) == 1, "license", "Exactly one license document is required.")
	if errs != nil {
		return nil
	}
	req := &registerBoatReq{
		Attrs:   attrs,
		Photos:  make([]*model.File, len(photos)),
		License: fileOf(licenses[0]),
	}
	for i, fh := range photos {
		req.Photos[i] = fileOf(fh)
	}
	return req
}

func (rs *resource) DserSearchBoatsReq(c *gin.Context) *model.BoatFilter {
	raw := &rawSearchBoatsReq{}
	if ok := serdser.Bind(c, raw, binding.Query); !ok {
		return nil
	}
	f := &model.BoatFilter{
		Location:    raw.Location,
		Type:        raw.Type,
		MinCapacity: raw.MinCapacity,
	}
	if raw.TripType != 0 {
		f.TripType = model.TripType(raw.TripType)
	}
	return f
}

func (rs *resource) DserUpdateBoatReq(c *gin.Context) *model.BoatAttrs {
	raw := &rawBoatAttrs{}
	if ok := serdser.Bind(c, raw, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	attrs := raw.toModel(&errs)
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return attrs
}

func (rs *resource) DserLicenseReq(c *gin.Context) *model.File {
	fh, err := c.FormFile("license")
	if err != nil {
		c.JSON(http.StatusBadRequest, map[string][]string{
			"license": {"A license document is required."},
		})
		return nil
	}
	return fileOf(fh)
}
