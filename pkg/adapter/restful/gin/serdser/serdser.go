// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the serialization and deserialization
// helpers which are shared by the resource packages. Requests are
// bound and validated by Bind, while errors are reported by SerErr
// as a JSON object with a detail field.
package serdser

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/log"
)

// InternalError is the detail of all 500 responses which are not
// caused by a cerr.Error, so internal failures are never leaked.
const InternalError = "internal server error"

// Bind deserializes the request into req using b and validates it.
// If anything fails, a 400 response is written and false is returned.
// Validation errors are reported as a map from field names to their
// error messages.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	err := c.ShouldBindWith(req, b)
	if err == nil {
		return true
	}
	var ierr *validator.InvalidValidationError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &ierr):
		log.Error(c, "invalid validation target", log.Err("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": InternalError,
		})
	case errors.As(err, &verrs):
		var nameToErrs map[string][]string
		for _, ferr := range verrs {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// PathID parses the name path parameter as a positive int64 id.
// On failure, a 400 response is written and false is returned.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "path param " + name + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

// SerErr writes err as the response. A cerr.Error is reported with its
// status code and message. Other errors are logged and reported as
// a generic 500 response. The hidden causes of storage and notifier
// errors are logged, but only their generic message is reported.
func SerErr(c *gin.Context, err error) {
	status := cerr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error(
			c, "request failed",
			log.Err("err", err),
			slog.String("path", c.Request.URL.Path),
		)
	}
	var ce *cerr.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": InternalError,
	})
}
