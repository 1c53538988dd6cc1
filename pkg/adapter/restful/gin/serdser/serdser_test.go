// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package serdser_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"

	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/boat-rental/pkg/core/cerr"
)

func serve(h gin.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	e := gin.New()
	e.Handle(req.Method, "/x/:id", h)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestSerErr(t *testing.T) {
	for name, tc := range map[string]struct {
		err    error
		status int
		body   string
	}{
		"conflict": {
			fmt.Errorf("inserting: %w", cerr.Conflict(errors.New("boat has rentals"))),
			http.StatusConflict, `{"detail":"boat has rentals"}`,
		},
		"storage": {
			cerr.Storage(errors.New("bucket quota exceeded")),
			http.StatusInternalServerError, `{"detail":"storage failure"}`,
		},
		"internal": {
			errors.New(`pq: column "secret" does not exist`),
			http.StatusInternalServerError, `{"detail":"internal server error"}`,
		},
	} {
		t.Run(name, func(t *testing.T) {
			w := serve(func(c *gin.Context) {
				serdser.SerErr(c, tc.err)
			}, httptest.NewRequest(http.MethodGet, "/x/1", nil))
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

type bindReq struct {
	BoatID int64  `json:"boat_id" binding:"required,gt=0"`
	Reason string `json:"reason" binding:"max=5"`
}

func TestBind(t *testing.T) {
	h := func(c *gin.Context) {
		req := &bindReq{}
		if serdser.Bind(c, req, binding.JSON) {
			c.JSON(http.StatusOK, req)
		}
	}
	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/x/1", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return serve(h, req)
	}
	w := post(`{"boat_id":3,"reason":"ok"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(`{"reason":"too long"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"BoatID"`)
	assert.Contains(t, w.Body.String(), `"Reason"`)

	w = post(`{"boat_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"detail"`)
}

func TestPathID(t *testing.T) {
	h := func(c *gin.Context) {
		if id, ok := serdser.PathID(c, "id"); ok {
			c.JSON(http.StatusOK, gin.H{"id": id})
		}
	}
	for path, status := range map[string]int{
		"/x/42": http.StatusOK,
		"/x/0":  http.StatusBadRequest,
		"/x/-1": http.StatusBadRequest,
		"/x/ab": http.StatusBadRequest,
	} {
		w := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, w.Code, path)
	}
}

func TestAssertCollectsMessages(t *testing.T) {
	var errs map[string][]string
	assert.True(t, serdser.Assert(&errs, true, "a", "never"))
	assert.Nil(t, errs)
	assert.False(t, serdser.Assert(&errs, false, "a", "first"))
	serdser.AddErr(&errs, "a", "second")
	assert.Equal(t, map[string][]string{"a": {"first", "second"}}, errs)
}
