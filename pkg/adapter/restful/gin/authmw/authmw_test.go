// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package authmw_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/momeni/boat-rental/internal/test/fakes"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/boat-rental/pkg/core/model"
)

func TestRequire(t *testing.T) {
	a := authmw.New(fakes.Tokens{})
	e := gin.New()
	e.GET("/any", a.Require(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": authmw.Identity(c).UserID})
	})
	e.GET("/admin", a.Require(model.AccountAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	for _, tc := range []struct {
		path, header string
		status       int
	}{
		{"/any", "", http.StatusUnauthorized},
		{"/any", "Basic 7:customer", http.StatusUnauthorized},
		{"/any", "Bearer nonsense", http.StatusUnauthorized},
		{"/any", "Bearer 7:customer", http.StatusOK},
		{"/any", "bearer 7:customer", http.StatusOK},
		{"/admin", "Bearer 7:customer", http.StatusForbidden},
		{"/admin", "Bearer 1:admin", http.StatusNoContent},
	} {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, "%s %q", tc.path, tc.header)
		if tc.status == http.StatusOK {
			assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
		}
	}
}
