// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gcs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/momeni/boat-rental/pkg/adapter/storage/gcs"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (rec *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec.mu.Lock()
	rec.calls = append(rec.calls, r.Method+" "+r.URL.Path)
	rec.mu.Unlock()
	if r.URL.Path == "/storage/v1/b/photos/o/boats/1/missing.jpg" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func TestDelete(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	ctx := context.Background()
	s, err := gcs.New(
		ctx, "photos", "",
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	defer s.Close()

	u := s.URL("boats/1/a.jpg")
	assert.Equal(t, "https://storage.googleapis.com/photos/boats/1/a.jpg", u)
	require.NoError(t, s.Delete(ctx, u))
	require.NoError(t, s.Delete(ctx, s.URL("boats/1/missing.jpg")), "missing objects are ignored")
	assert.Error(t, s.Delete(ctx, "https://elsewhere.test/a.jpg"))

	assert.Equal(t, []string{
		"DELETE /storage/v1/b/photos/o/boats/1/a.jpg",
		"DELETE /storage/v1/b/photos/o/boats/1/missing.jpg",
	}, rec.calls)
}

func TestNewValidation(t *testing.T) {
	_, err := gcs.New(context.Background(), "", "", option.WithoutAuthentication())
	assert.Error(t, err)
}
