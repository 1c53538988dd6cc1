// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package storage_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/internal/test/fakes"
	"github.com/momeni/boat-rental/pkg/adapter/storage"
	"github.com/momeni/boat-rental/pkg/core/model"
)

type putter struct {
	names  []string
	bodies []string
	failAt int
}

func (p *putter) Put(
	ctx context.Context, name, contentType string, r io.Reader,
) (string, error) {
	if len(p.names) == p.failAt {
		return "", errors.New("quota exceeded")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	p.names = append(p.names, name)
	p.bodies = append(p.bodies, string(b))
	return "https://cdn.test/" + name, nil
}

func TestObjectName(t *testing.T) {
	n := storage.ObjectName("boats/7/42", "../My Photo (1).JPG")
	assert.True(t, strings.HasPrefix(n, "boats/7/42/"), n)
	assert.True(t, strings.HasSuffix(n, "-My_Photo_1_.JPG"), n)
	assert.NotEqual(t, n, storage.ObjectName("boats/7/42", "../My Photo (1).JPG"))

	assert.True(t, strings.HasSuffix(storage.ObjectName("x", "..."), "-file"))
}

func TestUploadStopsAtFailure(t *testing.T) {
	p := &putter{failAt: 2}
	urls, err := storage.Upload(context.Background(), p, "captains/3", []*model.File{
		fakes.File("a.jpg", "A"),
		fakes.File("b.jpg", "B"),
		fakes.File("c.pdf", "C"),
	})
	require.Error(t, err)
	assert.Len(t, urls, 2)
	assert.Equal(t, []string{"A", "B"}, p.bodies)
	for i, u := range urls {
		assert.Equal(t, "https://cdn.test/"+p.names[i], u)
	}
}

func TestTrimBase(t *testing.T) {
	name, ok := storage.TrimBase("https://cdn.test/", "https://cdn.test/boats/1/x.jpg")
	assert.True(t, ok)
	assert.Equal(t, "boats/1/x.jpg", name)
	_, ok = storage.TrimBase("https://cdn.test", "https://other.test/boats/1/x.jpg")
	assert.False(t, ok)
}
