// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package storage contains the common parts of the object store
// adapters. The gcs and localfs sub-packages implement the repo.Storage
// interface, each one by putting single objects, while this package
// uploads a batch of files and names their objects.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/momeni/boat-rental/pkg/core/model"
)

// Putter stores one object and returns its public URL.
type Putter interface {
	Put(
		ctx context.Context, name, contentType string, r io.Reader,
	) (url string, err error)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectName returns a unique object name for a file in namespace.
// The original file name is kept as a sanitized suffix, so the
// objects remain recognizable.
func ObjectName(namespace, fileName string) string {
	base := unsafeChars.ReplaceAllString(path.Base(fileName), "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "file"
	}
	return path.Join(namespace, uuid.NewString()+"-"+base)
}

// Upload puts files one by one. It stops at the first failure and
// returns the URLs of the files which were stored before it.
func Upload(
	ctx context.Context, p Putter, namespace string, files []*model.File,
) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		u, err := put(ctx, p, namespace, f)
		if err != nil {
			return urls, fmt.Errorf("uploading %q: %w", f.Name, err)
		}
		urls = append(urls, u)
	}
	return urls, nil
}

func put(
	ctx context.Context, p Putter, namespace string, f *model.File,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer r.Close()
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return p.Put(ctx, ObjectName(namespace, f.Name), ct, r)
}

// TrimBase returns the object name of url if it starts with the
// base URL, or false otherwise.
func TrimBase(base, url string) (string, bool) {
	prefix := strings.TrimSuffix(base, "/") + "/"
	name, ok := strings.CutPrefix(url, prefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
