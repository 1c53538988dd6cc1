// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gcs implements the repo.Storage interface on a Google Cloud
// Storage bucket using the cloud.google.com/go/storage module.
// Objects are expected to be publicly readable, e.g., by a bucket
// level IAM policy, so their URLs may be shown to the clients.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	storagead "github.com/momeni/boat-rental/pkg/adapter/storage"
	"github.com/momeni/boat-rental/pkg/core/model"
)

// DefaultBaseURL is the public URL prefix of GCS objects. The bucket
// name is appended to it.
const DefaultBaseURL = "https://storage.googleapis.com"

// Storage puts objects in one bucket.
type Storage struct {
	client  *storage.Client
	bucket  *storage.BucketHandle
	baseURL string
}

// New connects to GCS. The opts may carry a credentials file, or
// an endpoint and no authentication for an emulator. An empty baseURL
// is replaced by DefaultBaseURL/bucket.
func New(
	ctx context.Context, bucket, baseURL string, opts ...option.ClientOption,
) (*Storage, error) {
	if bucket == "" {
		return nil, errors.New("bucket is required")
	}
	c, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL + "/" + bucket
	}
	return &Storage{
		client:  c,
		bucket:  c.Bucket(bucket),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Close releases the client connections.
func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) Upload(
	ctx context.Context, namespace string, files []*model.File,
) ([]string, error) {
	return storagead.Upload(ctx, s, namespace, files)
}

// Put writes an object. A failed write is not committed, as the
// writer is closed only after all bytes are copied.
func (s *Storage) Put(
	ctx context.Context, name, contentType string, r io.Reader,
) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w := s.bucket.Object(name).If(storage.Conditions{DoesNotExist: true}).
		NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		w.Close()
		return "", fmt.Errorf("writing object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing object writer: %w", err)
	}
	return s.URL(name), nil
}

// URL returns the public URL of an object name.
func (s *Storage) URL(name string) string {
	return s.baseURL + "/" + name
}

func (s *Storage) Delete(ctx context.Context, url string) error {
	name, ok := storagead.TrimBase(s.baseURL, url)
	if !ok {
		return fmt.Errorf("url %q is not stored in this bucket", url)
	}
	err := s.bucket.Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}
