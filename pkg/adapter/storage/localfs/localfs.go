// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package localfs implements the repo.Storage interface on a local
// directory. It is used by the development setups, while the REST API
// serves that directory as static files.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/momeni/boat-rental/pkg/adapter/storage"
	"github.com/momeni/boat-rental/pkg/core/model"
)

// Storage keeps objects as files under a root directory.
type Storage struct {
	root    string
	baseURL string
}

// New creates the root directory if needed. The baseURL is the public
// URL which serves the root directory, e.g., http://host/files.
func New(root, baseURL string) (*Storage, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating root directory: %w", err)
	}
	return &Storage{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Root returns the root directory of s.
func (s *Storage) Root() string {
	return s.root
}

func (s *Storage) Upload(
	ctx context.Context, namespace string, files []*model.File,
) ([]string, error) {
	return storage.Upload(ctx, s, namespace, files)
}

// Put writes an object file. The content type is not kept, as it is
// detected by the static files server.
func (s *Storage) Put(
	ctx context.Context, name, contentType string, r io.Reader,
) (string, error) {
	p := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if _, err = io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return "", fmt.Errorf("writing file: %w", err)
	}
	if err = f.Close(); err != nil {
		os.Remove(p)
		return "", fmt.Errorf("closing file: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *Storage) Delete(ctx context.Context, url string) error {
	name, ok := storage.TrimBase(s.baseURL, url)
	if !ok || !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("url %q is not stored here", url)
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}
