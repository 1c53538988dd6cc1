// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/api/option"

	"github.com/momeni/boat-rental/pkg/adapter/restful/gin"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/routes"
	"github.com/momeni/boat-rental/pkg/adapter/storage/gcs"
	"github.com/momeni/boat-rental/pkg/adapter/storage/localfs"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Supported values of the storage kind setting.
const (
	StorageGCS   = "gcs"
	StorageLocal = "local"
)

// Default values of the local storage settings.
const (
	DefaultStorageDir     = "uploads"
	DefaultStorageURLPath = "/files"
	DefaultPublicBaseURL  = "http://localhost:8080"
)

// Storage contains the object store settings for the uploaded photos
// and licenses. Files may be kept in a Google Cloud Storage bucket or
// in a local directory which is served by brweb itself.
type Storage struct {
	Kind string

	// Bucket, CredentialsFile, and Endpoint are used by the gcs kind.
	// The Endpoint is only set for an emulator and disables the
	// authentication.
	Bucket          string `yaml:"bucket,omitempty"`
	CredentialsFile string `yaml:"credentials-file,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"`

	// PublicBaseURL prefixes the URLs of the stored objects. For the
	// local kind, it should address brweb itself.
	PublicBaseURL string `yaml:"public-base-url,omitempty"`

	// Dir and URLPath are used by the local kind. Files of Dir are
	// served under the URLPath path.
	Dir     string `yaml:"dir,omitempty"`
	URLPath string `yaml:"url-path,omitempty"`
}

// NewStorage instantiates the object store. The returned closer must
// be called after the storage is not used anymore.
func (s Storage) NewStorage(ctx context.Context) (
	st repo.Storage, closer func() error, err error,
) {
	if s.Kind == StorageLocal {
		fs, err := localfs.New(s.Dir, s.PublicBaseURL+s.URLPath)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	}
	var opts []option.ClientOption
	if s.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.CredentialsFile))
	}
	if s.Endpoint != "" {
		opts = append(
			opts,
			option.WithEndpoint(s.Endpoint),
			option.WithoutAuthentication(),
		)
	}
	gs, err := gcs.New(ctx, s.Bucket, s.PublicBaseURL, opts...)
	if err != nil {
		return nil, nil, err
	}
	return gs, gs.Close, nil
}

// ServeFiles registers a static files route on e for the local kind.
func (s Storage) ServeFiles(e *gin.Engine) {
	if s.Kind == StorageLocal {
		routes.RegisterFiles(e, s.URLPath, s.Dir)
	}
}

// ValidateAndNormalize fills the default values of `s` settings and
// verifies them based on the storage kind.
func (s *Storage) ValidateAndNormalize() error {
	switch s.Kind {
	case StorageGCS:
		if s.Bucket == "" {
			return errors.New("bucket is required")
		}
	case StorageLocal:
		if s.Dir == "" {
			s.Dir = DefaultStorageDir
		}
		if s.URLPath == "" {
			s.URLPath = DefaultStorageURLPath
		}
		if !strings.HasPrefix(s.URLPath, "/") {
			return fmt.Errorf("url-path %q must be absolute", s.URLPath)
		}
		s.URLPath = strings.TrimSuffix(s.URLPath, "/")
		if s.PublicBaseURL == "" {
			s.PublicBaseURL = DefaultPublicBaseURL
		}
	default:
		return fmt.Errorf("unsupported storage kind: %q", s.Kind)
	}
	if s.PublicBaseURL != "" {
		u, err := url.Parse(s.PublicBaseURL)
		if err != nil {
			return fmt.Errorf("parsing public-base-url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return errors.New("public-base-url must be absolute")
		}
		s.PublicBaseURL = strings.TrimSuffix(s.PublicBaseURL, "/")
	}
	return nil
}
