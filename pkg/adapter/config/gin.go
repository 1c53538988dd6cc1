// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"time"

	"github.com/momeni/boat-rental/pkg/adapter/config/settings"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin"
)

// Default values and boundaries of the Gin settings.
const (
	DefaultAddress         = ":8080"
	DefaultMaxUploadSize   = 32 << 20
	DefaultShutdownTimeout = 10 * time.Second

	minUploadSize = 1 << 20
	maxUploadSize = 1 << 30
)

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them with their default values.
type Gin struct {
	Address  string // listening address, like :8080
	Logger   *bool  // Whether to register the gin.Logger() middleware
	Recovery *bool  // Whether to register the gin.Recovery() middleware

	// RateLimit restricts the requests of each client IP address.
	// It is disabled when its rps is not set.
	RateLimit RateLimit `yaml:"rate-limit"`

	// MaxUploadSize is the largest acceptable request body in bytes.
	// The multipart boat registration requests carry all photos, so
	// this limit should fit the photos count limit too.
	MaxUploadSize *int64 `yaml:"max-upload-size"`

	// ShutdownTimeout is the time which ongoing requests may take
	// after a termination signal.
	ShutdownTimeout *settings.Duration `yaml:"shutdown-timeout"`
}

// RateLimit contains the per client rate limiting settings.
type RateLimit struct {
	RPS   *float64 `yaml:"rps,omitempty"`
	Burst *int     `yaml:"burst,omitempty"`
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. If o is not nil, it observes all requests.
func (g Gin) NewEngine(o gin.RequestObserver) *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 5)
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if o != nil {
		middlewares = append(middlewares, gin.Metrics(o))
	}
	if g.RateLimit.RPS != nil {
		middlewares = append(middlewares, gin.RateLimit(
			*g.RateLimit.RPS, *g.RateLimit.Burst,
		))
	}
	middlewares = append(middlewares, gin.BodyLimit(*g.MaxUploadSize))
	return gin.New(middlewares...)
}

// ValidateAndNormalize fills the default values of `g` settings and
// verifies their ranges.
func (g *Gin) ValidateAndNormalize() error {
	if g.Address == "" {
		g.Address = DefaultAddress
	}
	settings.Default(&g.Logger, true)
	settings.Default(&g.Recovery, true)
	settings.Default(&g.MaxUploadSize, DefaultMaxUploadSize)
	settings.Default(
		&g.ShutdownTimeout, settings.Duration(DefaultShutdownTimeout),
	)
	if err := settings.VerifyRange(
		"max-upload-size", g.MaxUploadSize, minUploadSize, maxUploadSize,
	); err != nil {
		return err
	}
	if *g.ShutdownTimeout <= 0 {
		return errors.New("shutdown-timeout must be positive")
	}
	if rps := g.RateLimit.RPS; rps != nil {
		if *rps <= 0 {
			return errors.New("rate-limit rps must be positive")
		}
		settings.Default(&g.RateLimit.Burst, max(1, int(*rps)))
		if *g.RateLimit.Burst <= 0 {
			return errors.New("rate-limit burst must be positive")
		}
	} else if g.RateLimit.Burst != nil {
		return errors.New("rate-limit burst is set without rps")
	}
	return nil
}
