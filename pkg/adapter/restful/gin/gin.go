// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin adapts the gin-gonic engine for the brweb REST APIs.
// It provides the middlewares which are shared by all resources, such
// as the slog based request logger, panic recovery, per client rate
// limiting, and the prometheus request metrics. Resource packages are
// kept in the sub-packages with an rs suffix, like rentalsrs.
package gin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/log"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// RequestObserver is notified about every served request. It is
// implemented by the metrics.Metrics type.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// New instantiates a gin engine with no default middleware and uses
// the given middlewares in order.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	e.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "route not found"})
	})
	return e
}

// Logger logs each request after it is served, using the core log
// package. Server side failures are logged with the warning level.
func Logger() HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if status >= http.StatusInternalServerError {
			log.Warn(c, "request failed", attrs...)
			return
		}
		log.Info(c, "request served", attrs...)
	}
}

// Recovery converts panics into 500 responses, hiding their details.
func Recovery() HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, p any) {
		log.Error(c, "handler panicked", slog.Any("panic", p))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"detail": "internal server error",
		})
	})
}

// Metrics reports the method, matched route, status code, and latency
// of each request to o. Unmatched requests have an empty route.
func Metrics(o RequestObserver) HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		o.ObserveRequest(
			c.Request.Method, c.FullPath(), c.Writer.Status(),
			time.Since(start),
		)
	}
}

// RateLimit rejects requests of a client IP address which exceed rps
// requests per second (with burst extra requests) with the 429 status.
func RateLimit(rps float64, burst int) HandlerFunc {
	l := newLimiters(rps, burst)
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			c.Header("Retry-After", "1")
			err := cerr.TooManyRequests(errTooManyRequests)
			c.AbortWithStatusJSON(err.HTTPStatusCode, gin.H{
				"detail": err.Err.Error(),
			})
			return
		}
		c.Next()
	}
}

// BodyLimit rejects requests which declare a body larger than n bytes
// and caps the reading of undeclared bodies at n bytes.
func BodyLimit(n int64) HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"detail": "request body is too large",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
