// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/momeni/boat-rental/pkg/adapter/config/settings"
	"github.com/momeni/boat-rental/pkg/adapter/metrics"
	"github.com/momeni/boat-rental/pkg/core/log"
)

// Logging contains the structured logging settings.
type Logging struct {
	Format string // text or json
	Level  string // debug, info, warn, or error
}

// Setup replaces the default logger with one which writes to w.
func (l Logging) Setup(w io.Writer) error {
	return log.Setup(w, l.Format, l.Level)
}

// ValidateAndNormalize fills the default values of `l` settings and
// verifies them.
func (l *Logging) ValidateAndNormalize() error {
	if l.Format == "" {
		l.Format = "text"
	}
	if l.Level == "" {
		l.Level = "info"
	}
	l.Format = strings.ToLower(l.Format)
	if l.Format != "text" && l.Format != "json" {
		return fmt.Errorf("unsupported log format: %q", l.Format)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	return nil
}

// Metrics contains the prometheus metrics settings.
type Metrics struct {
	Enabled *bool // serve the /metrics route, enabled by default
}

// NewMetrics instantiates the metrics collectors, or returns nil when
// metrics are disabled.
func (m Metrics) NewMetrics() *metrics.Metrics {
	if !*m.Enabled {
		return nil
	}
	return metrics.New()
}

// ValidateAndNormalize fills the default values of `m` settings.
func (m *Metrics) ValidateAndNormalize() {
	settings.Default(&m.Enabled, true)
}
