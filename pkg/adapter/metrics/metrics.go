// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package metrics keeps the prometheus collectors of the brweb server
// and exposes them for scraping. A Metrics instance has its own
// registry, so tests may create many instances.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/momeni/boat-rental/pkg/core/repo"
)

const namespace = "brweb"

// Metrics holds the registry and the collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	sweepRuns    *prometheus.CounterVec
	sweptRentals prometheus.Counter
	emails       *prometheus.CounterVec
}

// New creates and registers all collectors, including the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of handled HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"method", "route"},
		),
		sweepRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rentals",
				Name:      "sweep_runs_total",
				Help:      "Total number of rentals status sweeps.",
			},
			[]string{"result"},
		),
		sweptRentals: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rentals",
				Name:      "completed_total",
				Help:      "Total number of rentals completed by sweeps.",
			},
		),
		emails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "notifier",
				Name:      "emails_total",
				Help:      "Total number of emails by their sending result.",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration,
		m.sweepRuns, m.sweptRentals, m.emails,
	)
	return m
}

// Handler serves the registered metrics in the prometheus format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	})
}

// ObserveRequest records one HTTP request. The route must be the
// registered path pattern (not the raw path), so the label values
// remain bounded.
func (m *Metrics) ObserveRequest(
	method, route string, status int, d time.Duration,
) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveSweep records the result of one rentals status sweep.
func (m *Metrics) ObserveSweep(completed int64, err error) {
	if err != nil {
		m.sweepRuns.WithLabelValues("error").Inc()
		return
	}
	m.sweepRuns.WithLabelValues("ok").Inc()
	m.sweptRentals.Add(float64(completed))
}

// Notifier wraps n, so its sent and failed emails are counted.
func (m *Metrics) Notifier(n repo.Notifier) repo.Notifier {
	return countingNotifier{next: n, emails: m.emails}
}

type countingNotifier struct {
	next   repo.Notifier
	emails *prometheus.CounterVec
}

func (cn countingNotifier) Send(
	ctx context.Context, to, subject, htmlBody string,
) error {
	err := cn.next.Send(ctx, to, subject, htmlBody)
	result := "sent"
	if err != nil {
		result = "failed"
	}
	cn.emails.WithLabelValues(result).Inc()
	return err
}
