// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scheduler runs the periodic jobs of the brweb server, i.e.,
// the nightly rentals status sweep, using the github.com/robfig/cron/v3
// module.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/momeni/boat-rental/pkg/core/log"
	"github.com/momeni/boat-rental/pkg/core/model"
)

// DefaultSweepSpec runs the sweep every day at 03:00.
const DefaultSweepSpec = "0 3 * * *"

// sweepTimeout bounds one sweep run.
const sweepTimeout = 5 * time.Minute

// Sweeper is implemented by the rentaluc.UseCase.
type Sweeper interface {
	Today() model.Date
	Sweep(ctx context.Context, today model.Date) (int64, error)
}

// Observer records the sweep results, e.g., as metrics. It may be nil.
type Observer interface {
	ObserveSweep(completed int64, err error)
}

// ParseSpec validates a standard five fields cron spec.
func ParseSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return nil
}

// Scheduler owns a cron instance which runs jobs in its own goroutine.
type Scheduler struct {
	c *cron.Cron
}

// New schedules the sweep by spec in the loc time zone. Overlapping
// runs are skipped. The scheduler must be started by Start.
func New(
	spec string, loc *time.Location, s Sweeper, o Observer,
) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
		cron.WithLogger(cronLogger{}),
	)
	_, err := c.AddFunc(spec, func() {
		RunSweep(context.Background(), s, o)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return &Scheduler{c: c}, nil
}

// RunSweep runs one sweep for the current day of s.
func RunSweep(ctx context.Context, s Sweeper, o Observer) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()
	n, err := s.Sweep(ctx, s.Today())
	if o != nil {
		o.ObserveSweep(n, err)
	}
	if err != nil {
		log.Error(ctx, "scheduled rentals sweep failed", log.Err("err", err))
	}
}

func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop prevents future runs and waits for a running job until ctx
// is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts the cron.Logger interface to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
