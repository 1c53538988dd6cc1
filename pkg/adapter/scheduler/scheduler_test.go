// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/pkg/adapter/scheduler"
	"github.com/momeni/boat-rental/pkg/core/model"
)

type sweeper struct {
	mu    sync.Mutex
	days  []model.Date
	err   error
	count int64
}

func (s *sweeper) Today() model.Date {
	return model.NewDate(2024, time.June, 5)
}

func (s *sweeper) Sweep(ctx context.Context, today model.Date) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = append(s.days, today)
	return s.count, s.err
}

type observer struct {
	completed []int64
	errs      []error
}

func (o *observer) ObserveSweep(completed int64, err error) {
	o.completed = append(o.completed, completed)
	o.errs = append(o.errs, err)
}

func TestRunSweep(t *testing.T) {
	s := &sweeper{count: 2}
	o := &observer{}
	scheduler.RunSweep(context.Background(), s, o)
	s.err = errors.New("db is down")
	s.count = 0
	scheduler.RunSweep(context.Background(), s, o)

	assert.Equal(t, []model.Date{
		model.NewDate(2024, time.June, 5), model.NewDate(2024, time.June, 5),
	}, s.days)
	assert.Equal(t, []int64{2, 0}, o.completed)
	assert.NoError(t, o.errs[0])
	assert.Error(t, o.errs[1])

	scheduler.RunSweep(context.Background(), s, nil)
}

func TestSpecValidation(t *testing.T) {
	require.NoError(t, scheduler.ParseSpec(scheduler.DefaultSweepSpec))
	assert.Error(t, scheduler.ParseSpec("every night"))

	_, err := scheduler.New("61 * * * *", time.UTC, &sweeper{}, nil)
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	sc, err := scheduler.New(scheduler.DefaultSweepSpec, time.UTC, &sweeper{}, nil)
	require.NoError(t, err)
	sc.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, sc.Stop(ctx))
}
