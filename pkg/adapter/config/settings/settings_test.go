// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/pkg/adapter/config/settings"
)

func ExampleDuration_String() {
	for _, d := range []time.Duration{
		24 * time.Hour, 90 * time.Minute, 2*time.Hour + 3*time.Second, 0,
	} {
		fmt.Println(settings.Duration(d))
	}
	// Output:
	// 24h
	// 1h30m
	// 2h0m3s
	// 0s
}

func TestDurationText(t *testing.T) {
	var d settings.Duration
	require.NoError(t, d.UnmarshalText([]byte("1h15m")))
	assert.Equal(t, 75*time.Minute, d.Std())
	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1h15m", string(b))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
	assert.Equal(t, 75*time.Minute, d.Std(), "failed decoding kept d")

	var nilDur *settings.Duration
	assert.Nil(t, nilDur.Marshal())
	_, err = nilDur.MarshalText()
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	var p *int
	settings.Default(&p, 10)
	require.NotNil(t, p)
	assert.Equal(t, 10, *p)
	settings.Default(&p, 20)
	assert.Equal(t, 10, *p)

	assert.False(t, settings.Enabled(nil))
	b := true
	assert.True(t, settings.Enabled(&b))
}

func TestVerifyRange(t *testing.T) {
	assert.NoError(t, settings.VerifyRange[int]("max-photos", nil, 1, 50))
	n := 10
	assert.NoError(t, settings.VerifyRange("max-photos", &n, 1, 50))
	n = 0
	err := settings.VerifyRange("max-photos", &n, 1, 50)
	assert.EqualError(t, err, "max-photos (0) is less than min, expecting [1, 50]")
	n = 51
	err = settings.VerifyRange("max-photos", &n, 1, 50)
	assert.EqualError(t, err, "max-photos (51) is greater than max, expecting [1, 50]")

	d := settings.Duration(time.Minute)
	err = settings.VerifyRange(
		"token-ttl", &d,
		settings.Duration(time.Hour), settings.Duration(24*time.Hour),
	)
	assert.EqualError(t, err, "token-ttl (1m) is less than min, expecting [1h, 24h]")
}
