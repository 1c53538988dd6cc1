// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package smtp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type sendCloser struct {
	from   string
	to     []string
	raw    bytes.Buffer
	closed bool
}

func (sc *sendCloser) Send(from string, to []string, msg io.WriterTo) error {
	sc.from, sc.to = from, to
	_, err := msg.WriteTo(&sc.raw)
	return err
}

func (sc *sendCloser) Close() error {
	sc.closed = true
	return nil
}

func TestSend(t *testing.T) {
	sc := &sendCloser{}
	n := &Notifier{
		from: "noreply@brweb.test",
		dial: func() (gomail.SendCloser, error) { return sc, nil },
	}
	err := n.Send(context.Background(), "owner@example.com", "Approved", "<p>Hi</p>")
	require.NoError(t, err)
	assert.True(t, sc.closed)
	assert.Equal(t, "noreply@brweb.test", sc.from)
	assert.Equal(t, []string{"owner@example.com"}, sc.to)
	raw := sc.raw.String()
	assert.Contains(t, raw, "Subject: Approved")
	assert.Contains(t, raw, "Content-Type: text/html")
	assert.Contains(t, raw, "<p>Hi</p>")
}

func TestSendFailures(t *testing.T) {
	n := &Notifier{
		from: "noreply@brweb.test",
		dial: func() (gomail.SendCloser, error) {
			return nil, errors.New("connection refused")
		},
	}
	err := n.Send(context.Background(), "a@example.com", "s", "b")
	assert.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Send(ctx, "a@example.com", "s", "b"), context.Canceled)
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{Port: 25, From: "x@y"})
	assert.Error(t, err)
	_, err = New(Config{Host: "mail", From: "x@y"})
	assert.Error(t, err)
	_, err = New(Config{Host: "mail", Port: 25})
	assert.Error(t, err)
	n, err := New(Config{Host: "mail", Port: 587, From: "x@y"})
	require.NoError(t, err)
	assert.NotNil(t, n.dial)
}
