// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package smtp implements the repo.Notifier interface by sending HTML
// emails through an SMTP relay, using the gopkg.in/gomail.v2 module.
package smtp

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config identifies an SMTP relay and the sender address.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Notifier dials the relay for every email. The transactional emails
// are rare, so no connection is kept open between them.
type Notifier struct {
	from string
	dial func() (gomail.SendCloser, error)
}

// New validates cfg and creates a Notifier.
func New(cfg Config) (*Notifier, error) {
	switch {
	case cfg.Host == "":
		return nil, errors.New("smtp host is required")
	case cfg.Port <= 0:
		return nil, fmt.Errorf("invalid smtp port: %d", cfg.Port)
	case cfg.From == "":
		return nil, errors.New("sender address is required")
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &Notifier{from: cfg.From, dial: d.Dial}, nil
}

// Send dials the relay and sends one HTML email. The ctx is only
// checked before dialing, as gomail does not support cancellation.
func (n *Notifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	s, err := n.dial()
	if err != nil {
		return fmt.Errorf("dialing smtp relay: %w", err)
	}
	defer s.Close()
	if err = gomail.Send(s, m); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
