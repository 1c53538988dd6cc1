// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/momeni/boat-rental/pkg/adapter/config/settings"
	"github.com/momeni/boat-rental/pkg/adapter/notify/lognotify"
	"github.com/momeni/boat-rental/pkg/adapter/notify/smtp"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// DefaultSMTPPort is the SMTP submission port.
const DefaultSMTPPort = 587

// SMTP contains the transactional emails delivery settings.
// When it is not enabled, emails are only logged.
type SMTP struct {
	Enabled      *bool
	Host         string
	Port         int
	Username     string `yaml:"username,omitempty"`
	PasswordFile string `yaml:"password-file,omitempty"`
	From         string // sender email address
	FromName     string `yaml:"from-name,omitempty"`
}

// NewNotifier instantiates the emails sender.
func (s SMTP) NewNotifier() (repo.Notifier, error) {
	if !*s.Enabled {
		return lognotify.New(), nil
	}
	var pass string
	if s.PasswordFile != "" {
		b, err := os.ReadFile(s.PasswordFile)
		if err != nil {
			return nil, fmt.Errorf("reading smtp password: %w", err)
		}
		pass = strings.TrimSpace(string(b))
	}
	from := &mail.Address{Name: s.FromName, Address: s.From}
	return smtp.New(smtp.Config{
		Host:     s.Host,
		Port:     s.Port,
		Username: s.Username,
		Password: pass,
		From:     from.String(),
	})
}

// ValidateAndNormalize fills the default values of `s` settings and
// verifies them if sending emails is enabled.
func (s *SMTP) ValidateAndNormalize() error {
	settings.Default(&s.Enabled, false)
	if !*s.Enabled {
		return nil
	}
	if s.Port == 0 {
		s.Port = DefaultSMTPPort
	}
	switch {
	case s.Host == "":
		return errors.New("host is required")
	case s.Port < 0 || s.Port > 65535:
		return fmt.Errorf("invalid port: %d", s.Port)
	case s.Username != "" && s.PasswordFile == "":
		return errors.New("password-file is required with username")
	}
	a, err := mail.ParseAddress(s.From)
	if err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	s.From = a.Address
	return nil
}
