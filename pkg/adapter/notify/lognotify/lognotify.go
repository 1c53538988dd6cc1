// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package lognotify implements the repo.Notifier interface by logging
// the emails instead of sending them. It is used when no SMTP relay is
// configured, e.g., in development.
package lognotify

import (
	"context"
	"log/slog"

	"github.com/momeni/boat-rental/pkg/core/log"
)

type Notifier struct{}

func New() Notifier {
	return Notifier{}
}

func (Notifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	log.Info(
		ctx, "email is not sent, no smtp relay is configured",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", htmlBody),
	)
	return nil
}
