// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/boat-rental/pkg/core/model"
)

// Storage is an object store which keeps the uploaded photos and
// license documents. The bytes of files are preserved exactly and
// their public URLs are the only artifacts which are persisted in
// the database.
type Storage interface {
	// Upload stores files under the given namespace (e.g.,
	// boats/7/42) and returns their public URLs in the same order.
	// If some files are uploaded before a failure, their URLs are
	// returned along with the error, so they may be cleaned up.
	Upload(
		ctx context.Context, namespace string, files []*model.File,
	) ([]string, error)

	// Delete removes an object given its public URL. Deleting a
	// missing object is not an error.
	Delete(ctx context.Context, url string) error
}

// Notifier sends transactional emails. Use cases treat its failures
// as non-fatal and only log them.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
