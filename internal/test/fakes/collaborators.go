// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/momeni/boat-rental/pkg/core/model"
)

// Storage is an in-memory repo.Storage. Objects are kept by their
// mem:// URLs.
type Storage struct {
	mu      sync.Mutex
	Objects map[string][]byte

	// FailAfter makes Upload fail after storing this many files of
	// a call, if it is positive. FailAll makes all uploads fail.
	FailAfter int
	FailAll   bool

	// DeleteErr is returned by all Delete calls, if not nil.
	DeleteErr error
	Deleted   []string
}

// NewStorage creates an empty in-memory storage.
func NewStorage() *Storage {
	return &Storage{Objects: map[string][]byte{}}
}

func (s *Storage) Upload(
	ctx context.Context, namespace string, files []*model.File,
) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return nil, fmt.Errorf("storage is unavailable")
	}
	urls := make([]string, 0, len(files))
	for i, f := range files {
		if s.FailAfter > 0 && i >= s.FailAfter {
			return urls, fmt.Errorf("storage quota is exceeded")
		}
		r, err := f.Open()
		if err != nil {
			return urls, err
		}
		b, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return urls, err
		}
		u := fmt.Sprintf("mem://%s/%d-%s", namespace, i, f.Name)
		s.Objects[u] = b
		urls = append(urls, u)
	}
	return urls, nil
}

func (s *Storage) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, url)
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.Objects, url)
	return nil
}

// Len returns the number of stored objects.
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Objects)
}

// File creates an in-memory model.File with the given content.
func File(name, content string) *model.File {
	return &model.File{
		Name:        name,
		ContentType: "application/octet-stream",
		Size:        int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

// Mail is an email which was passed to the Notifier.
type Mail struct {
	To, Subject, Body string
}

// Notifier records the sent emails. If Err is set, it is returned
// from Send and nothing is recorded.
type Notifier struct {
	mu   sync.Mutex
	Err  error
	Sent []Mail
}

func (n *Notifier) Send(ctx context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Sent = append(n.Sent, Mail{To: to, Subject: subject, Body: body})
	return nil
}

// Mails returns a copy of the sent emails.
func (n *Notifier) Mails() []Mail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Mail(nil), n.Sent...)
}
