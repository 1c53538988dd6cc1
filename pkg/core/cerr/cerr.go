// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr defines the core errors which know about their
// corresponding HTTP status code. Use cases wrap their failures with
// one of these constructors, so the restful adapter can report them
// without knowing about the use case internals. Errors which are not
// wrapped by this package (e.g., database failures) are considered as
// internal errors and are not exposed to the clients.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error wraps Err and tags it with the HTTPStatusCode which should be
// reported to the clients. The Err message is shown to the clients
// as is, so it must not contain internal details.
type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

// BadRequest reports a validation error, i.e., missing or malformed
// required fields.
func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func Authentication(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusUnauthorized}
}

func Authorization(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusForbidden}
}

// NotFound reports that a referenced entity, or one link of a chain
// of entities (e.g., boat, business, and user), is absent.
func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

func TooManyRequests(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusTooManyRequests}
}

// ErrStorage is reported to the clients whenever the object store
// fails. The actual cause is kept in the chain for logging.
var ErrStorage = errors.New("storage failure")

// ErrNotifier is reported to the clients whenever the notifier fails
// in an operation which cannot tolerate it.
var ErrNotifier = errors.New("notification failure")

// Storage wraps an object store failure as a 500 error whose visible
// message is ErrStorage while cause remains available to errors.Is
// and errors.As for logging purposes.
func Storage(cause error) *Error {
	return &Error{
		Err:            &hidden{visible: ErrStorage, cause: cause},
		HTTPStatusCode: http.StatusInternalServerError,
	}
}

// Notifier wraps a notification failure similar to Storage.
func Notifier(cause error) *Error {
	return &Error{
		Err:            &hidden{visible: ErrNotifier, cause: cause},
		HTTPStatusCode: http.StatusInternalServerError,
	}
}

// hidden shows the visible error message while keeping both of the
// visible and cause errors in the chain.
type hidden struct {
	visible error
	cause   error
}

func (h *hidden) Error() string {
	return h.visible.Error()
}

func (h *hidden) Unwrap() []error {
	return []error{h.visible, h.cause}
}

// Cause returns the internal cause of a Storage or Notifier error,
// or err itself for other errors. It is useful for logging.
func Cause(err error) error {
	var h *hidden
	if errors.As(err, &h) {
		return h.cause
	}
	return err
}

// StatusOf returns the HTTP status code of the first Error in the err
// chain, or http.StatusInternalServerError if there is no such Error.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatusCode
	}
	return http.StatusInternalServerError
}
