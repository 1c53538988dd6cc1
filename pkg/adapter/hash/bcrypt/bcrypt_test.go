// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bcrypt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/pkg/adapter/hash/bcrypt"
	"github.com/momeni/boat-rental/pkg/core/passwd"
)

func TestHashAndCompare(t *testing.T) {
	h, err := bcrypt.New(4)
	require.NoError(t, err)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"), hash)

	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.ErrorIs(t, h.Compare(hash, "wrong horse"), passwd.ErrMismatch)

	err = h.Compare("not-a-hash", "correct horse")
	require.Error(t, err)
	assert.NotErrorIs(t, err, passwd.ErrMismatch)
}

func TestHashRejects(t *testing.T) {
	h, err := bcrypt.New(4)
	require.NoError(t, err)
	_, err = h.Hash("")
	assert.Error(t, err)
	_, err = h.Hash(strings.Repeat("x", 73))
	assert.Error(t, err)

	_, err = bcrypt.New(1)
	assert.Error(t, err)
}
