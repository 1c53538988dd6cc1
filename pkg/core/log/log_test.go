// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	require.NoError(t, log.Setup(&buf, "json", "warn"))
	ctx := context.Background()
	log.Info(ctx, "hidden")
	log.Warn(
		ctx, "upload failed",
		log.ID("boat_id", 42),
		log.Err("err", cerr.Storage(errors.New("quota"))),
	)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"boat_id":42`)
	assert.Contains(t, out, `"err":"storage failure: quota"`)
	assert.Contains(t, out, "log_test.go")
}

func TestSetupRejectsUnknownValues(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, log.Setup(&buf, "xml", "info"))
	assert.Error(t, log.Setup(&buf, "text", "loud"))
}

func TestErrNil(t *testing.T) {
	assert.Equal(t, "no-error", log.Err("err", nil).Value.String())
}
