package app

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := WithContext(context.Background(), Context{OutputDir: "/tmp/out", Version: "1.2.3"})
	appContext, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", appContext.OutputDir)
	assert.Equal(t, "1.2.3", appContext.Version)
}

func TestFromContextMissing(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.Error(t, err)
	_, err = FromContext(nil) //nolint:staticcheck
	assert.Error(t, err)
}
