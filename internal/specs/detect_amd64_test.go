//go:build amd64 && !purego

package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectHost(t *testing.T) {
	p := Detect()
	assert.True(t, p.Available)
	assert.Equal(t, SignatureLength, p.Identity.Manufacturer.Len())
	assert.GreaterOrEqual(t, p.Specs.ThreadsPerCore, 1)
	// every x86-64 processor has SSE2
	assert.True(t, p.Specs.Instructions.Has(SSE2))
}
