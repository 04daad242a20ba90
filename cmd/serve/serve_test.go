package serve

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"cpuspecs/internal/cpuid"
	"cpuspecs/internal/specs"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const phenomDump = "../../internal/specs/testdata/amd-phenom-ii.yaml"

func TestValidateFlags(t *testing.T) {
	saved := flagListen
	t.Cleanup(func() { flagListen = saved })
	cmd := &cobra.Command{Use: cmdName}

	flagListen = ":9105"
	assert.NoError(t, validateFlags(cmd, nil))
	flagListen = "127.0.0.1:0"
	assert.NoError(t, validateFlags(cmd, nil))
	flagListen = "9105"
	assert.Error(t, validateFlags(cmd, nil))
}

func TestNewRegistry(t *testing.T) {
	script, err := cpuid.LoadScript(phenomDump)
	require.NoError(t, err)
	store := &specs.Store{}
	store.Refresh(specs.NewBackendDetector(script))

	families, err := newRegistry(store, false).Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["cpuspecs_core_count"])
	assert.True(t, names["cpuspecs_cache_size_bytes"])
	assert.False(t, names["go_goroutines"])

	families, err = newRegistry(store, true).Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if mf.GetName() == "go_goroutines" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRefreshOnSignal(t *testing.T) {
	script, err := cpuid.LoadScript(phenomDump)
	require.NoError(t, err)
	store := &specs.Store{}
	_, ok := store.Load()
	require.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})
	go func() {
		refreshOnSignal(ctx, store, specs.NewBackendDetector(script), signals)
		close(done)
	}()
	signals <- syscall.SIGHUP
	assert.Eventually(t, func() bool {
		_, ok := store.Load()
		return ok
	}, time.Second, 10*time.Millisecond)
	p, _ := store.Load()
	assert.Equal(t, specs.VendorAMD, p.Vendor())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refreshOnSignal did not return after cancel")
	}
}
