package cmd

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"cpuspecs/internal/app"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommandPair() (*cobra.Command, *cobra.Command) {
	parent := &cobra.Command{Use: app.Name}
	child := &cobra.Command{Use: "report", RunE: func(*cobra.Command, []string) error { return nil }}
	parent.AddCommand(child)
	return parent, child
}

func resetRootFlags(t *testing.T) {
	t.Helper()
	logger := slog.Default()
	t.Cleanup(func() {
		flagDebug = false
		flagSyslog = false
		flagLogStdOut = false
		flagOutputDir = ""
		slog.SetDefault(logger)
	})
}

func TestInitializeApplication(t *testing.T) {
	resetRootFlags(t)
	dir := t.TempDir()
	flagOutputDir = dir
	flagLogStdOut = true
	flagDebug = true
	parent, child := newCommandPair()

	require.NoError(t, initializeApplication(child, nil))
	appContext, err := app.FromContext(parent.Context())
	require.NoError(t, err)
	assert.Equal(t, dir, appContext.OutputDir)
	assert.Equal(t, gVersion, appContext.Version)
	assert.True(t, appContext.Debug)
	assert.Empty(t, appContext.LogFilePath)
	assert.NoError(t, terminateApplication(child, nil))
}

func TestInitializeApplicationErrors(t *testing.T) {
	resetRootFlags(t)
	_, child := newCommandPair()

	flagOutputDir = filepath.Join(t.TempDir(), "missing")
	assert.Error(t, initializeApplication(child, nil))

	flagOutputDir = ""
	flagSyslog = true
	flagLogStdOut = true
	assert.Error(t, initializeApplication(child, nil))
}

func TestTerminateWithoutInitialize(t *testing.T) {
	_, child := newCommandPair()
	assert.NoError(t, terminateApplication(child, nil))
}

func TestSyslogHandlerAttrs(t *testing.T) {
	h := &SyslogHandler{logLeveler: slog.LevelInfo}
	grouped := h.WithGroup("dump").WithAttrs([]slog.Attr{slog.String("source", "zen4")}).(*SyslogHandler)
	require.Len(t, grouped.attrs, 1)
	assert.Equal(t, "dump.source", grouped.attrs[0].Key)
	assert.Equal(t, "dump.", grouped.group)
	assert.Empty(t, h.attrs)
	assert.Same(t, h, h.WithGroup(""))
	assert.False(t, h.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, h.Enabled(t.Context(), slog.LevelWarn))
}

func TestSourcePath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Base(wd), "root.go"), sourcePath(filepath.Join(wd, "root.go")))
	assert.Equal(t, "root.go", sourcePath("root.go"))
}
