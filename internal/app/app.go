// Package app defines application-wide types, constants, and context
// that are shared across multiple commands.
package app

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Name is the name of the application executable.
var Name = filepath.Base(os.Args[0])

// Context represents the application context that can be accessed from all commands.
type Context struct {
	Timestamp   string // Timestamp is the timestamp when the application was started.
	OutputDir   string // OutputDir is the directory where the application will write output files.
	LogFilePath string // LogFilePath is the path to the log file.
	Version     string // Version is the version of the application.
	Debug       bool   // Debug is true if the application is running in debug mode.
}

type contextKey struct{}

// WithContext returns a copy of parent that carries the application context
func WithContext(parent context.Context, appContext Context) context.Context {
	return context.WithValue(parent, contextKey{}, appContext)
}

// FromContext returns the application context carried by ctx
func FromContext(ctx context.Context) (Context, error) {
	if ctx == nil {
		return Context{}, fmt.Errorf("no application context")
	}
	appContext, ok := ctx.Value(contextKey{}).(Context)
	if !ok {
		return Context{}, fmt.Errorf("no application context")
	}
	return appContext, nil
}

// Flag names for flags defined in the root command, but sometimes used in other commands.
const (
	FlagDebugName     = "debug"
	FlagSyslogName    = "syslog"
	FlagLogStdOutName = "log-stdout"
	FlagOutputDirName = "output"
)

// Flag names and variables for the output format flag used by reporting commands.
const FlagFormatName = "format"

var FlagFormat []string

// Category represents a report category with associated tables and flags.
type Category struct {
	FlagName     string
	TableNames   []string
	FlagVar      *bool
	DefaultValue bool
	Help         string
}

// Flag represents a command-line flag with its name and help text.
type Flag struct {
	Name string
	Help string
}

// FlagGroup represents a group of related flags with a group name.
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}
