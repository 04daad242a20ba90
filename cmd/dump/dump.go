// Package dump is a subcommand of the root command. It records the CPUID leaves a
// detection pass reads so the pass can be replayed on another machine.
package dump

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cpuspecs/internal/app"
	"cpuspecs/internal/common"
	"cpuspecs/internal/cpuid"
	"cpuspecs/internal/specs"
	"cpuspecs/internal/util"
)

const cmdName = "dump"

var examples = []string{
	fmt.Sprintf("  Print the leaves of the local processor: $ %s %s", app.Name, cmdName),
	fmt.Sprintf("  Save the leaves to a file:               $ %s %s --file zen4.yaml", app.Name, cmdName),
	fmt.Sprintf("  Trim a dump to the leaves decoded:       $ %s %s --replay full.yaml --file trimmed.yaml", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Record the CPUID leaves read while decoding the profile",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var flagFile string

const flagFileName = "file"

func init() {
	Cmd.Flags().StringVar(&flagFile, flagFileName, "", "")
	common.AddSourceFlags(Cmd)
	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []app.FlagGroup {
	return []app.FlagGroup{
		{
			GroupName: "Options",
			Flags: []app.Flag{
				{
					Name: flagFileName,
					Help: "write the dump to this file instead of stdout",
				},
			},
		},
		common.GetSourceFlagGroup(),
	}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if flagFile != "" {
		path, err := util.AbsPath(flagFile)
		if err != nil {
			return common.FlagValidationError(cmd, fmt.Sprintf("failed to expand file path: %v", err))
		}
		if exists, err := util.DirectoryExists(path); err == nil && exists {
			return common.FlagValidationError(cmd, fmt.Sprintf("%s is a directory", flagFile))
		}
		flagFile = path
	}
	return common.ValidateSourceFlags(cmd)
}

// record runs a full detection pass, specs and identity, over the backend and
// returns the profile with a script that replays exactly the queries it issued
func record(backend cpuid.Backend) (specs.Profile, *cpuid.Script) {
	recorder := cpuid.NewRecorder(backend)
	profile := specs.NewDetector(recorder, backend).Profile()
	return profile, recorder.Script(profile.Available)
}

func runCmd(cmd *cobra.Command, args []string) error {
	sources, err := common.Sources()
	if err != nil {
		return dumpError(cmd, err)
	}
	source := sources[0]
	profile, script := record(source.Backend)
	if flagFile == "" {
		if err := script.WriteYAML(os.Stdout); err != nil {
			return dumpError(cmd, err)
		}
	} else if err := script.Save(flagFile); err != nil {
		return dumpError(cmd, err)
	}
	slog.Info("wrote cpuid dump", slog.String("source", source.Name), slog.String("file", flagFile), slog.Int("leaves", script.Len()), slog.Bool("available", profile.Available))
	if flagFile != "" {
		fmt.Printf("Recorded %d leaves from %s (%s) to %s\n", script.Len(), source.Name, profile.Vendor(), flagFile)
	}
	return nil
}

func dumpError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	slog.Error(err.Error())
	cmd.SilenceUsage = true
	return err
}
