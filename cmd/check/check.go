// Package check is a subcommand of the root command. It evaluates dispatch
// requirements against the decoded capability profile.
package check

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cpuspecs/internal/app"
	"cpuspecs/internal/common"
	"cpuspecs/internal/dispatch"
	"cpuspecs/internal/specs"
)

const cmdName = "check"

var examples = []string{
	fmt.Sprintf("  Check a requirement:             $ %s %s 'AVX2 && FMA3 && core_count >= 4'", app.Name, cmdName),
	fmt.Sprintf("  Print the dispatch level:        $ %s %s --level", app.Name, cmdName),
	fmt.Sprintf("  Choose between code paths:       $ %s %s --path 'avx512=AVX512F' --path 'avx2=AVX2 && FMA3' --path 'generic=SSE2'", app.Name, cmdName),
	fmt.Sprintf("  Check a recorded processor:      $ %s %s --replay zen4.yaml 'l3_size >= mib(32)'", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:   cmdName + " [expression]",
	Short: "Evaluate a dispatch requirement against the processor",
	Long: fmt.Sprintf(`Evaluate a boolean expression over the capability profile. The command exits with
status 1 when the requirement is not satisfied.

Variables: %s
Functions: has(name), kib(n), mib(n)`, strings.Join(dispatch.VariableNames(), ", ")),
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
}

// ErrNotSatisfied is returned when the profile does not meet the requirement
var ErrNotSatisfied = errors.New("requirement not satisfied")

var (
	flagLevel bool
	flagPaths []string

	requirement *dispatch.Requirement
	candidates  []dispatch.Candidate
)

const (
	flagLevelName = "level"
	flagPathName  = "path"
)

func init() {
	Cmd.Flags().BoolVar(&flagLevel, flagLevelName, false, "")
	Cmd.Flags().StringArrayVar(&flagPaths, flagPathName, nil, "")
	common.AddSourceFlags(Cmd)
	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []app.FlagGroup {
	return []app.FlagGroup{
		{
			GroupName: "Options",
			Flags: []app.Flag{
				{
					Name: flagLevelName,
					Help: "print the most capable dispatch level and its vector width",
				},
				{
					Name: flagPathName,
					Help: "a code path as name=expression, may be repeated, the first satisfied path is printed",
				},
			},
		},
		common.GetSourceFlagGroup(),
	}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !flagLevel && len(flagPaths) == 0 {
		return common.FlagValidationError(cmd, fmt.Sprintf("an expression, --%s or --%s is required", flagLevelName, flagPathName))
	}
	requirement = nil
	if len(args) == 1 {
		var err error
		requirement, err = dispatch.Compile(args[0])
		if err != nil {
			return common.FlagValidationError(cmd, err.Error())
		}
	}
	candidates = nil
	for _, path := range flagPaths {
		candidate, err := dispatch.ParseCandidate(path)
		if err != nil {
			return common.FlagValidationError(cmd, err.Error())
		}
		candidates = append(candidates, candidate)
	}
	return common.ValidateSourceFlags(cmd)
}

func runCmd(cmd *cobra.Command, args []string) error {
	profile, source, err := common.LoadProfile()
	if err != nil {
		return checkError(cmd, err)
	}
	slog.Info("checking profile", slog.String("source", source.Name), slog.Bool("available", profile.Available))
	satisfied, err := evaluate(cmd.OutOrStdout(), profile)
	if err != nil {
		return checkError(cmd, err)
	}
	if !satisfied {
		cmd.SilenceUsage = true
		return ErrNotSatisfied
	}
	return nil
}

// evaluate prints the level, the selected code path and the requirement result
// in that order. It returns false when the requirement or every code path fails.
func evaluate(w io.Writer, p specs.Profile) (bool, error) {
	satisfied := true
	if flagLevel {
		level := dispatch.SelectLevel(p.Specs)
		fmt.Fprintf(w, "level: %s (%d byte vectors)\n", level, level.VectorWidth())
	}
	if len(candidates) > 0 {
		selected, err := dispatch.Select(p, candidates)
		switch {
		case errors.Is(err, dispatch.ErrNoCandidate):
			fmt.Fprintln(w, "path: none")
			satisfied = false
		case err != nil:
			return false, err
		default:
			fmt.Fprintf(w, "path: %s\n", selected.Name)
		}
	}
	if requirement != nil {
		ok, err := requirement.Satisfied(p)
		if err != nil {
			return false, err
		}
		if ok {
			fmt.Fprintln(w, "satisfied")
		} else {
			fmt.Fprintln(w, "not satisfied")
			satisfied = false
		}
	}
	return satisfied, nil
}

func checkError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	slog.Error(err.Error())
	cmd.SilenceUsage = true
	return err
}
