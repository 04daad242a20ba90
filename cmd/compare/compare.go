// Package compare is a subcommand of the root command. It checks the profile
// decoded from the local processor against other feature detection libraries.
package compare

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"

	"cpuspecs/internal/app"
	"cpuspecs/internal/common"
	"cpuspecs/internal/compare"
)

const cmdName = "compare"

var examples = []string{
	fmt.Sprintf("  Compare with the reference libraries:     $ %s %s", app.Name, cmdName),
	fmt.Sprintf("  Fail when a library disagrees:            $ %s %s --strict", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:   cmdName,
	Short: "Compare the decoded profile with other CPU feature detection libraries",
	Long: fmt.Sprintf(`Compare the profile decoded from the local processor with %s and %s.
Values a library does not report are listed as unchecked.`, compare.SourceXSys, compare.SourceKlauspost),
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

// ErrDifferences is returned in strict mode when a library disagrees with the profile
var ErrDifferences = errors.New("reference libraries disagree with the decoded profile")

var (
	flagStrict  bool
	flagVerbose bool
)

const (
	flagStrictName  = "strict"
	flagVerboseName = "verbose"
)

func init() {
	Cmd.Flags().BoolVar(&flagStrict, flagStrictName, false, "")
	Cmd.Flags().BoolVar(&flagVerbose, flagVerboseName, false, "")
	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []app.FlagGroup {
	return []app.FlagGroup{
		{
			GroupName: "Options",
			Flags: []app.Flag{
				{
					Name: flagStrictName,
					Help: "exit with status 1 when any difference is found",
				},
				{
					Name: flagVerboseName,
					Help: "list the agreed and unchecked values",
				},
			},
		},
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	profile := common.LocalSource().Detector().Profile()
	results := compare.Run(profile)
	slog.Info("compared profile", slog.Bool("available", profile.Available), slog.Int("references", len(results)))
	differences := printResults(cmd.OutOrStdout(), results, flagVerbose)
	if flagStrict && differences > 0 {
		cmd.SilenceUsage = true
		return ErrDifferences
	}
	return nil
}

// printResults writes one section per reference and returns the number of
// differences found
func printResults(w io.Writer, results []compare.Result, verbose bool) int {
	if len(results) == 0 {
		fmt.Fprintln(w, "No reference libraries are available on this architecture.")
		return 0
	}
	differences := 0
	for _, result := range results {
		fmt.Fprintf(w, "%s: %d agreed, %d unchecked, %d differences\n", result.Source,
			result.Agreed.Cardinality(), result.Unchecked.Cardinality(), len(result.Differences))
		for _, d := range result.Differences {
			fmt.Fprintf(w, "  %s\n", d)
		}
		if verbose {
			fmt.Fprintf(w, "  agreed: %s\n", joinSorted(result.Agreed))
			fmt.Fprintf(w, "  unchecked: %s\n", joinSorted(result.Unchecked))
		}
		differences += len(result.Differences)
	}
	return differences
}

func joinSorted(set mapset.Set[string]) string {
	if set.Cardinality() == 0 {
		return "none"
	}
	return strings.Join(mapset.Sorted(set), " ")
}
