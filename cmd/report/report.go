// Package report is a subcommand of the root command. It generates a capability profile report for the processor.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cpuspecs/internal/app"
	"cpuspecs/internal/common"
	"cpuspecs/internal/report"
	"cpuspecs/internal/util"
)

const cmdName = "report"

var examples = []string{
	fmt.Sprintf("  Profile of the local processor:     $ %s %s", app.Name, cmdName),
	fmt.Sprintf("  Specific tables in specific format: $ %s %s --cache --isa --format txt,json", app.Name, cmdName),
	fmt.Sprintf("  Profile of a recorded processor:    $ %s %s --replay zen4.yaml", app.Name, cmdName),
	fmt.Sprintf("  Compare recorded processors:        $ %s %s --replay zen4.yaml --replay spr.yaml --format xlsx", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Generate a capability profile report for the processor",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

// flag vars
var (
	flagAll bool
	// categories
	flagProcessor bool
	flagLeaves    bool
	flagTopology  bool
	flagCache     bool
	flagIsa       bool
	flagDispatch  bool
)

// flag names
const (
	flagAllName = "all"
	// categories
	flagProcessorName = "processor"
	flagLeavesName    = "leaves"
	flagTopologyName  = "topology"
	flagCacheName     = "cache"
	flagIsaName       = "isa"
	flagDispatchName  = "dispatch"
)

// categories maps flag names to tables that will be included in report
var categories = []app.Category{
	{FlagName: flagProcessorName, FlagVar: &flagProcessor, Help: "Processor Identity", TableNames: []string{report.ProcessorTableName}},
	{FlagName: flagLeavesName, FlagVar: &flagLeaves, Help: "Highest Standard and Extended Leaves", TableNames: []string{report.LeafContextTableName}},
	{FlagName: flagTopologyName, FlagVar: &flagTopology, Help: "Core and Thread Topology", TableNames: []string{report.TopologyTableName}},
	{FlagName: flagCacheName, FlagVar: &flagCache, Help: "Cache Hierarchy", TableNames: []string{report.CacheTableName}},
	{FlagName: flagIsaName, FlagVar: &flagIsa, Help: "Instruction Sets", TableNames: []string{report.InstructionsTableName}},
	{FlagName: flagDispatchName, FlagVar: &flagDispatch, Help: "SIMD Dispatch Level", TableNames: []string{report.DispatchTableName}},
}

func init() {
	// set up category flags
	for _, cat := range categories {
		Cmd.Flags().BoolVar(cat.FlagVar, cat.FlagName, cat.DefaultValue, cat.Help)
	}
	// set up other flags
	Cmd.Flags().BoolVar(&flagAll, flagAllName, true, "")
	Cmd.Flags().StringSliceVar(&app.FlagFormat, app.FlagFormatName, []string{report.FormatTxt}, "")
	common.AddSourceFlags(Cmd)

	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []app.FlagGroup {
	var groups []app.FlagGroup
	flags := []app.Flag{
		{
			Name: flagAllName,
			Help: "report all categories",
		},
	}
	for _, cat := range categories {
		flags = append(flags, app.Flag{
			Name: cat.FlagName,
			Help: cat.Help,
		})
	}
	groups = append(groups, app.FlagGroup{
		GroupName: "Categories",
		Flags:     flags,
	})
	groups = append(groups, app.FlagGroup{
		GroupName: "Other Options",
		Flags: []app.Flag{
			{
				Name: app.FlagFormatName,
				Help: fmt.Sprintf("choose output format(s) from: %s", strings.Join(append([]string{report.FormatAll}, report.FormatOptions...), ", ")),
			},
		},
	})
	groups = append(groups, common.GetSourceFlagGroup())
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	// clear flagAll if any categories are selected
	if flagAll {
		for _, cat := range categories {
			if cat.FlagVar != nil && *cat.FlagVar {
				flagAll = false
				break
			}
		}
	}
	// validate format options
	formats, err := report.ExpandFormats(app.FlagFormat)
	if err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	app.FlagFormat = formats
	return common.ValidateSourceFlags(cmd)
}

// selectedTableNames returns the tables of the selected categories, every table
// when no category is selected
func selectedTableNames() []string {
	tableNames := []string{}
	for _, cat := range categories {
		if (cat.FlagVar != nil && *cat.FlagVar) || flagAll {
			for _, tableName := range cat.TableNames {
				tableNames = util.UniqueAppend(tableNames, tableName)
			}
		}
	}
	return tableNames
}

func runCmd(cmd *cobra.Command, args []string) error {
	reportingCommand := common.ReportingCommand{
		Cmd:        cmd,
		TableNames: selectedTableNames(),
		Formats:    app.FlagFormat,
	}
	return reportingCommand.Run()
}
