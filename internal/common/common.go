// Package common defines data structures and functions that are used by multiple
// application commands, e.g., report, dump, check, compare, serve.
package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cpuspecs/internal/app"
	"cpuspecs/internal/progress"
	"cpuspecs/internal/report"
	"cpuspecs/internal/table"
	"cpuspecs/internal/util"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// TableNameApplication is the name of the table describing the run that produced a report
const TableNameApplication = "Application"

// ReportingCommand is the common flow for commands that render the decoded
// profile(s) as reports
type ReportingCommand struct {
	Cmd            *cobra.Command
	ReportNamePost string
	TableNames     []string
	Formats        []string
}

// Run decodes a profile from every source, renders the requested tables in each
// format and writes the reports to the output directory. When more than one
// source is given, a combined report is written as well.
func (rc *ReportingCommand) Run() error {
	appContext, err := app.FromContext(rc.Cmd.Parent().Context())
	if err != nil {
		return err
	}
	sources, err := Sources()
	if err != nil {
		return reportError(rc.Cmd, err)
	}
	if err := util.CreateDirectoryIfNotExists(appContext.OutputDir, 0755); err != nil { // #nosec G301
		return reportError(rc.Cmd, err)
	}
	// show per-source progress when building more than one profile
	var multiSpinner *progress.MultiSpinner
	if len(sources) > 1 {
		multiSpinner = progress.NewMultiSpinner()
		for _, source := range sources {
			_ = multiSpinner.AddSpinner(source.Name)
		}
		multiSpinner.Start()
		defer multiSpinner.Finish()
	}
	status := func(sourceName, msg string) {
		if multiSpinner != nil {
			_ = multiSpinner.Status(sourceName, msg)
		}
	}
	reportFilePaths := []string{}
	stdoutReports := []string{}
	allSourcesTableValues := make([][]table.TableValues, 0, len(sources))
	sourceNames := make([]string, 0, len(sources))
	for _, source := range sources {
		status(source.Name, "decoding")
		profile := source.Detector().Profile()
		slog.Info("decoded profile", slog.String("source", source.Name), slog.Bool("available", profile.Available), slog.String("vendor", profile.Vendor().String()))
		allTableValues, err := report.ProcessProfile(profile, rc.TableNames)
		if err != nil {
			return reportError(rc.Cmd, fmt.Errorf("failed to process profile: %w", err))
		}
		allTableValues = append(allTableValues, applicationTableValues(appContext, source))
		status(source.Name, "rendering")
		for _, format := range rc.Formats {
			reportBytes, err := report.Create(format, allTableValues)
			if err != nil {
				return reportError(rc.Cmd, fmt.Errorf("failed to create report: %w", err))
			}
			if len(rc.Formats) == 1 && printToStdout(format) {
				stdoutReports = append(stdoutReports, fmt.Sprintf("%s:\n%s", source.Name, reportBytes))
			}
			reportPath := filepath.Join(appContext.OutputDir, rc.reportFilename(source.Name, format))
			if err := writeReport(reportBytes, reportPath); err != nil {
				return reportError(rc.Cmd, err)
			}
			reportFilePaths = append(reportFilePaths, reportPath)
		}
		allSourcesTableValues = append(allSourcesTableValues, allTableValues)
		sourceNames = append(sourceNames, source.Name)
		status(source.Name, "complete")
	}
	if len(sources) > 1 {
		allTableNames := append(report.TableNames(), TableNameApplication)
		for _, format := range rc.Formats {
			reportBytes, err := report.CreateMultiSource(format, allSourcesTableValues, sourceNames, allTableNames)
			if err != nil {
				return reportError(rc.Cmd, fmt.Errorf("failed to create combined report: %w", err))
			}
			reportPath := filepath.Join(appContext.OutputDir, rc.reportFilename("all_sources", format))
			if err := writeReport(reportBytes, reportPath); err != nil {
				return reportError(rc.Cmd, err)
			}
			reportFilePaths = append(reportFilePaths, reportPath)
		}
	}
	if multiSpinner != nil {
		multiSpinner.Finish()
	}
	for _, stdoutReport := range stdoutReports {
		fmt.Print(stdoutReport)
	}
	if len(reportFilePaths) > 0 {
		fmt.Println("Report files:")
	}
	for _, reportFilePath := range reportFilePaths {
		fmt.Printf("  %s\n", reportFilePath)
	}
	return nil
}

func (rc *ReportingCommand) reportFilename(sourceName, format string) string {
	post := ""
	if rc.ReportNamePost != "" {
		post = "_" + rc.ReportNamePost
	}
	return fmt.Sprintf("%s%s.%s", sourceName, post, format)
}

// printToStdout reports whether a single-format report is echoed to stdout.
// Text always is, json only when stdout is piped to another program.
func printToStdout(format string) bool {
	switch format {
	case report.FormatTxt:
		return true
	case report.FormatJson:
		return !term.IsTerminal(int(os.Stdout.Fd()))
	}
	return false
}

func applicationTableValues(appContext app.Context, source Source) table.TableValues {
	return table.TableValues{
		TableDefinition: table.TableDefinition{
			Name: TableNameApplication,
		},
		Fields: []table.Field{
			{Name: "Version", Values: []string{appContext.Version}},
			{Name: "Args", Values: []string{strings.Join(os.Args, " ")}},
			{Name: "Source", Values: []string{source.Path}},
			{Name: "OutputDir", Values: []string{appContext.OutputDir}},
		},
	}
}

// writeReport writes the report bytes to the specified path.
func writeReport(reportBytes []byte, reportPath string) error {
	err := os.WriteFile(reportPath, reportBytes, 0644) // #nosec G306
	if err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// reportError prints and logs an error that ends a command
func reportError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	slog.Error(err.Error())
	cmd.SilenceUsage = true
	return err
}

// FlagValidationError is used to report an error with a flag
func FlagValidationError(cmd *cobra.Command, msg string) error {
	err := errors.New(msg)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	fmt.Fprintf(os.Stderr, "See '%s --help' for usage details.\n", cmd.CommandPath())
	cmd.SilenceUsage = true
	return err
}

// UsageFunc returns a cobra usage function that prints the command's flags in
// the groups returned by getFlagGroups followed by the global flags
func UsageFunc(getFlagGroups func() []app.FlagGroup) func(*cobra.Command) error {
	return func(cmd *cobra.Command) error {
		cmd.Printf("Usage: %s\n\n", cmd.UseLine())
		if cmd.Example != "" {
			cmd.Printf("Examples:\n%s\n\n", cmd.Example)
		}
		cmd.Println("Flags:")
		for _, group := range getFlagGroups() {
			cmd.Printf("  %s:\n", group.GroupName)
			for _, flag := range group.Flags {
				flagDefault := ""
				if f := cmd.Flags().Lookup(flag.Name); f != nil && f.DefValue != "" && f.DefValue != "[]" {
					flagDefault = fmt.Sprintf(" (default: %s)", f.DefValue)
				}
				cmd.Printf("    --%-20s %s%s\n", flag.Name, flag.Help, flagDefault)
			}
		}
		if cmd.HasParent() {
			cmd.Println("\nGlobal Flags:")
			cmd.Parent().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
				flagDefault := ""
				if pf.DefValue != "" {
					flagDefault = fmt.Sprintf(" (default: %s)", pf.DefValue)
				}
				cmd.Printf("  --%-20s %s%s\n", pf.Name, pf.Usage, flagDefault)
			})
		}
		return nil
	}
}
