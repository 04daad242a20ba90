// Package report provides functions to generate reports in various formats such as txt, json, xlsx.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"cpuspecs/internal/table"
)

const (
	FormatXlsx = "xlsx"
	FormatJson = "json"
	FormatTxt  = "txt"
	FormatAll  = "all"
)

const NoDataFound = "No data found."

var FormatOptions = []string{FormatTxt, FormatJson, FormatXlsx}

// Create generates a report in the specified format from the values of each table.
// The function ensures that all fields have the same number of values before generating the report.
// It returns an error if the format is not supported.
func Create(format string, allTableValues []table.TableValues) (out []byte, err error) {
	// make sure that all fields have the same number of values
	for _, tableValue := range allTableValues {
		numRows := -1
		for _, fieldValues := range tableValue.Fields {
			if numRows == -1 {
				numRows = len(fieldValues.Values)
				continue
			}
			if len(fieldValues.Values) != numRows {
				return nil, fmt.Errorf("expected %d value(s) for field, found %d", numRows, len(fieldValues.Values))
			}
		}
	}
	switch format {
	case FormatTxt:
		return createTextReport(allTableValues)
	case FormatJson:
		return createJsonReport(allTableValues)
	case FormatXlsx:
		return createXlsxReport(allTableValues)
	}
	return nil, fmt.Errorf("expected one of %s, got %s", strings.Join(FormatOptions, ", "), format)
}

// CreateMultiSource generates one report comparing the profiles decoded from
// several sources, e.g., the local processor and recorded dumps. Tables are
// rendered in the order of allTableNames.
func CreateMultiSource(format string, allSourcesTableValues [][]table.TableValues, sourceNames []string, allTableNames []string) (out []byte, err error) {
	if len(allSourcesTableValues) != len(sourceNames) {
		return nil, fmt.Errorf("expected %d source name(s), got %d", len(allSourcesTableValues), len(sourceNames))
	}
	switch format {
	case FormatTxt:
		return createTextReportMultiSource(allSourcesTableValues, sourceNames)
	case FormatJson:
		return createJsonReportMultiSource(allSourcesTableValues, sourceNames)
	case FormatXlsx:
		return createXlsxReportMultiSource(allSourcesTableValues, sourceNames, allTableNames)
	}
	return nil, fmt.Errorf("expected one of %s, got %s", strings.Join(FormatOptions, ", "), format)
}

// ExpandFormats replaces "all" with every supported format and rejects unknown
// formats
func ExpandFormats(formats []string) ([]string, error) {
	var expanded []string
	for _, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		if format == FormatAll {
			return FormatOptions, nil
		}
		known := false
		for _, option := range FormatOptions {
			if format == option {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("format options are: %s, %s", FormatAll, strings.Join(FormatOptions, ", "))
		}
		expanded = append(expanded, format)
	}
	return expanded, nil
}

func findTableIndex(allTableValues []table.TableValues, tableName string) int {
	for i, tableValues := range allTableValues {
		if tableValues.Name == tableName {
			return i
		}
	}
	return -1
}
