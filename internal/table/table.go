// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package table provides functions for building report tables from a decoded
// processor profile.
package table

import (
	"fmt"
	"log/slog"

	"cpuspecs/internal/specs"

	"github.com/xuri/excelize/v2"
)

// Field represents the values for a field in a table
type Field struct {
	Name        string
	Description string // optional description of the field
	Values      []string
}

// TableValues combines the table definition with the resulting fields and their values
type TableValues struct {
	TableDefinition
	Fields   []Field
	Insights []Insight
}

// Insight represents an insight about the data in a table
type Insight struct {
	Recommendation string
	Justification  string
}

type FieldsRetriever func(specs.Profile) []Field
type InsightsRetriever func(specs.Profile, TableValues) []Insight
type TextTableRenderer func(TableValues) string
type XlsxTableRenderer func(TableValues, *excelize.File, string, *int)

// TableDefinition defines the structure of a table in the report
type TableDefinition struct {
	Name    string
	Vendors []string // vendors, e.g., GenuineIntel, AuthenticAMD. If empty, it will be present for all vendors.
	// Fields function is called to retrieve field values from the profile
	FieldsFunc  FieldsRetriever
	HasRows     bool   // table is meant to be displayed in row form, i.e., a field may have multiple values
	NoDataFound string // message to display when no data is found
	// insights function is used to retrieve insights about the data in the table
	InsightsFunc InsightsRetriever
}

// AppliesTo reports whether the table is relevant for the profile's vendor
func (t TableDefinition) AppliesTo(p specs.Profile) bool {
	if len(t.Vendors) == 0 {
		return true
	}
	vendor := p.Vendor().String()
	for _, v := range t.Vendors {
		if v == vendor {
			return true
		}
	}
	return false
}

// ProcessTables builds the values of every table that applies to the profile
func ProcessTables(tables []TableDefinition, p specs.Profile) (allTableValues []TableValues) {
	for _, table := range tables {
		if !table.AppliesTo(p) {
			slog.Debug("skipping table", slog.String("table", table.Name), slog.String("vendor", p.Vendor().String()))
			continue
		}
		allTableValues = append(allTableValues, GetValuesForTable(table, p))
	}
	return
}

// GetFieldIndex returns the index of a field with the given name in the TableValues structure.
// Returns:
//   - int: The index of the field if found and valid, -1 otherwise
//   - error: nil if successful, an error describing the issue otherwise
func GetFieldIndex(fieldName string, tableValues TableValues) (int, error) {
	for i, field := range tableValues.Fields {
		if field.Name == fieldName {
			if len(field.Values) == 0 {
				return -1, fmt.Errorf("field [%s] does not have associated value(s)", field.Name)
			}
			return i, nil
		}
	}
	return -1, fmt.Errorf("field [%s] not found in table [%s]", fieldName, tableValues.Name)
}

// GetValuesForTable returns the fields and their values for the table
func GetValuesForTable(table TableDefinition, p specs.Profile) TableValues {
	// FieldsFunc can't be nil
	if table.FieldsFunc == nil {
		panic(fmt.Sprintf("table %s, FieldsFunc cannot be nil", table.Name))
	}
	fields := table.FieldsFunc(p)
	tableValues := TableValues{
		TableDefinition: table,
		Fields:          fields,
	}
	if err := validateTableValues(tableValues); err != nil {
		slog.Error("table validation failed", "table", table.Name, "error", err)
		return TableValues{
			TableDefinition: table,
			Fields:          []Field{},
		}
	}
	if table.InsightsFunc != nil {
		tableValues.Insights = table.InsightsFunc(p, tableValues)
	}
	return tableValues
}

func validateTableValues(tableValues TableValues) error {
	if tableValues.Name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	// no field values is a valid state
	if len(tableValues.Fields) == 0 {
		return nil
	}
	for i, field := range tableValues.Fields {
		if field.Name == "" {
			return fmt.Errorf("table %s, field %d, name cannot be empty", tableValues.Name, i)
		}
	}
	// the number of entries in each field must be the same
	numEntries := len(tableValues.Fields[0].Values)
	for i, field := range tableValues.Fields {
		if len(field.Values) != numEntries {
			return fmt.Errorf("table %s, field %d, %s, number of entries must be the same for all fields, expected %d, got %d", tableValues.Name, i, field.Name, numEntries, len(field.Values))
		}
	}
	return nil
}
