package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"cpuspecs/internal/dispatch"
	"cpuspecs/internal/specs"
	"cpuspecs/internal/table"
)

// table names
const (
	ProcessorTableName    = "Processor"
	LeafContextTableName  = "Leaf Context"
	TopologyTableName     = "Topology"
	CacheTableName        = "Cache"
	InstructionsTableName = "Instruction Sets"
	DispatchTableName     = "Dispatch"
	TableNameInsights     = "Insights"
)

// TableDefinitions lists the report tables in the order they are rendered. The
// Insights table is built from the other tables and is not listed here.
var TableDefinitions = []table.TableDefinition{
	{
		Name:         ProcessorTableName,
		FieldsFunc:   processorTableValues,
		InsightsFunc: processorTableInsights,
	},
	{
		Name:       LeafContextTableName,
		FieldsFunc: leafContextTableValues,
	},
	{
		Name:         TopologyTableName,
		FieldsFunc:   topologyTableValues,
		InsightsFunc: topologyTableInsights,
	},
	{
		Name:         CacheTableName,
		HasRows:      true,
		FieldsFunc:   cacheTableValues,
		InsightsFunc: cacheTableInsights,
	},
	{
		Name:         InstructionsTableName,
		HasRows:      true,
		FieldsFunc:   instructionsTableValues,
		InsightsFunc: instructionsTableInsights,
	},
	{
		Name:       DispatchTableName,
		FieldsFunc: dispatchTableValues,
	},
}

// TableNames returns the names of the report tables, Insights last
func TableNames() []string {
	var names []string
	for _, def := range TableDefinitions {
		names = append(names, def.Name)
	}
	return append(names, TableNameInsights)
}

// GetTableByName returns the definition of the named table
func GetTableByName(name string) (table.TableDefinition, error) {
	for _, def := range TableDefinitions {
		if def.Name == name {
			return def, nil
		}
	}
	return table.TableDefinition{}, fmt.Errorf("table %s not found", name)
}

// ProcessProfile builds the values of the named tables for the profile and
// appends the Insights table collected from them. An empty list selects every
// table.
func ProcessProfile(p specs.Profile, tableNames []string) ([]table.TableValues, error) {
	definitions := TableDefinitions
	if len(tableNames) > 0 {
		definitions = nil
		for _, name := range tableNames {
			def, err := GetTableByName(name)
			if err != nil {
				return nil, err
			}
			definitions = append(definitions, def)
		}
	}
	allTableValues := table.ProcessTables(definitions, p)
	return append(allTableValues, InsightsTableValues(allTableValues)), nil
}

// InsightsTableValues returns the insights table values from the table values
func InsightsTableValues(allTableValues []table.TableValues) table.TableValues {
	insightsTableValues := table.TableValues{
		TableDefinition: table.TableDefinition{
			Name:        TableNameInsights,
			HasRows:     true,
			NoDataFound: "No insights.",
		},
		Fields: []table.Field{
			{Name: "Recommendation", Values: []string{}},
			{Name: "Justification", Values: []string{}},
		},
	}
	for _, tableValues := range allTableValues {
		for _, insight := range tableValues.Insights {
			insightsTableValues.Fields[0].Values = append(insightsTableValues.Fields[0].Values, insight.Recommendation)
			insightsTableValues.Fields[1].Values = append(insightsTableValues.Fields[1].Values, insight.Justification)
		}
	}
	return insightsTableValues
}

func processorTableValues(p specs.Profile) []table.Field {
	uarch := ""
	if cpu, ok := microarchitecture(p); ok {
		uarch = cpu.MicroArchitecture
	}
	return []table.Field{
		{Name: "CPUID Available", Values: []string{yesNo(p.Available)}},
		{Name: "Vendor", Values: []string{p.Vendor().String()}},
		{Name: "Signature", Values: []string{p.Identity.Manufacturer.String()}},
		{Name: "Brand Name", Values: []string{p.Identity.Name.String()}},
		{Name: "Family", Values: []string{strconv.Itoa(p.Identity.Family)}},
		{Name: "Model", Values: []string{strconv.Itoa(p.Identity.Model)}},
		{Name: "Stepping", Values: []string{strconv.Itoa(p.Identity.Stepping)}},
		{Name: "Microarchitecture", Description: "from family, model and stepping", Values: []string{uarch}},
	}
}

func processorTableInsights(p specs.Profile, tableValues table.TableValues) []table.Insight {
	insights := []table.Insight{}
	if !p.Available {
		insights = append(insights, table.Insight{
			Recommendation: "Run on a processor or hypervisor that exposes the CPUID instruction.",
			Justification:  "CPUID is not available, all values are defaults.",
		})
		return insights
	}
	vendorIndex, err := table.GetFieldIndex("Vendor", tableValues)
	if err != nil {
		slog.Warn(err.Error())
		return insights
	}
	if tableValues.Fields[vendorIndex].Values[0] == specs.VendorUnknown.String() {
		insights = append(insights, table.Insight{
			Recommendation: "Treat topology and cache values as defaults.",
			Justification:  fmt.Sprintf("Vendor signature '%s' is not recognized, only common instruction sets were decoded.", p.Identity.Manufacturer.String()),
		})
	}
	return insights
}

func leafContextTableValues(p specs.Profile) []table.Field {
	return []table.Field{
		{Name: "Max Standard Leaf", Values: []string{formatLeaf(p.Leaves.MaxStandard)}},
		{Name: "Max Extended Leaf", Values: []string{formatLeaf(p.Leaves.MaxExtended)}},
	}
}

func topologyTableValues(p specs.Profile) []table.Field {
	return []table.Field{
		{Name: "Cores", Values: []string{strconv.Itoa(p.Specs.CoreCount)}},
		{Name: "Threads per Core", Values: []string{strconv.Itoa(p.Specs.ThreadsPerCore)}},
		{Name: "Logical CPUs", Values: []string{strconv.Itoa(p.Specs.LogicalCount())}},
		{Name: "Cache Line Size", Description: "bytes", Values: []string{strconv.Itoa(p.Specs.CacheLineSize)}},
	}
}

func topologyTableInsights(p specs.Profile, tableValues table.TableValues) []table.Insight {
	insights := []table.Insight{}
	cpu, ok := microarchitecture(p)
	if !ok {
		return insights
	}
	threadsIndex, err := table.GetFieldIndex("Threads per Core", tableValues)
	if err != nil {
		slog.Warn(err.Error())
		return insights
	}
	threads, err := strconv.Atoi(tableValues.Fields[threadsIndex].Values[0])
	if err != nil {
		slog.Warn("failed to parse threads per core", slog.String("error", err.Error()))
		return insights
	}
	if cpu.LogicalThreadCount > threads {
		insights = append(insights, table.Insight{
			Recommendation: "Consider enabling Hyper-Threading (SMT).",
			Justification:  fmt.Sprintf("%s supports %d threads per core, %d reported.", cpu.MicroArchitecture, cpu.LogicalThreadCount, threads),
		})
	}
	return insights
}

func cacheTableValues(p specs.Profile) []table.Field {
	fields := []table.Field{
		{Name: "Level"},
		{Name: "Size"},
		{Name: "Size (bytes)"},
		{Name: "Attached Cores"},
		{Name: "Instances"},
	}
	for _, level := range specs.CacheLevels {
		cache := p.Specs.Cache(level)
		fields[0].Values = append(fields[0].Values, level.String())
		fields[1].Values = append(fields[1].Values, formatSize(cache.DataCacheSize))
		fields[2].Values = append(fields[2].Values, formatCount(cache.DataCacheSize))
		fields[3].Values = append(fields[3].Values, strconv.Itoa(cache.AttachedCoreCount))
		fields[4].Values = append(fields[4].Values, strconv.Itoa(cacheInstances(p.Specs, level)))
	}
	return fields
}

func cacheTableInsights(p specs.Profile, tableValues table.TableValues) []table.Insight {
	insights := []table.Insight{}
	if p.Vendor() == specs.VendorIntel {
		insights = append(insights, table.Insight{
			Recommendation: "Treat Intel attached core counts as an upper bound.",
			Justification:  "Leaf 4 reports the maximum number of cores that may share a cache, not the number that do.",
		})
	}
	if p.Vendor() == specs.VendorAMD && p.Leaves.MaxExtended < 0x8000001D {
		insights = append(insights, table.Insight{
			Recommendation: "Treat the L3 size as a lower bound.",
			Justification:  "Legacy leaf 0x80000006 reports the L3 size in 512 KiB units.",
		})
	}
	return insights
}

func instructionsTableValues(p specs.Profile) []table.Field {
	fields := []table.Field{
		{Name: "Name"},
		{Name: "Description"},
		{Name: "Supported"},
	}
	for _, def := range specs.InstructionDefinitions {
		fields[0].Values = append(fields[0].Values, def.Name)
		fields[1].Values = append(fields[1].Values, def.FullName)
		fields[2].Values = append(fields[2].Values, yesNo(p.Specs.Instructions.Has(def.Instruction)))
	}
	return fields
}

func instructionsTableInsights(p specs.Profile, tableValues table.TableValues) []table.Insight {
	insights := []table.Insight{}
	if !p.Available {
		return insights
	}
	if p.Vendor() == specs.VendorAMD && p.Specs.Instructions.Has(specs.AVX512F) {
		insights = append(insights, table.Insight{
			Recommendation: "Confirm AVX-512 support before relying on it.",
			Justification:  "AVX-512 on AMD is inferred from the leaf 0xD subleaf 5 state layout.",
		})
	}
	if !p.Specs.Instructions.Has(specs.AVX2) {
		insights = append(insights, table.Insight{
			Recommendation: "Consider a processor with AVX2 for vectorized workloads.",
			Justification:  fmt.Sprintf("AVX2 is not supported, highest dispatch level is %s.", dispatch.SelectLevel(p.Specs)),
		})
	}
	return insights
}

func dispatchTableValues(p specs.Profile) []table.Field {
	level := dispatch.SelectLevel(p.Specs)
	next := "none"
	missing := ""
	if level < dispatch.LevelAVX512 {
		nextLevel := level + 1
		next = nextLevel.String()
		missing = strings.Join(nextLevel.Missing(p.Specs.Instructions), " ")
	}
	return []table.Field{
		{Name: "Level", Values: []string{level.String()}},
		{Name: "Vector Width", Description: "bytes", Values: []string{strconv.Itoa(level.VectorWidth())}},
		{Name: "Next Level", Values: []string{next}},
		{Name: "Missing for Next Level", Values: []string{missing}},
	}
}
