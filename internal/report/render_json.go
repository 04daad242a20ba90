package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/json"

	"cpuspecs/internal/table"
)

type outRecord map[string]string
type outTable []outRecord
type outReport map[string]outTable

func buildJsonReport(allTableValues []table.TableValues) outReport {
	oReport := make(outReport)
	for _, tableValues := range allTableValues {
		var oTable outTable
		if len(tableValues.Fields) == 0 {
			oReport[tableValues.Name] = oTable
			continue
		}
		numRecords := len(tableValues.Fields[0].Values)
		if numRecords > 0 {
			for recordIdx := range numRecords {
				oRecord := make(outRecord)
				for _, field := range tableValues.Fields {
					oRecord[field.Name] = field.Values[recordIdx]
				}
				oTable = append(oTable, oRecord)
			}
		} else {
			// insert an empty record
			oRecord := make(outRecord)
			for _, field := range tableValues.Fields {
				oRecord[field.Name] = ""
			}
			oTable = append(oTable, oRecord)
		}
		oReport[tableValues.Name] = oTable
	}
	return oReport
}

func createJsonReport(allTableValues []table.TableValues) (out []byte, err error) {
	return json.MarshalIndent(buildJsonReport(allTableValues), "", " ")
}

// the multi-source report is keyed by source name
func createJsonReportMultiSource(allSourcesTableValues [][]table.TableValues, sourceNames []string) (out []byte, err error) {
	oReports := make(map[string]outReport, len(sourceNames))
	for i, sourceName := range sourceNames {
		oReports[sourceName] = buildJsonReport(allSourcesTableValues[i])
	}
	return json.MarshalIndent(oReports, "", " ")
}
