package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"fmt"
	"strconv"

	"cpuspecs/internal/table"

	"github.com/xuri/excelize/v2"
)

const (
	XlsxPrimarySheetName  = "Report"
	XlsxInsightsSheetName = "Insights"
)

var customXlsxRenderers = map[string]table.XlsxTableRenderer{}

// RegisterXlsxRenderer allows external packages to register custom xlsx renderers for specific tables
func RegisterXlsxRenderer(tableName string, renderer table.XlsxTableRenderer) {
	customXlsxRenderers[tableName] = renderer
}

func cellName(col int, row int) (name string) {
	columnName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return
	}
	name, err = excelize.JoinCellName(columnName, row)
	if err != nil {
		return
	}
	return
}

func boldStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	return style
}

func renderXlsxTable(tableValues table.TableValues, f *excelize.File, sheetName string, row *int) {
	col := 1
	tableNameStyle := boldStyle(f)
	_ = f.SetCellValue(sheetName, cellName(col, *row), tableValues.Name)
	_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), tableNameStyle)
	*row++
	if len(tableValues.Fields) == 0 || len(tableValues.Fields[0].Values) == 0 {
		msg := NoDataFound
		if tableValues.NoDataFound != "" {
			msg = tableValues.NoDataFound
		}
		_ = f.SetCellValue(sheetName, cellName(col, *row), msg)
		*row += 2
		return
	}
	if renderer, ok := customXlsxRenderers[tableValues.Name]; ok {
		renderer(tableValues, f, sheetName, row)
	} else {
		DefaultXlsxTableRendererFunc(tableValues, f, sheetName, row)
	}
	*row++
}

func renderXlsxTableMultiSource(sourceTableValues []table.TableValues, sourceNames []string, f *excelize.File, sheetName string, row *int) {
	col := 1
	tableNameStyle := boldStyle(f)
	sourceNameStyle := boldStyle(f)
	fieldNameStyle := boldStyle(f)

	_ = f.SetCellValue(sheetName, cellName(col, *row), sourceTableValues[0].Name)
	_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), tableNameStyle)

	if !sourceTableValues[0].HasRows {
		col += 2
		// print the source names
		for _, sourceName := range sourceNames {
			_ = f.SetCellValue(sheetName, cellName(col, *row), sourceName)
			_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), sourceNameStyle)
			col++
		}
		*row++

		// print the field names and values from each source
		for fieldIdx, field := range sourceTableValues[0].Fields {
			col = 2
			_ = f.SetCellValue(sheetName, cellName(col, *row), field.Name)
			_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), fieldNameStyle)
			col++
			for sourceIdx := range sourceNames {
				var fieldValue string
				fields := sourceTableValues[sourceIdx].Fields
				if fieldIdx < len(fields) && len(fields[fieldIdx].Values) > 0 {
					fieldValue = fields[fieldIdx].Values[0]
				}
				_ = f.SetCellValue(sheetName, cellName(col, *row), getValueForCell(fieldValue))
				col++
			}
			*row++
		}
	} else {
		*row++
		for sourceIdx, sourceName := range sourceNames {
			col = 2
			_ = f.SetCellValue(sheetName, cellName(col, *row), sourceName)
			_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), sourceNameStyle)
			*row++

			// if no data found, print a message and skip to the next source
			if len(sourceTableValues[sourceIdx].Fields) == 0 || len(sourceTableValues[sourceIdx].Fields[0].Values) == 0 {
				msg := NoDataFound
				if sourceTableValues[sourceIdx].NoDataFound != "" {
					msg = sourceTableValues[sourceIdx].NoDataFound
				}
				_ = f.SetCellValue(sheetName, cellName(col, *row), msg)
				*row += 2
				continue
			}

			// print the field names as column headings across the top of the table
			col = 2
			for _, field := range sourceTableValues[sourceIdx].Fields {
				_ = f.SetCellValue(sheetName, cellName(col, *row), field.Name)
				_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), fieldNameStyle)
				col++
			}
			*row++
			tableRows := len(sourceTableValues[sourceIdx].Fields[0].Values)
			for tableRow := range tableRows {
				col = 2
				for _, field := range sourceTableValues[sourceIdx].Fields {
					_ = f.SetCellValue(sheetName, cellName(col, *row), getValueForCell(field.Values[tableRow]))
					col++
				}
				*row++
			}
			*row++
		}
	}
	*row++
}

func DefaultXlsxTableRendererFunc(tableValues table.TableValues, f *excelize.File, sheetName string, row *int) {
	headerStyle := boldStyle(f)
	alignLeft, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "left",
		},
	})
	if tableValues.HasRows {
		// print the field names as column headings across the top of the table
		col := 2
		for _, field := range tableValues.Fields {
			_ = f.SetCellValue(sheetName, cellName(col, *row), field.Name)
			_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), headerStyle)
			col++
		}
		*row++
		tableRows := len(tableValues.Fields[0].Values)
		for tableRow := range tableRows {
			col = 2
			for _, field := range tableValues.Fields {
				_ = f.SetCellValue(sheetName, cellName(col, *row), getValueForCell(field.Values[tableRow]))
				_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), alignLeft)
				col++
			}
			*row++
		}
	} else {
		// print the field name followed by its value
		for _, field := range tableValues.Fields {
			var fieldValue string
			if len(field.Values) > 0 {
				fieldValue = field.Values[0]
			}
			_ = f.SetCellValue(sheetName, cellName(1, *row), field.Name)
			_ = f.SetCellValue(sheetName, cellName(2, *row), getValueForCell(fieldValue))
			_ = f.SetCellStyle(sheetName, cellName(2, *row), cellName(2, *row), alignLeft)
			*row++
		}
	}
}

func createXlsxReport(allTableValues []table.TableValues) (out []byte, err error) {
	f := excelize.NewFile()
	defer f.Close()
	sheetName := XlsxPrimarySheetName
	_ = f.SetSheetName("Sheet1", sheetName)
	_ = f.SetColWidth(sheetName, "A", "A", 25)
	_ = f.SetColWidth(sheetName, "B", "L", 25)
	row := 1
	for _, tableValues := range allTableValues {
		if tableValues.Name == TableNameInsights {
			insightsRow := 1
			_, _ = f.NewSheet(XlsxInsightsSheetName)
			_ = f.SetColWidth(XlsxInsightsSheetName, "A", "A", 15)
			_ = f.SetColWidth(XlsxInsightsSheetName, "B", "C", 60)
			renderXlsxTable(tableValues, f, XlsxInsightsSheetName, &insightsRow)
			continue
		}
		renderXlsxTable(tableValues, f, sheetName, &row)
	}
	var buf bytes.Buffer
	if _, err = f.WriteTo(&buf); err != nil {
		err = fmt.Errorf("failed to write xlsx report to buffer: %w", err)
		return
	}
	out = buf.Bytes()
	return
}

func createXlsxReportMultiSource(allSourcesTableValues [][]table.TableValues, sourceNames []string, allTableNames []string) (out []byte, err error) {
	f := excelize.NewFile()
	defer f.Close()
	sheetName := XlsxPrimarySheetName
	_ = f.SetSheetName("Sheet1", sheetName)
	_ = f.SetColWidth(sheetName, "A", "A", 15)
	_ = f.SetColWidth(sheetName, "B", "L", 25)
	row := 1

	// render the tables in the order they were passed in
	for _, tableName := range allTableNames {
		// build list of source names and TableValues for sources that have values for this table
		tableSources := []string{}
		tableValues := []table.TableValues{}
		for sourceIndex, sourceTableValues := range allSourcesTableValues {
			tableIndex := findTableIndex(sourceTableValues, tableName)
			if tableIndex == -1 {
				continue
			}
			tableSources = append(tableSources, sourceNames[sourceIndex])
			tableValues = append(tableValues, sourceTableValues[tableIndex])
		}
		if len(tableValues) == 0 {
			continue
		}
		if tableName == TableNameInsights {
			insightsRow := 1
			_, _ = f.NewSheet(XlsxInsightsSheetName)
			_ = f.SetColWidth(XlsxInsightsSheetName, "A", "A", 15)
			_ = f.SetColWidth(XlsxInsightsSheetName, "B", "C", 60)
			renderXlsxTableMultiSource(tableValues, tableSources, f, XlsxInsightsSheetName, &insightsRow)
			continue
		}
		renderXlsxTableMultiSource(tableValues, tableSources, f, sheetName, &row)
	}
	var buf bytes.Buffer
	if _, err = f.WriteTo(&buf); err != nil {
		err = fmt.Errorf("failed to write multi-source xlsx report to buffer: %w", err)
		return
	}
	out = buf.Bytes()
	return
}

func getValueForCell(value string) (val any) {
	intValue, err := strconv.Atoi(value)
	if err == nil {
		val = intValue
		return
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err == nil {
		val = floatValue
		return
	}
	val = value
	return
}
