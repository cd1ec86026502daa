package core

// workbook.go reads and writes .xlsx files using the same column order and
// value coercion as the CSV codec.

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WorkbookContentType is the MIME type of SerializeWorkbook output.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultColWidth = 18

// SerializeWorkbook renders records as a single-sheet workbook. The header
// row is bold and every column gets the width hint from its FieldSpec.
func SerializeWorkbook(records []Record, def KindDefinition) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := def.Info.Label
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(def.Info.Headers))
	for i, h := range def.Info.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(def.FieldSpecs))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", style); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i, rec := range records {
		row := make([]any, len(def.FieldSpecs))
		for j, spec := range def.FieldSpecs {
			row[j] = formatValue(rec[spec.Key])
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	for i, spec := range def.FieldSpecs {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := spec.Width
		if width <= 0 {
			width = defaultColWidth
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return nil, fmt.Errorf("column width %s: %w", col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseWorkbook reads the first sheet of an .xlsx file into partial records.
// The first non-blank row is the header. Cells are used as-is apart from
// trimming; quote stripping only applies to delimited text.
func ParseWorkbook(data []byte, def KindDefinition) ([]ParsedRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &MalformedInputError{Reason: "not a readable workbook: " + err.Error()}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &MalformedInputError{Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	type sheetRow struct {
		num   int
		cells []string
	}
	var kept []sheetRow
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}
		kept = append(kept, sheetRow{num: i + 1, cells: row})
	}

	if len(kept) < 2 {
		return nil, &MalformedInputError{Lines: len(kept)}
	}

	keys := resolveHeader(def, kept[0].cells)
	out := make([]ParsedRow, 0, len(kept)-1)
	for _, r := range kept[1:] {
		out = append(out, ParsedRow{Line: r.num, Record: buildRecord(def, keys, r.cells)})
	}
	return out, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
