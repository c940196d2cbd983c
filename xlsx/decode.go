// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/UNO-SOFT/sheetedit"
	"github.com/xuri/excelize/v2"
)

// Decode parses an xlsx workbook.
//
// The first row of each sheet becomes the headers (blank labels are replaced
// by the column letter), the remaining rows the data.
// Numeric cells are returned as float64, everything else as string.
func Decode(b []byte) (*sheetedit.Workbook, error) {
	if len(b) == 0 {
		return nil, &sheetedit.DecodeError{Err: sheetedit.ErrEmptyPayload}
	}
	return Read(bytes.NewReader(b))
}

// Read is like Decode, but reads the workbook from r.
func Read(r io.Reader) (*sheetedit.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &sheetedit.DecodeError{Err: err}
	}
	defer f.Close()

	var wb sheetedit.Workbook
	for _, name := range f.GetSheetList() {
		sheet, err := readSheet(f, name)
		if err != nil {
			return nil, &sheetedit.DecodeError{Err: fmt.Errorf("sheet %q: %w", name, err)}
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return &wb, nil
}

func readSheet(f *excelize.File, name string) (*sheetedit.Sheet, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	sheet := sheetedit.Sheet{Name: name}
	if len(rows) == 0 {
		return &sheet, nil
	}
	sheet.Headers = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		if h == "" {
			h = sheetedit.ColumnLabel(i)
		}
		sheet.Headers[i] = h
	}
	if len(rows) > 1 {
		sheet.Data = make([][]sheetedit.Value, len(rows)-1)
	}
	for rowIdx, row := range rows[1:] {
		values := make([]sheetedit.Value, len(row))
		for colIdx, s := range row {
			if s == "" {
				values[colIdx] = ""
				continue
			}
			axis, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, axis)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", axis, err)
			}
			values[colIdx] = parseValue(typ, s)
		}
		sheet.Data[rowIdx] = values
	}
	return &sheet, nil
}

// parseValue returns numeric cells as float64, anything else as the string.
func parseValue(typ excelize.CellType, s string) sheetedit.Value {
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
