// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package sheetedit

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// MimeType is the content type of an xlsx workbook.
const MimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Value is the content of a cell: a string or a float64.
//
// A formula is never stored, only its result.
type Value = any

// Sheet is one named table of a workbook.
//
// Rows of Data need not be of the same length, missing cells read as "".
type Sheet struct {
	Name    string
	Headers []string
	Data    [][]Value
}

// Workbook is an ordered collection of sheets, identified by FileName.
type Workbook struct {
	FileName string
	Sheets   []*Sheet
}

// Cell returns the value at (row, col), or "" if there is no such cell.
func (s *Sheet) Cell(row, col int) Value {
	if s == nil || row < 0 || col < 0 || row >= len(s.Data) || col >= len(s.Data[row]) {
		return ""
	}
	if v := s.Data[row][col]; v != nil {
		return v
	}
	return ""
}

// SetCell stores v at (row, col), growing the rows and the row as needed.
func (s *Sheet) SetCell(row, col int, v Value) {
	for len(s.Data) <= row {
		s.Data = append(s.Data, nil)
	}
	r := s.Data[row]
	for len(r) <= col {
		r = append(r, "")
	}
	r[col] = v
	s.Data[row] = r
}

// Width returns the length of the widest row.
func (s *Sheet) Width() int {
	var n int
	for _, r := range s.Data {
		n = max(n, len(r))
	}
	return n
}

// Clone returns a deep copy of the sheet.
func (s *Sheet) Clone() *Sheet {
	if s == nil {
		return nil
	}
	c := Sheet{Name: s.Name, Headers: append([]string(nil), s.Headers...)}
	if s.Data != nil {
		c.Data = make([][]Value, len(s.Data))
		for i, r := range s.Data {
			if r != nil {
				c.Data[i] = append(make([]Value, 0, len(r)), r...)
			}
		}
	}
	return &c
}

// Clone returns a deep copy of the workbook.
func (wb *Workbook) Clone() *Workbook {
	if wb == nil {
		return nil
	}
	c := Workbook{FileName: wb.FileName, Sheets: make([]*Sheet, len(wb.Sheets))}
	for i, s := range wb.Sheets {
		c.Sheets[i] = s.Clone()
	}
	return &c
}

// Text returns the plain string form of a cell value.
func Text(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// ColumnLabel returns the spreadsheet column label of the 0-based index:
// A, B, ..., Z, AA, AB, ...
func ColumnLabel(i int) string {
	s, err := excelize.ColumnNumberToName(i + 1)
	if err != nil {
		return strconv.Itoa(i + 1)
	}
	return s
}

// ColumnIndex returns the 0-based index of the column label (A=0, Z=25, AA=26).
func ColumnIndex(label string) (int, error) {
	n, err := excelize.ColumnNameToNumber(label)
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

// SyntheticLabels returns the first n column labels.
func SyntheticLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = ColumnLabel(i)
	}
	return labels
}
