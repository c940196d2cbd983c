// Copyright 2020, 2023, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlsx converts between xlsx workbooks and sheetedit.Workbook.
package xlsx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/UNO-SOFT/sheetedit"
	"github.com/xuri/excelize/v2"
)

var _ = (sheetedit.Writer)((*XLSXWriter)(nil))

type XLSXWriter struct {
	w      io.Writer
	xl     *excelize.File
	styles map[string]int
	sheets []string
	mu     sync.Mutex
}

type XLSXSheet struct {
	xl   *excelize.File
	Name string
	row  int64
	mu   sync.Mutex
}

// NewWriter returns a new sheetedit.Writer.
//
// This writer allows concurrent writes to separate sheets.
//
// This writer collects everything in memory, so big sheets may impose problems.
func NewWriter(w io.Writer) *XLSXWriter {
	return &XLSXWriter{w: w, xl: excelize.NewFile()}
}

func (xlw *XLSXWriter) Close() error {
	if xlw == nil {
		return nil
	}
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	xl, w := xlw.xl, xlw.w
	xlw.xl, xlw.w = nil, nil
	if xl == nil || w == nil {
		return nil
	}
	_, err := xl.WriteTo(w)
	if closeErr := xl.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// NewSheet adds a sheet, with the column names in the first row.
//
// The first row is reserved for the header even if no column has a name,
// so the data always starts in the second row.
// The name is sanitized to be acceptable as a sheet name, see SheetName.
func (xlw *XLSXWriter) NewSheet(name string, columns []sheetedit.Column) (sheetedit.SheetWriter, error) {
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	name = SheetName(name, xlw.sheets)
	xlw.sheets = append(xlw.sheets, name)
	if len(xlw.sheets) == 1 { // first
		if err := xlw.xl.SetSheetName("Sheet1", name); err != nil {
			return nil, fmt.Errorf("rename first sheet to %q: %w", name, err)
		}
	} else if _, err := xlw.xl.NewSheet(name); err != nil {
		return nil, fmt.Errorf("new sheet %q: %w", name, err)
	}
	for i, c := range columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if s := xlw.getStyle(c.Column); s != 0 {
			if err = xlw.xl.SetColStyle(name, col, s); err != nil {
				return nil, err
			}
		}
		if c.Name == "" {
			continue
		}
		if s := xlw.getStyle(c.Header); s != 0 {
			if err = xlw.xl.SetCellStyle(name, col+"1", col+"1", s); err != nil {
				return nil, err
			}
		}
		if err = xlw.xl.SetCellStr(name, col+"1", c.Name); err != nil {
			return nil, err
		}
	}
	return &XLSXSheet{xl: xlw.xl, Name: name, row: 1}, nil
}

func (xlw *XLSXWriter) getStyle(style sheetedit.Style) int {
	if !style.FontBold && style.Format == "" {
		return 0
	}
	k := fmt.Sprintf("%t\t%s", style.FontBold, style.Format)
	s, ok := xlw.styles[k]
	if ok {
		return s
	}
	var st excelize.Style
	if style.FontBold {
		st.Font = &excelize.Font{Bold: true}
	}
	if style.Format != "" {
		st.CustomNumFmt = &style.Format
	}
	s, err := xlw.xl.NewStyle(&st)
	if err != nil {
		panic(err)
	}
	if xlw.styles == nil {
		xlw.styles = make(map[string]int)
	}
	xlw.styles[k] = s
	return s
}

// MaxRowCount is the number of maximum rows.
const MaxRowCount = 1_048_576

// MaxSheetNameLength is the longest sheet name the format accepts.
const MaxSheetNameLength = 31

// SheetName returns name made acceptable as a sheet name:
// forbidden characters are replaced by '_', the name is truncated to
// MaxSheetNameLength runes and made unique among used (case-insensitively)
// by appending " (n)".
func SheetName(name string, used []string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.Trim(name, "'"))
	if name == "" {
		name = "Sheet" + strconv.Itoa(len(used)+1)
	}
	taken := func(s string) bool {
		for _, u := range used {
			if strings.EqualFold(u, s) {
				return true
			}
		}
		return false
	}
	base := truncate(name, MaxSheetNameLength)
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		suffix := " (" + strconv.Itoa(n) + ")"
		cand := truncate(name, MaxSheetNameLength-len(suffix)) + suffix
		if !taken(cand) {
			return cand
		}
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// MaxCellLength is the most characters a cell can hold.
const MaxCellLength = 32767

// ErrCellTooLong is returned by AppendRow for a string longer than MaxCellLength.
var ErrCellTooLong = errors.New("cell text too long")

func (xls *XLSXSheet) Close() error { return nil }

// AppendRow writes the values into the next row.
// Empty strings and nils leave the cell empty, float64 values are written as
// numbers, anything else as text.
func (xls *XLSXSheet) AppendRow(values ...any) error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	if xls.row >= MaxRowCount {
		return sheetedit.ErrTooManyRows
	}
	xls.row++
	for i, v := range values {
		if v == nil {
			continue
		}
		axis, err := excelize.CoordinatesToCellName(i+1, int(xls.row))
		if err != nil {
			return fmt.Errorf("%d/%d: %w", i, int(xls.row), err)
		}
		if f, ok := v.(float64); ok {
			err = xls.xl.SetCellFloat(xls.Name, axis, f, -1, 64)
		} else {
			s := sheetedit.Text(v)
			if s == "" {
				// an empty cell is no cell
				continue
			}
			if n := utf8.RuneCountInString(s); n > MaxCellLength {
				return fmt.Errorf("%s[%s]: %d characters: %w", xls.Name, axis, n, ErrCellTooLong)
			}
			err = xls.xl.SetCellStr(xls.Name, axis, s)
		}
		if err != nil {
			return fmt.Errorf("%s[%s]: %w", xls.Name, axis, err)
		}
	}
	return nil
}

// TextFormat is the number format keeping the cell's content as text.
const TextFormat = "@"

// columns returns the header columns of s, extended to its widest row.
// Columns holding only text get TextFormat, so a spreadsheet program does
// not reinterpret numeric-looking strings.
func columns(s *sheetedit.Sheet) []sheetedit.Column {
	cols := sheetedit.HeaderColumns(s.Headers)
	if w := s.Width(); w > len(cols) {
		cols = append(cols, make([]sheetedit.Column, w-len(cols))...)
	}
	for j := range cols {
		var text bool
		for _, row := range s.Data {
			if j >= len(row) || row[j] == nil || row[j] == "" {
				continue
			}
			if _, ok := row[j].(float64); ok {
				text = false
				break
			}
			text = true
		}
		if text {
			cols[j].Column.Format = TextFormat
		}
	}
	return cols
}

// Write writes the workbook to w: per sheet, the headers as the first row
// and the data rows after it, in sheet order.
func Write(w io.Writer, wb *sheetedit.Workbook) error {
	xlw := NewWriter(w)
	for _, s := range wb.Sheets {
		sw, err := xlw.NewSheet(s.Name, columns(s))
		if err != nil {
			return err
		}
		for _, row := range s.Data {
			if err := sw.AppendRow(row...); err != nil {
				return err
			}
		}
		if err := sw.Close(); err != nil {
			return err
		}
	}
	return xlw.Close()
}

// Encode serializes the workbook as xlsx.
func Encode(wb *sheetedit.Workbook) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, wb); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
