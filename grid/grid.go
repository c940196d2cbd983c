// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package grid projects a sheet into the rows and columns to be displayed.
package grid

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/UNO-SOFT/sheetedit"
)

// Cell is a displayed cell.
type Cell struct {
	// Text is what is shown: numbers are localized.
	Text string
	// Value is the stored value.
	Value sheetedit.Value
	// Numeric cells are aligned to the right.
	Numeric bool
}

// Row is a displayed row.
type Row struct {
	// Source is the index of the row in the sheet data.
	Source int
	Cells  []Cell
}

// View is a rendered sheet.
type View struct {
	Name    string
	Columns []string
	Rows    []Row
	Filter  string
}

// Renderer renders sheets, formatting numbers for a language.
type Renderer struct {
	printer *message.Printer
}

// NewRenderer returns a Renderer formatting numbers as the language does.
func NewRenderer(tag language.Tag) *Renderer {
	return &Renderer{printer: message.NewPrinter(tag)}
}

var defaultRenderer = NewRenderer(language.English)

// Render renders the sheet with the default (English) number format.
func Render(sheet *sheetedit.Sheet, filter string) *View {
	return defaultRenderer.Render(sheet, filter)
}

// Columns returns the column labels: the headers, or if there are none,
// the letters A, B, ... for the widest row.
func Columns(sheet *sheetedit.Sheet) []string {
	if sheet == nil {
		return nil
	}
	if len(sheet.Headers) != 0 {
		return sheet.Headers
	}
	return sheetedit.SyntheticLabels(sheet.Width())
}

// Filter returns the indexes of the rows having a cell containing term,
// case-insensitively. An empty term matches every row.
func Filter(sheet *sheetedit.Sheet, term string) []int {
	if sheet == nil {
		return nil
	}
	idx := make([]int, 0, len(sheet.Data))
	term = strings.ToLower(term)
	for i, row := range sheet.Data {
		if term == "" || rowContains(row, term) {
			idx = append(idx, i)
		}
	}
	return idx
}

func rowContains(row []sheetedit.Value, lowerTerm string) bool {
	for _, v := range row {
		if strings.Contains(strings.ToLower(sheetedit.Text(v)), lowerTerm) {
			return true
		}
	}
	return false
}

// Render projects the sheet into a View: only the rows matching filter
// are kept; the sheet is not modified.
func (r *Renderer) Render(sheet *sheetedit.Sheet, filter string) *View {
	v := View{Columns: Columns(sheet), Filter: filter}
	if sheet == nil {
		return &v
	}
	v.Name = sheet.Name
	rows := Filter(sheet, filter)
	v.Rows = make([]Row, len(rows))
	for i, src := range rows {
		cells := make([]Cell, len(v.Columns))
		for j := range cells {
			cells[j] = r.cell(sheet.Cell(src, j))
		}
		v.Rows[i] = Row{Source: src, Cells: cells}
	}
	return &v
}

func (r *Renderer) cell(v sheetedit.Value) Cell {
	switch x := v.(type) {
	case float64:
		return Cell{Text: r.printer.Sprint(number.Decimal(x)), Value: v, Numeric: true}
	case int:
		return Cell{Text: r.printer.Sprint(number.Decimal(x)), Value: v, Numeric: true}
	case int64:
		return Cell{Text: r.printer.Sprint(number.Decimal(x)), Value: v, Numeric: true}
	}
	return Cell{Text: sheetedit.Text(v), Value: v}
}

// Len returns the number of displayed rows.
func (v *View) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Rows)
}

// Cell returns the displayed cell at (row, col).
func (v *View) Cell(row, col int) (Cell, bool) {
	if v == nil || row < 0 || row >= len(v.Rows) || col < 0 || col >= len(v.Rows[row].Cells) {
		return Cell{}, false
	}
	return v.Rows[row].Cells[col], true
}

// CellText returns the displayed text at (row, col), by displayed position.
func (v *View) CellText(row, col int) (string, bool) {
	c, ok := v.Cell(row, col)
	return c.Text, ok
}

// Source returns the sheet row index of the displayed row.
func (v *View) Source(row int) (int, bool) {
	if v == nil || row < 0 || row >= len(v.Rows) {
		return 0, false
	}
	return v.Rows[row].Source, true
}
