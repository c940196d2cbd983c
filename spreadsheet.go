// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package sheetedit holds the workbook model shared by the codec, the sheet
// store, the grid renderer and the persistence gateway.
package sheetedit

import (
	"errors"
	"io"
)

// Writer writes the spreadsheet consisting of the sheets created
// with NewSheet. The write finishes when Close is called.
//
// The writer SHOULD allow writing to separate sheets concurrently,
// and document if it does not provide this functionality.
type Writer interface {
	io.Closer
	NewSheet(name string, cols []Column) (SheetWriter, error)
}

// SheetWriter should be Closed when finished.
type SheetWriter interface {
	io.Closer
	AppendRow(values ...any) error
}

// Style is a style for a column/row/cell.
type Style struct {
	// Format is the number format
	Format string
	// FontBold is true if the font is bold
	FontBold bool
}

// Column contains the Name of the column and header's style and column's style.
type Column struct {
	Name           string
	Header, Column Style
}

// HeaderColumns returns the columns for the given header labels,
// with bold header cells.
func HeaderColumns(headers []string) []Column {
	cols := make([]Column, len(headers))
	for i, h := range headers {
		cols[i].Name = h
		cols[i].Header.FontBold = true
	}
	return cols
}

var ErrTooManyRows = errors.New("too many rows")
