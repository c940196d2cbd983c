// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package grid

import "github.com/UNO-SOFT/sheetedit"

// CommitFunc receives a committed cell input, with the row index of the sheet
// data (not the displayed row).
type CommitFunc func(sourceRow, col int, input string) error

// Editor is the interaction state of a View: the selected cell and,
// in edit mode, the text being typed.
//
// It never changes the data itself, committed inputs are passed to a CommitFunc.
type Editor struct {
	view     *View
	onCommit CommitFunc

	row, col        int
	selected        bool
	editing         bool
	input, original string
}

// NewEditor returns an Editor over view.
func NewEditor(view *View, onCommit CommitFunc) *Editor {
	return &Editor{view: view, onCommit: onCommit}
}

// View returns the current view.
func (e *Editor) View() *View { return e.view }

// SetView replaces the rendered view (after a change or a new filter),
// keeping the cursor inside it.
func (e *Editor) SetView(v *View) {
	e.view = v
	e.clamp()
}

func (e *Editor) clamp() {
	e.row = min(e.row, max(0, e.view.Len()-1))
	var cols int
	if e.view != nil {
		cols = len(e.view.Columns)
	}
	e.col = min(e.col, max(0, cols-1))
	if e.view.Len() == 0 || cols == 0 {
		e.editing, e.selected = false, false
	}
}

// Cursor returns the selected cell, by displayed position.
func (e *Editor) Cursor() (row, col int) { return e.row, e.col }

// Selected reports whether a cell is selected.
func (e *Editor) Selected() bool { return e.selected }

// Editing reports whether the selected cell is in edit mode.
func (e *Editor) Editing() bool { return e.editing }

// Input returns the text being edited.
func (e *Editor) Input() string { return e.input }

// SetInput sets the text being edited.
func (e *Editor) SetInput(s string) {
	if e.editing {
		e.input = s
	}
}

func (e *Editor) valid(row, col int) bool {
	return e.view != nil && row >= 0 && row < len(e.view.Rows) && col >= 0 && col < len(e.view.Columns)
}

// Select moves the cursor to (row, col), committing a pending edit
// of another cell.
func (e *Editor) Select(row, col int) error {
	if !e.valid(row, col) {
		return nil
	}
	var err error
	if e.editing && (row != e.row || col != e.col) {
		err = e.Blur()
	}
	e.row, e.col, e.selected = row, col, true
	return err
}

// Move moves the cursor by the given deltas, staying inside the view.
func (e *Editor) Move(dRow, dCol int) error {
	if e.view.Len() == 0 {
		return nil
	}
	row := min(max(0, e.row+dRow), e.view.Len()-1)
	col := min(max(0, e.col+dCol), len(e.view.Columns)-1)
	return e.Select(row, col)
}

// Activate is a click on (row, col): the first one selects the cell,
// the second one on the same cell enters edit mode.
// It reports whether the cell is in edit mode.
func (e *Editor) Activate(row, col int) (bool, error) {
	if !e.valid(row, col) {
		return false, nil
	}
	if e.selected && row == e.row && col == e.col {
		return e.BeginEdit(), nil
	}
	return false, e.Select(row, col)
}

// BeginEdit enters edit mode on the selected cell, with its stored value
// as the input.
func (e *Editor) BeginEdit() bool {
	if !e.valid(e.row, e.col) {
		return false
	}
	if e.editing {
		return true
	}
	c, _ := e.view.Cell(e.row, e.col)
	e.original = sheetedit.Text(c.Value)
	e.input = e.original
	e.editing, e.selected = true, true
	return true
}

// Commit ends edit mode, passes the input to the CommitFunc and moves the
// cursor to the next column of the same row.
// An unchanged input is not committed.
func (e *Editor) Commit() error {
	if !e.editing {
		return nil
	}
	err := e.commit()
	if e.col+1 < len(e.view.Columns) {
		e.col++
	}
	return err
}

// Blur ends edit mode, committing the input if it was changed;
// the cursor stays.
func (e *Editor) Blur() error {
	if !e.editing {
		return nil
	}
	return e.commit()
}

// Cancel ends edit mode, dropping the input.
func (e *Editor) Cancel() {
	e.editing = false
	e.input = e.original
}

func (e *Editor) commit() error {
	defer func() { e.editing = false }()
	if e.input == e.original || e.onCommit == nil {
		return nil
	}
	src, ok := e.view.Source(e.row)
	if !ok {
		return nil
	}
	// still in edit mode here: the edited cell shows an input box, not text
	return e.onCommit(src, e.col, e.input)
}

// CellText returns the displayed text at (row, col) as the formula lookup
// sees it: the cell being edited shows no text.
func (e *Editor) CellText(row, col int) (string, bool) {
	if e.editing && row == e.row && col == e.col {
		return "", e.valid(row, col)
	}
	return e.view.CellText(row, col)
}
