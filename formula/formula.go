// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package formula decides whether a cell input is a literal or a formula,
// and evaluates formulas.
//
// A formula is an input starting with '='. The rest is an arithmetic
// expression of numbers, cell references (like B3), the + - * / operators
// and parentheses.
//
// Cell references are looked up in what is currently rendered (a CellSource),
// not in the sheet data: a reference to a cell that is filtered out, or to the
// cell being edited, reads whatever the grid shows there (often nothing, so 0).
package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/UNO-SOFT/sheetedit"
)

// CellSource gives the rendered text of a cell, by 0-based row and column.
type CellSource interface {
	CellText(row, col int) (string, bool)
}

// CellSourceFunc is a function implementing CellSource.
type CellSourceFunc func(row, col int) (string, bool)

func (f CellSourceFunc) CellText(row, col int) (string, bool) { return f(row, col) }

type emptySource struct{}

func (emptySource) CellText(int, int) (string, bool) { return "", false }

// ErrNotFinite is returned for NaN and ±Inf results.
var ErrNotFinite = errors.New("result is not a finite number")

// EvalError is returned when a formula cannot be evaluated.
type EvalError struct {
	Formula string
	Pos     int
	Err     error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("formula %q at %d: %v", e.Formula, e.Pos, e.Err)
}
func (e *EvalError) Unwrap() error { return e.Err }

// IsFormula reports whether the input is a formula.
func IsFormula(input string) bool { return strings.HasPrefix(input, "=") }

// Resolve returns the value to be stored for the input.
//
// A literal input is returned as is (no number conversion).
// A formula is evaluated against src; if that fails, the input itself is
// returned, so a malformed formula is kept as text.
func Resolve(input string, src CellSource) sheetedit.Value {
	if !IsFormula(input) {
		return input
	}
	f, err := Eval(input[1:], src)
	if err != nil {
		return input
	}
	return f
}

// Eval evaluates the expression (without the leading '=').
func Eval(expr string, src CellSource) (float64, error) {
	if src == nil {
		src = emptySource{}
	}
	p := parser{src: src}
	var err error
	if p.toks, err = lex(expr); err != nil {
		return 0, err
	}
	f, err := p.expr()
	if err != nil {
		return 0, &EvalError{Formula: expr, Pos: p.pos(), Err: err}
	}
	if p.i < len(p.toks) {
		return 0, &EvalError{Formula: expr, Pos: p.pos(), Err: fmt.Errorf("unexpected %q", p.toks[p.i].text)}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &EvalError{Formula: expr, Pos: len(expr), Err: ErrNotFinite}
	}
	return f, nil
}

// CellValue returns the number shown at (row, col) of src, 0 if the cell
// is missing or not numeric.
func CellValue(src CellSource, row, col int) float64 {
	s, ok := src.CellText(row, col)
	if !ok {
		return 0
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}
