// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package store holds the workbook being edited: the sheets, the active sheet
// and whether there are unsaved changes.
//
// A Store has exactly one writer: it is not safe for concurrent use.
// Network results must be applied on the goroutine that owns the Store.
package store

import (
	"errors"
	"log/slog"
	"time"

	"github.com/UNO-SOFT/sheetedit"
	"github.com/UNO-SOFT/sheetedit/formula"
)

// EventKind tells what changed.
type EventKind uint8

const (
	// EventReplaced is emitted when all sheets are replaced.
	EventReplaced EventKind = iota
	// EventActive is emitted when another sheet becomes active.
	EventActive
	// EventSheets is emitted when a sheet is added, deleted or duplicated.
	EventSheets
	// EventCell is emitted when a cell is edited.
	EventCell
	// EventSaved is emitted when the modified flag is cleared by a save.
	EventSaved
)

func (k EventKind) String() string {
	switch k {
	case EventReplaced:
		return "replaced"
	case EventActive:
		return "active"
	case EventSheets:
		return "sheets"
	case EventCell:
		return "cell"
	case EventSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Event describes a change of the Store.
type Event struct {
	Kind     EventKind
	Active   int
	Row, Col int
	Value    sheetedit.Value
	Modified bool
}

// ErrCellIndex is returned for a negative row or column.
var ErrCellIndex = errors.New("cell index out of range")

// Store is the single source of truth of the editing session.
type Store struct {
	logger    *slog.Logger
	wb        sheetedit.Workbook
	active    int
	modified  bool
	admin     bool
	lastSaved time.Time
	subs      map[int]func(Event)
	nextSub   int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New returns an empty Store.
func New(options ...Option) *Store {
	s := Store{logger: slog.Default(), subs: make(map[int]func(Event))}
	for _, o := range options {
		o(&s)
	}
	return &s
}

// Subscribe registers fn to be called after each change.
// The returned function unregisters it.
func (s *Store) Subscribe(fn func(Event)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) emit(ev Event) {
	ev.Active, ev.Modified = s.active, s.modified
	for _, fn := range s.subs {
		fn(ev)
	}
}

// SetAdmin sets whether sheet-level mutations are allowed.
func (s *Store) SetAdmin(admin bool) { s.admin = admin }

// Admin reports whether sheet-level mutations are allowed.
func (s *Store) Admin() bool { return s.admin }

// FileName returns the name of the workbook file.
func (s *Store) FileName() string { return s.wb.FileName }

// Len returns the number of sheets.
func (s *Store) Len() int { return len(s.wb.Sheets) }

// Empty reports whether there are no sheets.
func (s *Store) Empty() bool { return len(s.wb.Sheets) == 0 }

// Modified reports whether there are unsaved changes.
func (s *Store) Modified() bool { return s.modified }

// LastSaved returns the time of the last successful save.
func (s *Store) LastSaved() time.Time { return s.lastSaved }

// ActiveIndex returns the index of the active sheet.
func (s *Store) ActiveIndex() int { return s.active }

// Active returns the active sheet, or nil if there are no sheets.
//
// The sheet is owned by the Store: read it, but change it only through EditCell.
func (s *Store) Active() *sheetedit.Sheet { return s.Sheet(s.active) }

// Sheet returns the i-th sheet, or nil.
func (s *Store) Sheet(i int) *sheetedit.Sheet {
	if i < 0 || i >= len(s.wb.Sheets) {
		return nil
	}
	return s.wb.Sheets[i]
}

// Names returns the sheet names, in order.
func (s *Store) Names() []string {
	names := make([]string, len(s.wb.Sheets))
	for i, sh := range s.wb.Sheets {
		names[i] = sh.Name
	}
	return names
}

// Snapshot returns a deep copy of the workbook, for encoding and saving.
func (s *Store) Snapshot() *sheetedit.Workbook { return s.wb.Clone() }

// SetWorkbook replaces all sheets, makes the first sheet active and
// clears the modified flag.
func (s *Store) SetWorkbook(wb *sheetedit.Workbook) { s.setWorkbook(wb, false) }

// SetDefault installs wb as a new, not yet saved workbook: like SetWorkbook,
// but the modified flag is set.
func (s *Store) SetDefault(wb *sheetedit.Workbook) { s.setWorkbook(wb, true) }

func (s *Store) setWorkbook(wb *sheetedit.Workbook, modified bool) {
	s.wb = sheetedit.Workbook{}
	if wb != nil {
		s.wb = *wb
	}
	s.active, s.modified = 0, modified
	s.logger.Debug("set workbook", "file", s.wb.FileName, "sheets", len(s.wb.Sheets), "modified", modified)
	s.emit(Event{Kind: EventReplaced})
}

// Replace replaces the sheets with the confirmed content of the server.
// The active index is kept if still valid, the modified flag is not touched.
func (s *Store) Replace(wb *sheetedit.Workbook) {
	if wb == nil {
		return
	}
	fileName := s.wb.FileName
	s.wb = *wb
	if s.wb.FileName == "" {
		s.wb.FileName = fileName
	}
	if s.active >= len(s.wb.Sheets) {
		s.active = max(0, len(s.wb.Sheets)-1)
	}
	s.emit(Event{Kind: EventReplaced})
}

// MarkSaved clears the modified flag and records the save time.
func (s *Store) MarkSaved(at time.Time) {
	s.modified, s.lastSaved = false, at
	s.emit(Event{Kind: EventSaved})
}

// SetActiveIndex makes the i-th sheet active; out of range indexes are ignored.
func (s *Store) SetActiveIndex(i int) {
	if i < 0 || i >= len(s.wb.Sheets) || i == s.active {
		return
	}
	s.active = i
	s.emit(Event{Kind: EventActive})
}

// AddSheet appends a new sheet with three columns and one blank row,
// and makes it active.
func (s *Store) AddSheet() error {
	return s.AppendSheet(BlankSheet(len(s.wb.Sheets)))
}

// AppendSheet appends the sheet and makes it active.
func (s *Store) AppendSheet(sheet *sheetedit.Sheet) error {
	if !s.admin {
		return sheetedit.ErrNotAdmin
	}
	if sheet == nil {
		return nil
	}
	s.wb.Sheets = append(s.wb.Sheets, sheet)
	s.active = len(s.wb.Sheets) - 1
	s.modified = true
	s.emit(Event{Kind: EventSheets})
	return nil
}

// DeleteSheet removes the i-th sheet, and makes the previous one active.
// The last sheet is never deleted.
func (s *Store) DeleteSheet(i int) error {
	if !s.admin {
		return sheetedit.ErrNotAdmin
	}
	if len(s.wb.Sheets) <= 1 || i < 0 || i >= len(s.wb.Sheets) {
		return nil
	}
	s.wb.Sheets = append(s.wb.Sheets[:i:i], s.wb.Sheets[i+1:]...)
	s.active = max(0, i-1)
	s.modified = true
	s.emit(Event{Kind: EventSheets})
	return nil
}

// DuplicateSheet appends a deep copy of the i-th sheet named "<name> (copy)",
// and makes it active.
func (s *Store) DuplicateSheet(i int) error {
	if !s.admin {
		return sheetedit.ErrNotAdmin
	}
	src := s.Sheet(i)
	if src == nil {
		return nil
	}
	c := src.Clone()
	c.Name += " (copy)"
	return s.AppendSheet(c)
}

// EditCell resolves the input against the rendered grid src, and stores
// the result at (row, col) of the active sheet.
//
// Cell edits are not restricted to admins.
func (s *Store) EditCell(row, col int, input string, src formula.CellSource) (sheetedit.Value, error) {
	if row < 0 || col < 0 {
		return nil, ErrCellIndex
	}
	sheet := s.Active()
	if sheet == nil {
		return nil, ErrCellIndex
	}
	v := formula.Resolve(input, src)
	sheet.SetCell(row, col, v)
	s.modified = true
	s.emit(Event{Kind: EventCell, Row: row, Col: col, Value: v})
	return v, nil
}
