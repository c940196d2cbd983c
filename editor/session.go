// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package editor ties the sheet store, the grid and the gateway into an
// editing session.
//
// A Session is owned by one goroutine. Network calls may run elsewhere,
// but their results must be applied with the Apply* methods on the owner.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/UNO-SOFT/sheetedit"
	"github.com/UNO-SOFT/sheetedit/auth"
	"github.com/UNO-SOFT/sheetedit/gateway"
	"github.com/UNO-SOFT/sheetedit/grid"
	"github.com/UNO-SOFT/sheetedit/store"
	"github.com/UNO-SOFT/sheetedit/xlsx"
)

// Gateway is the remote storage of the workbook.
type Gateway interface {
	FileName() string
	Load(context.Context) (*sheetedit.Workbook, error)
	Save(context.Context, *sheetedit.Workbook) (*gateway.Receipt, error)
	Reconcile(ctx context.Context, size int64) (*sheetedit.Workbook, error)
}

var _ Gateway = (*gateway.Client)(nil)

// Session is the state of one editing session.
type Session struct {
	store    *store.Store
	gw       Gateway
	verifier auth.Verifier
	renderer *grid.Renderer
	editor   *grid.Editor
	logger   *slog.Logger
	filter   string
	busy     string
	unsub    func()
}

// Option configures a Session.
type Option func(*Session)

// WithVerifier sets the admin password checker.
func WithVerifier(v auth.Verifier) Option { return func(s *Session) { s.verifier = v } }

// WithRenderer sets the grid renderer (number formatting).
func WithRenderer(r *grid.Renderer) Option { return func(s *Session) { s.renderer = r } }

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option { return func(s *Session) { s.logger = logger } }

// New returns a Session editing st, persisted through gw.
func New(st *store.Store, gw Gateway, options ...Option) *Session {
	s := Session{store: st, gw: gw, verifier: auth.Deny, logger: slog.Default()}
	for _, o := range options {
		o(&s)
	}
	if s.renderer == nil {
		s.renderer = grid.NewRenderer(languageDefault)
	}
	s.editor = grid.NewEditor(s.renderer.Render(st.Active(), ""), s.commit)
	s.unsub = st.Subscribe(s.onEvent)
	return &s
}

// Close unsubscribes from the store.
func (s *Session) Close() error {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	return nil
}

// Store returns the sheet store.
func (s *Session) Store() *store.Store { return s.store }

// Editor returns the grid editor of the active sheet.
func (s *Session) Editor() *grid.Editor { return s.editor }

// View returns the rendered active sheet.
func (s *Session) View() *grid.View { return s.editor.View() }

// Gateway returns the gateway.
func (s *Session) Gateway() Gateway { return s.gw }

func (s *Session) onEvent(ev store.Event) {
	s.logger.Debug("store", "event", ev.Kind, "active", ev.Active, "modified", ev.Modified)
	if ev.Kind == store.EventSaved {
		return
	}
	s.render()
}

func (s *Session) render() {
	s.editor.SetView(s.renderer.Render(s.store.Active(), s.filter))
}

// commit is called by the grid editor with the source row of the edited cell.
// The formula references are looked up in the rendered grid.
func (s *Session) commit(row, col int, input string) error {
	v, err := s.store.EditCell(row, col, input, s.editor)
	if err != nil {
		return err
	}
	s.logger.Debug("edit", "row", row, "col", col, "input", input, "value", v)
	return nil
}

// Filter returns the search term.
func (s *Session) Filter() string { return s.filter }

// SetFilter shows only the rows containing term.
func (s *Session) SetFilter(term string) {
	s.filter = strings.TrimSpace(term)
	s.render()
}

// SetCell sets the cell at the displayed position (row, col) of the active sheet,
// as an edit typed into the grid would.
func (s *Session) SetCell(row, col int, input string) error {
	if err := s.editor.Select(row, col); err != nil {
		return err
	}
	if r, c := s.editor.Cursor(); r != row || c != col || !s.editor.BeginEdit() {
		return fmt.Errorf("%w: (%d,%d)", store.ErrCellIndex, row, col)
	}
	s.editor.SetInput(input)
	return s.editor.Blur()
}

// SetActive makes the i-th sheet active.
func (s *Session) SetActive(i int) error {
	if err := s.editor.Blur(); err != nil {
		return err
	}
	s.store.SetActiveIndex(i)
	return nil
}

// Login grants admin privilege if the password is right.
func (s *Session) Login(password string) error {
	if err := s.verifier.Verify(password); err != nil {
		s.logger.Warn("login", "error", err)
		return err
	}
	s.store.SetAdmin(true)
	s.logger.Info("login")
	return nil
}

// Logout drops admin privilege.
func (s *Session) Logout() { s.store.SetAdmin(false) }

// Admin reports whether sheet-level changes are allowed.
func (s *Session) Admin() bool { return s.store.Admin() }

// AddSheet adds a blank sheet.
func (s *Session) AddSheet() error { return s.store.AddSheet() }

// DeleteSheet deletes the active sheet.
func (s *Session) DeleteSheet() error { return s.store.DeleteSheet(s.store.ActiveIndex()) }

// DuplicateSheet copies the active sheet.
func (s *Session) DuplicateSheet() error { return s.store.DuplicateSheet(s.store.ActiveIndex()) }

// ImportCSV reads a CSV as a new sheet.
func (s *Session) ImportCSV(r io.Reader, name, encName string) error {
	sheet, err := sheetedit.ReadCSV(r, name, encName)
	if err != nil {
		return err
	}
	return s.store.AppendSheet(sheet)
}

// Busy returns the name of the network operation in flight, or "".
func (s *Session) Busy() string { return s.busy }

// Begin marks the start of a network operation.
// It returns ErrBusy if another one is in flight.
func (s *Session) Begin(op string) error {
	if s.busy != "" {
		return fmt.Errorf("%s: %w (%s)", op, sheetedit.ErrBusy, s.busy)
	}
	s.busy = op
	return nil
}

// End marks the end of the network operation.
func (s *Session) End() { s.busy = "" }

// Load loads the workbook from the gateway.
func (s *Session) Load(ctx context.Context) error {
	if err := s.Begin("load"); err != nil {
		return err
	}
	defer s.End()
	wb, err := s.gw.Load(ctx)
	return s.ApplyLoad(wb, err)
}

// Refresh drops the local changes and loads the workbook again.
func (s *Session) Refresh(ctx context.Context) error { return s.Load(ctx) }

// ApplyLoad installs the result of a Gateway.Load.
//
// If the load failed and there are no sheets yet, the default workbook is
// installed, unsaved. Existing sheets are never dropped because of a failure.
// The load error is returned in both cases.
func (s *Session) ApplyLoad(wb *sheetedit.Workbook, err error) error {
	if err == nil {
		s.store.SetWorkbook(wb)
		s.logger.Info("load", "file", wb.FileName, "sheets", len(wb.Sheets))
		return nil
	}
	if s.store.Empty() {
		s.logger.Warn("load failed, using default workbook", "error", err)
		s.store.SetDefault(store.DefaultWorkbook(s.gw.FileName()))
	} else {
		s.logger.Error("load", "error", err)
	}
	return err
}

// Save saves the workbook, then reloads what the server stored.
//
// The returned receipt lists the problems of the verification and the reload.
func (s *Session) Save(ctx context.Context) (*gateway.Receipt, error) {
	if err := s.Begin("save"); err != nil {
		return nil, err
	}
	defer s.End()
	if err := s.editor.Blur(); err != nil {
		return nil, err
	}
	rcpt, err := s.gw.Save(ctx, s.store.Snapshot())
	if err != nil {
		return nil, err
	}
	s.ApplySaved(rcpt)
	wb, err := s.gw.Reconcile(ctx, rcpt.Size)
	s.ApplyReconcile(rcpt, wb, err)
	return rcpt, nil
}

// ApplySaved records a successful Gateway.Save.
func (s *Session) ApplySaved(rcpt *gateway.Receipt) {
	s.store.MarkSaved(rcpt.SavedAt)
}

// ApplyReconcile replaces the sheets with the result of Gateway.Reconcile.
// On failure the local sheets are kept and the error is added to the receipt.
func (s *Session) ApplyReconcile(rcpt *gateway.Receipt, wb *sheetedit.Workbook, err error) {
	if err != nil {
		var vw *sheetedit.VerificationWarning
		if !errors.As(err, &vw) {
			err = &sheetedit.VerificationWarning{Op: "reconcile", Err: err}
		}
		if rcpt != nil {
			rcpt.Warnings = append(rcpt.Warnings, err)
		}
		return
	}
	s.store.Replace(wb)
}

// Export formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// ErrUnknownFormat is returned by Export.
var ErrUnknownFormat = errors.New("unknown export format")

// Export writes the workbook (xlsx), or the displayed rows of the active sheet
// (csv, html, pdf) to w.
func (s *Session) Export(w io.Writer, format, encName string) error {
	switch strings.ToLower(format) {
	case FormatXLSX:
		return xlsx.Write(w, s.store.Snapshot())
	case FormatCSV:
		sheet := s.store.Active()
		if sheet == nil {
			return nil
		}
		return sheetedit.WriteCSV(w, filtered(sheet, s.View()), encName)
	case FormatHTML:
		grid.WriteHTML(w, s.View())
		return nil
	case FormatPDF:
		return grid.WritePDF(w, s.View())
	default:
		return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

func filtered(sheet *sheetedit.Sheet, v *grid.View) *sheetedit.Sheet {
	out := sheetedit.Sheet{Name: sheet.Name, Headers: sheet.Headers, Data: make([][]sheetedit.Value, 0, v.Len())}
	for _, r := range v.Rows {
		out.Data = append(out.Data, sheet.Data[r.Source])
	}
	return &out
}
