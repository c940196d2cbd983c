// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package tui is the interactive terminal grid of an editing session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/UNO-SOFT/sheetedit"
	"github.com/UNO-SOFT/sheetedit/editor"
	"github.com/UNO-SOFT/sheetedit/gateway"
)

type mode uint8

const (
	modeNav mode = iota
	modeEdit
	modeSearch
	modeLogin
	modeConfirmDelete
	modeConfirmRefresh
)

type msgKind uint8

const (
	msgInfo msgKind = iota
	msgSuccess
	msgError
)

// loadedMsg carries the result of a load.
type loadedMsg struct {
	wb  *sheetedit.Workbook
	err error
}

// savedMsg carries the result of a save.
type savedMsg struct {
	rcpt *gateway.Receipt
	err  error
}

// reconciledMsg carries the workbook re-fetched after a save.
type reconciledMsg struct {
	rcpt *gateway.Receipt
	wb   *sheetedit.Workbook
	err  error
}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{} })
}

// Model is the Bubble Tea model of the grid.
type Model struct {
	ctx     context.Context
	session *editor.Session
	input   textinput.Model
	mode    mode

	message     string
	messageKind msgKind
	messageTime time.Time

	width, height        int
	rowOffset, colOffset int
}

// New returns the model of the session. The workbook is loaded by Init.
func New(ctx context.Context, session *editor.Session) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	return Model{ctx: ctx, session: session, input: ti, width: 80, height: 24}
}

// Init loads the workbook.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), tickCmd())
}

func (m *Model) setMessage(s string, kind msgKind) {
	m.message, m.messageKind, m.messageTime = s, kind, time.Now()
}

func (m *Model) setError(err error) {
	var te *sheetedit.TimeoutError
	if errors.As(err, &te) {
		m.setMessage(te.Error(), msgError)
		return
	}
	m.setMessage("Error: "+err.Error(), msgError)
}

func (m *Model) load() tea.Cmd {
	if err := m.session.Begin("load"); err != nil {
		m.setError(err)
		return nil
	}
	m.setMessage("Loading "+m.session.Gateway().FileName()+"…", msgInfo)
	ctx, gw := m.ctx, m.session.Gateway()
	return func() tea.Msg {
		wb, err := gw.Load(ctx)
		return loadedMsg{wb: wb, err: err}
	}
}

func (m *Model) save() tea.Cmd {
	if err := m.session.Editor().Blur(); err != nil {
		m.setError(err)
		return nil
	}
	if err := m.session.Begin("save"); err != nil {
		m.setError(err)
		return nil
	}
	m.setMessage("Saving…", msgInfo)
	ctx, gw, wb := m.ctx, m.session.Gateway(), m.session.Store().Snapshot()
	return func() tea.Msg {
		rcpt, err := gw.Save(ctx, wb)
		return savedMsg{rcpt: rcpt, err: err}
	}
}

func (m *Model) reconcile(rcpt *gateway.Receipt) tea.Cmd {
	ctx, gw := m.ctx, m.session.Gateway()
	return func() tea.Msg {
		wb, err := gw.Reconcile(ctx, rcpt.Size)
		return reconciledMsg{rcpt: rcpt, wb: wb, err: err}
	}
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, msg.Width/2)
		return m, nil

	case tickMsg:
		if m.messageKind == msgSuccess && time.Since(m.messageTime) > 3*time.Second {
			m.message = ""
		}
		return m, tickCmd()

	case loadedMsg:
		m.session.End()
		if err := m.session.ApplyLoad(msg.wb, msg.err); err != nil {
			m.setError(err)
		} else {
			m.setMessage(fmt.Sprintf("Loaded %d sheets", m.session.Store().Len()), msgSuccess)
		}
		m.rowOffset, m.colOffset = 0, 0
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.session.End()
			m.setError(msg.err)
			return m, nil
		}
		m.session.ApplySaved(msg.rcpt)
		m.setMessage("Saved, reloading…", msgInfo)
		return m, m.reconcile(msg.rcpt)

	case reconciledMsg:
		m.session.End()
		m.session.ApplyReconcile(msg.rcpt, msg.wb, msg.err)
		if len(msg.rcpt.Warnings) != 0 {
			m.setMessage(msg.rcpt.Warnings[len(msg.rcpt.Warnings)-1].Error(), msgError)
		} else {
			m.setMessage("Saved "+msg.rcpt.SavedAt.Format(time.TimeOnly), msgSuccess)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeSearch, modeLogin:
			return m.updatePrompt(msg)
		case modeConfirmDelete, modeConfirmRefresh:
			return m.updateConfirm(msg)
		default:
			return m.updateNav(msg)
		}
	}
	return m, nil
}

func (m Model) updateNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	e := s.Editor()
	var err error
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		err = e.Move(-1, 0)
	case "down", "j":
		err = e.Move(1, 0)
	case "left", "h":
		err = e.Move(0, -1)
	case "right", "l":
		err = e.Move(0, 1)
	case "pgup":
		err = e.Move(-m.pageRows(), 0)
	case "pgdown":
		err = e.Move(m.pageRows(), 0)
	case "home":
		err = e.Move(0, -len(s.View().Columns))
	case "end":
		err = e.Move(0, len(s.View().Columns))
	case "enter":
		row, col := e.Cursor()
		var editing bool
		if editing, err = e.Activate(row, col); err == nil && !editing {
			editing, err = e.Activate(row, col)
		}
		if editing {
			return m.startEdit()
		}
	case "/":
		return m.startPrompt(modeSearch, s.Filter())
	case "esc":
		if s.Filter() != "" {
			s.SetFilter("")
		}
	case "tab":
		err = s.SetActive((s.Store().ActiveIndex() + 1) % max(1, s.Store().Len()))
		m.rowOffset, m.colOffset = 0, 0
	case "shift+tab":
		n := max(1, s.Store().Len())
		err = s.SetActive((s.Store().ActiveIndex() + n - 1) % n)
		m.rowOffset, m.colOffset = 0, 0
	case "ctrl+s":
		return m, m.save()
	case "ctrl+r":
		if s.Store().Modified() {
			m.mode = modeConfirmRefresh
			m.setMessage("Discard unsaved changes and reload? (y/n)", msgInfo)
			return m, nil
		}
		return m, m.load()
	case "ctrl+n":
		err = s.AddSheet()
	case "ctrl+d":
		err = s.DuplicateSheet()
	case "ctrl+x":
		if !s.Admin() {
			err = sheetedit.ErrNotAdmin
			break
		}
		m.mode = modeConfirmDelete
		m.setMessage(fmt.Sprintf("Delete sheet %q? (y/n)", s.Store().Active().Name), msgInfo)
		return m, nil
	case "ctrl+l":
		if s.Admin() {
			s.Logout()
			m.setMessage("Logged out", msgSuccess)
			return m, nil
		}
		return m.startPrompt(modeLogin, "")
	}
	if err != nil {
		m.setError(err)
	}
	m.scrollToCursor()
	return m, nil
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	m.mode = modeEdit
	m.input.EchoMode = textinput.EchoNormal
	m.input.SetValue(m.session.Editor().Input())
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) startPrompt(md mode, value string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.input.EchoMode = textinput.EchoNormal
	if md == modeLogin {
		m.input.EchoMode = textinput.EchoPassword
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.session.Editor()
	var err error
	switch msg.String() {
	case "esc":
		e.Cancel()
	case "enter":
		e.SetInput(m.input.Value())
		err = e.Commit()
	case "tab":
		e.SetInput(m.input.Value())
		err = e.Commit()
	case "up", "down":
		e.SetInput(m.input.Value())
		err = e.Blur()
		if err == nil {
			d := 1
			if msg.String() == "up" {
				d = -1
			}
			err = e.Move(d, 0)
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		e.SetInput(m.input.Value())
		return m, cmd
	}
	m.mode = modeNav
	m.input.Blur()
	if err != nil {
		m.setError(err)
	}
	m.scrollToCursor()
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.mode == modeSearch {
			m.session.SetFilter("")
		}
	case "enter":
		if m.mode == modeSearch {
			m.session.SetFilter(m.input.Value())
			m.setMessage(fmt.Sprintf("%d rows match", m.session.View().Len()), msgInfo)
		} else if err := m.session.Login(m.input.Value()); err != nil {
			m.setError(err)
		} else {
			m.setMessage("Logged in as admin", msgSuccess)
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.mode = modeNav
	m.input.SetValue("")
	m.input.Blur()
	m.rowOffset = 0
	m.scrollToCursor()
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	md := m.mode
	m.mode = modeNav
	if k := strings.ToLower(msg.String()); k != "y" {
		m.setMessage("Cancelled", msgInfo)
		return m, nil
	}
	if md == modeConfirmRefresh {
		return m, m.load()
	}
	if err := m.session.DeleteSheet(); err != nil {
		m.setError(err)
	} else {
		m.setMessage("Sheet deleted", msgSuccess)
	}
	m.rowOffset, m.colOffset = 0, 0
	return m, nil
}
