package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/UNO-SOFT/sheetedit"
	"github.com/UNO-SOFT/sheetedit/auth"
	"github.com/UNO-SOFT/sheetedit/editor"
	"github.com/UNO-SOFT/sheetedit/gateway"
	"github.com/UNO-SOFT/sheetedit/store"
)

type fakeGateway struct {
	wb    *sheetedit.Workbook
	saves int
}

func (g *fakeGateway) FileName() string { return "sample.xlsx" }
func (g *fakeGateway) Load(context.Context) (*sheetedit.Workbook, error) {
	if g.wb == nil {
		return nil, &sheetedit.TransportError{Op: "fetch", StatusCode: 404}
	}
	return g.wb.Clone(), nil
}
func (g *fakeGateway) Save(_ context.Context, wb *sheetedit.Workbook) (*gateway.Receipt, error) {
	g.wb = wb.Clone()
	g.saves++
	return &gateway.Receipt{SavedAt: time.Now(), Size: 1}, nil
}
func (g *fakeGateway) Reconcile(ctx context.Context, _ int64) (*sheetedit.Workbook, error) {
	return g.Load(ctx)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run feeds the messages to the model, executing the returned commands
// that produce one of the session's messages.
func run(t *testing.T, m tea.Model, msgs ...tea.Msg) tea.Model {
	t.Helper()
	for len(msgs) != 0 {
		msg := msgs[0]
		msgs = msgs[1:]
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		if cmd == nil {
			continue
		}
		switch next := cmd().(type) {
		case loadedMsg, savedMsg, reconciledMsg:
			msgs = append([]tea.Msg{next}, msgs...)
		}
	}
	return m
}

func newModel(t *testing.T, gw *fakeGateway, options ...editor.Option) (Model, *editor.Session) {
	t.Helper()
	s := editor.New(store.New(), gw, options...)
	t.Cleanup(func() { s.Close() })
	m := New(context.Background(), s)
	m.input.Cursor.SetMode(cursor.CursorStatic)
	cmd := m.load()
	return run(t, m, cmd()).(Model), s
}

func TestEditAndSave(t *testing.T) {
	gw := &fakeGateway{}
	m, s := newModel(t, gw)
	if s.Store().Len() != 1 || !s.Store().Modified() {
		t.Fatalf("default workbook not installed: len=%d", s.Store().Len())
	}
	if !strings.Contains(m.View(), "Alice Smith") {
		t.Errorf("grid not rendered:\n%s", m.View())
	}

	var tm tea.Model = m
	tm = run(t, tm, key("enter"))
	if !s.Editor().Editing() || tm.(Model).mode != modeEdit {
		t.Fatal("enter must start editing")
	}
	if v := tm.View(); !strings.Contains(v, "A1 (Name)") {
		t.Errorf("edit prompt missing:\n%s", v)
	}
	tm = run(t, tm, key("!"), key("enter"))
	if got := s.Store().Active().Cell(0, 0); got != "Alice Smith!" {
		t.Errorf("got %#v", got)
	}
	if _, col := s.Editor().Cursor(); col != 1 {
		t.Errorf("cursor did not advance: col=%d", col)
	}

	tm = run(t, tm, key("down"), key("enter"))
	tm = run(t, tm, key("esc"))
	if s.Editor().Editing() || tm.(Model).mode != modeNav {
		t.Error("esc must cancel editing")
	}

	tm = run(t, tm, key("ctrl+s"))
	if gw.saves != 1 || s.Store().Modified() || s.Busy() != "" {
		t.Errorf("saves=%d modified=%t busy=%q", gw.saves, s.Store().Modified(), s.Busy())
	}
	if got := gw.wb.Sheets[0].Cell(0, 0); got != "Alice Smith!" {
		t.Errorf("saved %#v", got)
	}
	if !strings.Contains(tm.View(), "saved ") {
		t.Errorf("last save time missing:\n%s", tm.View())
	}
}

func TestSearch(t *testing.T) {
	m, s := newModel(t, &fakeGateway{})
	tm := run(t, m, key("/"), key("rome"), key("enter"))
	if s.Filter() != "rome" || s.View().Len() != 1 {
		t.Fatalf("filter=%q rows=%d", s.Filter(), s.View().Len())
	}
	if v := tm.View(); strings.Contains(v, "Alice Smith") || !strings.Contains(v, "Maria Rossi") {
		t.Errorf("got\n%s", v)
	}
	run(t, tm, key("esc"))
	if s.Filter() != "" || s.View().Len() != 3 {
		t.Errorf("filter=%q rows=%d", s.Filter(), s.View().Len())
	}
}

func TestLoginAddSheet(t *testing.T) {
	h, err := auth.HashPassword("pw")
	if err != nil {
		t.Fatal(err)
	}
	hash, _ := auth.ParseHash(h)
	m, s := newModel(t, &fakeGateway{}, editor.WithVerifier(hash))

	tm := run(t, m, key("ctrl+n"))
	if s.Store().Len() != 1 || !strings.Contains(tm.View(), sheetedit.ErrNotAdmin.Error()) {
		t.Errorf("add without admin:\n%s", tm.View())
	}
	tm = run(t, tm, key("ctrl+l"), key("pw"), key("enter"))
	if !s.Admin() {
		t.Fatalf("login failed:\n%s", tm.View())
	}
	if strings.Contains(tm.View(), "pw") {
		t.Error("password echoed")
	}
	tm = run(t, tm, key("ctrl+n"))
	if s.Store().Len() != 2 || s.Store().ActiveIndex() != 1 {
		t.Errorf("len=%d active=%d", s.Store().Len(), s.Store().ActiveIndex())
	}
	run(t, tm, key("tab"))
	if s.Store().ActiveIndex() != 0 {
		t.Errorf("tab: active=%d", s.Store().ActiveIndex())
	}
}
