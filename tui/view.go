// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/UNO-SOFT/sheetedit"
	"github.com/UNO-SOFT/sheetedit/grid"
)

const (
	maxColWidth = 24
	minColWidth = 3
)

// pageRows is the number of grid rows fitting on the screen.
func (m Model) pageRows() int {
	// top bar, header, separator, prompt, status bar
	return max(1, m.height-5)
}

func (m *Model) scrollToCursor() {
	row, col := m.session.Editor().Cursor()
	if row < m.rowOffset {
		m.rowOffset = row
	} else if n := m.pageRows(); row >= m.rowOffset+n {
		m.rowOffset = row - n + 1
	}
	if col < m.colOffset {
		m.colOffset = col
	} else {
		widths := colWidths(m.session.View())
		for m.colOffset < col && !fits(widths, m.colOffset, col, m.width) {
			m.colOffset++
		}
	}
}

func fits(widths []int, from, to, width int) bool {
	w := rowNumWidth
	for i := from; i <= to && i < len(widths); i++ {
		w += widths[i] + 3
	}
	return w <= width
}

const rowNumWidth = 5

func colWidths(v *grid.View) []int {
	widths := make([]int, len(v.Columns))
	for i, c := range v.Columns {
		widths[i] = lipgloss.Width(c)
	}
	for _, r := range v.Rows {
		for i, c := range r.Cells {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c.Text))
			}
		}
	}
	for i, w := range widths {
		widths[i] = min(max(w, minColWidth), maxColWidth)
	}
	return widths
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 1 || len(r) <= 1 {
		return string(r[:min(len(r), n)])
	}
	return string(r[:n-1]) + "…"
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.topBar())
	b.WriteByte('\n')
	b.WriteString(m.table())
	b.WriteString(m.prompt())
	b.WriteByte('\n')
	b.WriteString(m.statusBar())
	return b.String()
}

func (m Model) topBar() string {
	st := m.session.Store()
	parts := make([]string, 0, st.Len()+2)
	name := st.FileName()
	if st.Modified() {
		name += modifiedText.Render(" ●")
	}
	parts = append(parts, name)
	for i, n := range st.Names() {
		if i == st.ActiveIndex() {
			parts = append(parts, tabActiveStyle.Render(n))
		} else {
			parts = append(parts, tabStyle.Render(n))
		}
	}
	if st.Admin() {
		parts = append(parts, successText.Render("[admin]"))
	}
	return barStyle.Width(m.width).Render(strings.Join(parts, " "))
}

func (m Model) table() string {
	v := m.session.View()
	if len(v.Columns) == 0 {
		return dimText.Render("No columns") + "\n"
	}
	widths := colWidths(v)
	var cols []int
	w := rowNumWidth
	for i := m.colOffset; i < len(widths); i++ {
		if w+widths[i]+3 > m.width && len(cols) != 0 {
			break
		}
		w += widths[i] + 3
		cols = append(cols, i)
	}

	var b strings.Builder
	parts := make([]string, 0, len(cols)+1)
	parts = append(parts, rowNumStyle.Width(rowNumWidth).Render(""))
	for _, i := range cols {
		parts = append(parts, headerStyle.Width(widths[i]).Render(truncate(v.Columns[i], widths[i])))
	}
	b.WriteString(strings.Join(parts, " │ "))
	b.WriteByte('\n')
	sep := make([]string, 0, len(cols)+1)
	sep = append(sep, strings.Repeat("─", rowNumWidth))
	for _, i := range cols {
		sep = append(sep, strings.Repeat("─", widths[i]))
	}
	b.WriteString(dimText.Render(strings.Join(sep, "─┼─")))
	b.WriteByte('\n')

	if v.Len() == 0 {
		b.WriteString(dimText.Render("No data found."))
		b.WriteByte('\n')
		return b.String()
	}
	e := m.session.Editor()
	curRow, curCol := e.Cursor()
	end := min(v.Len(), m.rowOffset+m.pageRows())
	for r := m.rowOffset; r < end; r++ {
		parts = parts[:0]
		parts = append(parts, rowNumStyle.Width(rowNumWidth).Render(strconv.Itoa(r+1)))
		for _, i := range cols {
			c, _ := v.Cell(r, i)
			style := cellNormal
			text := c.Text
			if r == curRow && i == curCol {
				switch {
				case e.Editing():
					style, text = cellEditing, m.input.Value()
				case e.Selected():
					style = cellSelected
				}
			}
			style = style.Width(widths[i])
			if c.Numeric {
				style = style.Align(lipgloss.Right)
			}
			parts = append(parts, style.Render(truncate(text, widths[i])))
		}
		b.WriteString(strings.Join(parts, " │ "))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) prompt() string {
	switch m.mode {
	case modeEdit:
		row, col := m.session.Editor().Cursor()
		label := ""
		if col < len(m.session.View().Columns) {
			label = m.session.View().Columns[col]
		}
		return promptStyle.Render(fmt.Sprintf("%s%d (%s) ", sheetedit.ColumnLabel(col), row+1, label)) + m.input.View()
	case modeSearch:
		return promptStyle.Render("/") + m.input.View()
	case modeLogin:
		return promptStyle.Render("password: ") + m.input.View()
	}
	if f := m.session.Filter(); f != "" {
		return dimText.Render(fmt.Sprintf("filter: %q (%d rows)", f, m.session.View().Len()))
	}
	return ""
}

func (m Model) statusBar() string {
	var left string
	style := barStyle
	switch {
	case m.message != "" && m.messageKind == msgError:
		left, style = m.message, barErrorStyle
	case m.message != "" && m.messageKind == msgSuccess:
		left, style = m.message, barSuccessStyle
	case m.message != "":
		left = m.message
	case m.mode == modeEdit:
		left = "enter: save cell  tab: next  esc: cancel"
	default:
		left = "enter: edit  /: search  ^S: save  ^R: reload  tab: sheet  ^N/^D/^X: add/copy/delete  ^L: login  q: quit"
	}
	right := ""
	if busy := m.session.Busy(); busy != "" {
		right = busy + "…"
	} else if t := m.session.Store().LastSaved(); !t.IsZero() {
		right = "saved " + t.Format(time.TimeOnly)
	}
	if right != "" {
		gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
		left += strings.Repeat(" ", max(1, gap)) + right
	}
	return style.Width(m.width).Render(left)
}
