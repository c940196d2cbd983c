package grid

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/UNO-SOFT/sheetedit"
)

func testSheet() *sheetedit.Sheet {
	return &sheetedit.Sheet{
		Name:    "People",
		Headers: []string{"Name", "Age", "City"},
		Data: [][]sheetedit.Value{
			{"Alice Smith", 25.0, "London"},
			{"Maria Rossi", 1234.5, "Rome"},
			{"Hans Weber", 28.0, "Berlin"},
		},
	}
}

func TestColumns(t *testing.T) {
	for name, tc := range map[string]struct {
		sheet *sheetedit.Sheet
		want  []string
	}{
		"headers": {testSheet(), []string{"Name", "Age", "City"}},
		"widest":  {&sheetedit.Sheet{Data: [][]sheetedit.Value{{1.0}, {1.0, 2.0, 3.0}, {}}}, []string{"A", "B", "C"}},
		"empty":   {&sheetedit.Sheet{}, []string{}},
		"nil":     {nil, nil},
	} {
		t.Run(name, func(t *testing.T) {
			got := Columns(tc.sheet)
			if len(got) != len(tc.want) || (len(got) != 0 && !reflect.DeepEqual(got, tc.want)) {
				t.Errorf("got %q, wanted %q", got, tc.want)
			}
		})
	}

	wide := &sheetedit.Sheet{Data: [][]sheetedit.Value{make([]sheetedit.Value, 28)}}
	got := Columns(wide)
	if len(got) != 28 || got[25] != "Z" || got[26] != "AA" || got[27] != "AB" {
		t.Errorf("got %q", got)
	}
}

func TestFilter(t *testing.T) {
	sheet := testSheet()
	before := sheet.Clone()

	v := Render(sheet, "ROME")
	if v.Len() != 1 || v.Rows[0].Source != 1 || v.Rows[0].Cells[0].Text != "Maria Rossi" {
		t.Errorf("got %+v", v.Rows)
	}
	if v = Render(sheet, "nowhere"); v.Len() != 0 {
		t.Errorf("got %d rows, wanted none", v.Len())
	}
	if v = Render(sheet, ""); v.Len() != 3 {
		t.Errorf("got %d rows, wanted all", v.Len())
	}
	// numbers are matched by their stored form
	if got := Filter(sheet, "1234.5"); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("got %v", got)
	}
	if !reflect.DeepEqual(sheet, before) {
		t.Errorf("data changed: %+v", sheet)
	}
}

func TestRenderNumbers(t *testing.T) {
	v := Render(testSheet(), "")
	c, ok := v.Cell(1, 1)
	if !ok || c.Text != "1,234.5" || !c.Numeric || c.Value != 1234.5 {
		t.Errorf("got %+v", c)
	}
	if c, _ = v.Cell(1, 0); c.Numeric {
		t.Errorf("text cell is numeric: %+v", c)
	}
	if c, _ = v.Cell(0, 1); c.Text != "25" {
		t.Errorf("got %q", c.Text)
	}

	de := NewRenderer(language.German).Render(testSheet(), "")
	if c, _ = de.Cell(1, 1); c.Text != "1.234,5" {
		t.Errorf("german: got %q", c.Text)
	}

	short := Render(&sheetedit.Sheet{Headers: []string{"a", "b"}, Data: [][]sheetedit.Value{{"x"}}}, "")
	if c, ok = short.Cell(0, 1); !ok || c.Text != "" {
		t.Errorf("missing cell: got %+v %t", c, ok)
	}
}

type commit struct {
	row, col int
	input    string
}

func newEditor(sheet *sheetedit.Sheet, filter string) (*Editor, *[]commit) {
	var commits []commit
	e := NewEditor(Render(sheet, filter), func(row, col int, input string) error {
		commits = append(commits, commit{row, col, input})
		return nil
	})
	return e, &commits
}

func TestEditorActivate(t *testing.T) {
	e, commits := newEditor(testSheet(), "")
	if editing, err := e.Activate(0, 0); err != nil || editing {
		t.Fatalf("first activation: editing=%t err=%v", editing, err)
	}
	if !e.Selected() || e.Editing() {
		t.Fatal("wanted selected, not editing")
	}
	if editing, _ := e.Activate(0, 0); !editing || e.Input() != "Alice Smith" {
		t.Fatalf("second activation: editing=%t input=%q", editing, e.Input())
	}
	if text, ok := e.CellText(0, 0); !ok || text != "" {
		t.Errorf("edited cell reads %q", text)
	}
	if text, _ := e.CellText(0, 1); text != "25" {
		t.Errorf("other cell reads %q", text)
	}
	e.SetInput("Alice Jones")
	if err := e.Commit(); err != nil {
		t.Fatal(err)
	}
	if want := []commit{{0, 0, "Alice Jones"}}; !reflect.DeepEqual(*commits, want) {
		t.Errorf("got %+v, wanted %+v", *commits, want)
	}
	if row, col := e.Cursor(); row != 0 || col != 1 || e.Editing() {
		t.Errorf("cursor at (%d,%d) editing=%t", row, col, e.Editing())
	}
	if editing, _ := e.Activate(1, 2); editing {
		t.Error("activation of another cell must only select it")
	}
}

func TestEditorCommitLastColumn(t *testing.T) {
	e, _ := newEditor(testSheet(), "")
	_ = e.Select(0, 2)
	e.BeginEdit()
	e.SetInput("Paris")
	if err := e.Commit(); err != nil {
		t.Fatal(err)
	}
	if _, col := e.Cursor(); col != 2 {
		t.Errorf("got col %d, wanted to stay at 2", col)
	}
}

func TestEditorBlurCancel(t *testing.T) {
	e, commits := newEditor(testSheet(), "")
	_ = e.Select(1, 1)
	e.BeginEdit()
	if e.Input() != "1234.5" {
		t.Errorf("input of a number: got %q", e.Input())
	}
	if err := e.Blur(); err != nil {
		t.Fatal(err)
	}
	if len(*commits) != 0 {
		t.Errorf("unchanged input committed: %+v", *commits)
	}

	e.BeginEdit()
	e.SetInput("7")
	e.Cancel()
	if len(*commits) != 0 || e.Editing() {
		t.Errorf("cancel committed: %+v", *commits)
	}

	e.BeginEdit()
	e.SetInput("7")
	if err := e.Blur(); err != nil {
		t.Fatal(err)
	}
	if row, col := e.Cursor(); row != 1 || col != 1 {
		t.Errorf("blur moved the cursor to (%d,%d)", row, col)
	}
	if want := []commit{{1, 1, "7"}}; !reflect.DeepEqual(*commits, want) {
		t.Errorf("got %+v, wanted %+v", *commits, want)
	}

	e.BeginEdit()
	e.SetInput("8")
	if err := e.Select(2, 0); err != nil {
		t.Fatal(err)
	}
	if len(*commits) != 2 || (*commits)[1] != (commit{1, 1, "8"}) {
		t.Errorf("selecting another cell must commit: %+v", *commits)
	}
}

func TestEditorFilteredSource(t *testing.T) {
	e, commits := newEditor(testSheet(), "berlin")
	if e.View().Len() != 1 {
		t.Fatalf("got %d rows", e.View().Len())
	}
	_, _ = e.Activate(0, 1)
	_, _ = e.Activate(0, 1)
	e.SetInput("29")
	if err := e.Commit(); err != nil {
		t.Fatal(err)
	}
	if want := []commit{{2, 1, "29"}}; !reflect.DeepEqual(*commits, want) {
		t.Errorf("got %+v, wanted %+v", *commits, want)
	}
}

func TestEditorSetView(t *testing.T) {
	e, _ := newEditor(testSheet(), "")
	_ = e.Select(2, 2)
	e.SetView(Render(testSheet(), "rome"))
	if row, col := e.Cursor(); row != 0 || col != 2 {
		t.Errorf("got (%d,%d)", row, col)
	}
	e.SetView(Render(testSheet(), "nowhere"))
	if e.Selected() || e.BeginEdit() {
		t.Error("empty view must drop the selection")
	}
	if err := e.Move(1, 1); err != nil {
		t.Error(err)
	}
}

func TestWriteHTML(t *testing.T) {
	sheet := testSheet()
	sheet.Data[0][0] = "<b>Alice</b>"
	var buf bytes.Buffer
	WriteHTML(&buf, Render(sheet, ""))
	s := buf.String()
	for _, want := range []string{"<title>People</title>", "<th>City</th>", "&lt;b&gt;Alice&lt;/b&gt;", `class="num"`, "1,234.5", `data-source="2"`} {
		if !strings.Contains(s, want) {
			t.Errorf("%q not found in %s", want, s)
		}
	}
	if s = HTML(Render(sheet, "nowhere")); !strings.Contains(s, "No data found.") {
		t.Errorf("empty: got %s", s)
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, Render(testSheet(), "")); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}
