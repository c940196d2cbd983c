package sheetedit

import (
	"reflect"
	"testing"
)

func TestSheetCell(t *testing.T) {
	var s Sheet
	if s.Cell(3, 3) != "" || s.Width() != 0 {
		t.Errorf("empty sheet: got %#v width=%d", s.Cell(3, 3), s.Width())
	}
	s.SetCell(1, 2, 42.0)
	want := [][]Value{{}, {"", "", 42.0}}
	if len(s.Data) != 2 || !reflect.DeepEqual(s.Data[1], want[1]) {
		t.Errorf("got %#v", s.Data)
	}
	if s.Cell(1, 2) != 42.0 || s.Cell(0, 0) != "" || s.Width() != 3 {
		t.Errorf("got %#v width=%d", s.Cell(1, 2), s.Width())
	}
}

func TestClone(t *testing.T) {
	wb := Workbook{FileName: "x.xlsx", Sheets: []*Sheet{{Name: "A", Headers: []string{"h"}, Data: [][]Value{{"1"}}}}}
	c := wb.Clone()
	c.Sheets[0].Headers[0] = "changed"
	c.Sheets[0].Data[0][0] = "changed"
	c.Sheets[0].Name = "B"
	if wb.Sheets[0].Headers[0] != "h" || wb.Sheets[0].Data[0][0] != "1" || wb.Sheets[0].Name != "A" {
		t.Errorf("original changed: %+v", wb.Sheets[0])
	}
}

func TestText(t *testing.T) {
	for _, tc := range []struct {
		v    Value
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{1.5, "1.5"},
		{1e21, "1000000000000000000000"},
		{3.0, "3"},
		{7, "7"},
		{true, "true"},
	} {
		if got := Text(tc.v); got != tc.want {
			t.Errorf("%#v: got %q, wanted %q", tc.v, got, tc.want)
		}
	}
}

func TestColumnLabels(t *testing.T) {
	if got := SyntheticLabels(3); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("got %q", got)
	}
	for i, label := range map[int]string{0: "A", 25: "Z", 26: "AA", 701: "ZZ", 702: "AAA"} {
		if got := ColumnLabel(i); got != label {
			t.Errorf("%d: got %q, wanted %q", i, got, label)
		}
		if got, err := ColumnIndex(label); err != nil || got != i {
			t.Errorf("%q: got %d, %v", label, got, err)
		}
	}
}
