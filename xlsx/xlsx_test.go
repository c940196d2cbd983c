package xlsx

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/UNO-SOFT/sheetedit"
	"github.com/xuri/excelize/v2"
)

func TestRoundTrip(t *testing.T) {
	wb := &sheetedit.Workbook{Sheets: []*sheetedit.Sheet{
		{
			Name:    "People",
			Headers: []string{"Name", "Age", "City"},
			Data: [][]sheetedit.Value{
				{"Alice", 25.0, "Budapest"},
				{"Bob", 30.5, "5"},
				{},
				{"Carol", -1.0},
			},
		},
		{
			Name:    "Empty headers",
			Headers: nil,
			Data: [][]sheetedit.Value{
				{"x", "y"},
				{1.0, 2.0, 3.0},
			},
		},
		{Name: "Blank"},
	}}
	b, err := Encode(wb)
	if err != nil {
		t.Fatalf("Encode: %+v", err)
	}
	got, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %+v", err)
	}
	if len(got.Sheets) != len(wb.Sheets) {
		t.Fatalf("got %d sheets, wanted %d", len(got.Sheets), len(wb.Sheets))
	}
	for i, want := range wb.Sheets {
		g := got.Sheets[i]
		if g.Name != want.Name {
			t.Errorf("%d. name: got %q, wanted %q", i, g.Name, want.Name)
		}
		if len(g.Headers) != len(want.Headers) || (len(want.Headers) != 0 && !reflect.DeepEqual(g.Headers, want.Headers)) {
			t.Errorf("%s: headers: got %q, wanted %q", want.Name, g.Headers, want.Headers)
		}
		if len(g.Data) != len(want.Data) {
			t.Errorf("%s: got %d rows, wanted %d", want.Name, len(g.Data), len(want.Data))
			continue
		}
		for r, row := range want.Data {
			for c, v := range row {
				if gv := g.Cell(r, c); gv != v {
					t.Errorf("%s[%d,%d]: got %#v, wanted %#v", want.Name, r, c, gv, v)
				}
			}
			if len(g.Data[r]) != len(row) {
				t.Errorf("%s[%d]: got %d cells, wanted %d", want.Name, r, len(g.Data[r]), len(row))
			}
		}
	}
}

func TestDecodeSyntheticHeaders(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "Name")
	f.SetCellValue("Sheet1", "C1", "Score")
	f.SetCellValue("Sheet1", "A2", "Alice")
	f.SetCellValue("Sheet1", "C2", 85)

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	b, err := os.ReadFile(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	wb, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %+v", err)
	}
	s := wb.Sheets[0]
	if want := []string{"Name", "B", "Score"}; !reflect.DeepEqual(s.Headers, want) {
		t.Errorf("headers: got %q, wanted %q", s.Headers, want)
	}
	if v := s.Cell(0, 2); v != 85.0 {
		t.Errorf("C2: got %#v, wanted 85", v)
	}
	if v := s.Cell(0, 1); v != "" {
		t.Errorf("B2: got %#v, wanted empty", v)
	}
}

func TestDecodeErrors(t *testing.T) {
	for name, b := range map[string][]byte{
		"empty":   nil,
		"garbage": []byte("this is not a zip file"),
		"zipHead": {0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x00, 0x00, 0x08, 0x00},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(b)
			var de *sheetedit.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("got %v, wanted DecodeError", err)
			}
			if name == "empty" && !errors.Is(err, sheetedit.ErrEmptyPayload) {
				t.Errorf("got %v, wanted ErrEmptyPayload", err)
			}
		})
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		name string
		used []string
		want string
	}{
		{"Sheet1", nil, "Sheet1"},
		{"a/b[c]", nil, "a_b_c_"},
		{"Sheet1", []string{"sheet1"}, "Sheet1 (2)"},
		{"Sheet1", []string{"Sheet1", "Sheet1 (2)"}, "Sheet1 (3)"},
		{"", []string{"x"}, "Sheet2"},
		{"0123456789012345678901234567890123", nil, "0123456789012345678901234567890"},
		{"0123456789012345678901234567890123", []string{"0123456789012345678901234567890"}, "012345678901234567890123456 (2)"},
	}
	for _, tt := range tests {
		if got := SheetName(tt.name, tt.used); got != tt.want {
			t.Errorf("SheetName(%q, %q): got %q, wanted %q", tt.name, tt.used, got, tt.want)
		}
	}
}

func TestEncodeDuplicateNames(t *testing.T) {
	wb := &sheetedit.Workbook{Sheets: []*sheetedit.Sheet{
		{Name: "Data", Headers: []string{"a"}, Data: [][]sheetedit.Value{{"1"}}},
		{Name: "Data", Headers: []string{"b"}, Data: [][]sheetedit.Value{{"2"}}},
	}}
	var buf bytes.Buffer
	if err := Write(&buf, wb); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Sheets) != 2 || got.Sheets[1].Name != "Data (2)" {
		t.Fatalf("got %+v", got.Sheets)
	}
	if v := got.Sheets[1].Cell(0, 0); v != "2" {
		t.Errorf("got %#v, wanted string 2", v)
	}
}

func TestAppendRowTooMany(t *testing.T) {
	xlw := NewWriter(&bytes.Buffer{})
	sw, err := xlw.NewSheet("x", nil)
	if err != nil {
		t.Fatal(err)
	}
	sw.(*XLSXSheet).row = MaxRowCount
	if err := sw.AppendRow("a"); !errors.Is(err, sheetedit.ErrTooManyRows) {
		t.Errorf("got %v, wanted ErrTooManyRows", err)
	}
}

func TestAppendRowCellTooLong(t *testing.T) {
	long := strings.Repeat("é", MaxCellLength+1)
	wb := &sheetedit.Workbook{Sheets: []*sheetedit.Sheet{
		{Name: "x", Data: [][]sheetedit.Value{{strings.Repeat("é", MaxCellLength)}, {"a", long}}},
	}}
	_, err := Encode(wb)
	if !errors.Is(err, ErrCellTooLong) {
		t.Fatalf("got %v, wanted ErrCellTooLong", err)
	}
	if !strings.Contains(err.Error(), "x[B3]") {
		t.Errorf("error %q does not name the cell", err)
	}
}

func TestEncodeTextColumns(t *testing.T) {
	wb := &sheetedit.Workbook{Sheets: []*sheetedit.Sheet{{
		Name:    "Codes",
		Headers: []string{"Code", "Amount"},
		Data: [][]sheetedit.Value{
			{"007", 1.0},
			{"", "n/a"},
			{"042", 2.5, "extra"},
		},
	}}}
	b, err := Encode(wb)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	isText := func(axis string) bool {
		idx, err := f.GetCellStyle("Codes", axis)
		if err != nil {
			t.Fatalf("%s: %+v", axis, err)
		}
		if idx == 0 {
			return false
		}
		st, err := f.GetStyle(idx)
		if err != nil {
			t.Fatalf("%s: %+v", axis, err)
		}
		return st.NumFmt == 49 || (st.CustomNumFmt != nil && *st.CustomNumFmt == TextFormat)
	}
	for axis, want := range map[string]bool{"A2": true, "A4": true, "B2": false, "B3": false, "C4": true} {
		if got := isText(axis); got != want {
			t.Errorf("%s: text format is %t, wanted %t", axis, got, want)
		}
	}

	got, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if v := got.Sheets[0].Cell(0, 0); v != "007" {
		t.Errorf("got %#v, wanted string 007", v)
	}
}
