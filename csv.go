// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package sheetedit

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// EncName is the default charset of CSV files, taken from $LANG.
var EncName = "utf-8"

func init() {
	lang := os.Getenv("LANG")
	if i := strings.IndexByte(lang, '.'); i >= 0 {
		EncName = strings.ToLower(lang[i+1:])
		if j := strings.IndexByte(EncName, '@'); j >= 0 {
			EncName = EncName[:j]
		}
	}
	if EncName == "" {
		EncName = "utf-8"
	}
}

// GetEncoding returns the encoding of the charset name; nil for UTF-8.
func GetEncoding(encName string) (encoding.Encoding, error) {
	encName = strings.ToLower(encName)
	if encName == "" || encName == "utf-8" || encName == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(encName)
	if err != nil {
		err = fmt.Errorf("%q: %w", encName, err)
	}
	return enc, err
}

// ReadCSV reads a sheet named name from r.
//
// The first record becomes the header row, the separator is sniffed
// from the first non-letter, non-digit, non-quote character.
func ReadCSV(r io.Reader, name, encName string) (*Sheet, error) {
	enc, err := GetEncoding(encName)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		r = enc.NewDecoder().Reader(r)
	}
	br := bufio.NewReaderSize(r, 1<<20)
	b, err := br.Peek(1024)
	if err != nil && len(b) == 0 {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyPayload
		}
		return nil, err
	}
	sep := rune(',')
	for _, r := range string(b) {
		if r == '"' || r == '_' || r == ' ' || unicode.IsLetter(r) || unicode.IsNumber(r) {
			continue
		}
		if r == '\r' || r == '\n' {
			break
		}
		sep = r
		break
	}

	cr := csv.NewReader(br)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	headers, err := cr.Read()
	if err != nil {
		return nil, err
	}
	sheet := Sheet{Name: name, Headers: headers}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return &sheet, fmt.Errorf("%s:%d: %w", name, len(sheet.Data)+2, err)
		}
		row := make([]Value, len(rec))
		for i, s := range rec {
			row[i] = s
		}
		sheet.Data = append(sheet.Data, row)
	}
	return &sheet, nil
}

// WriteCSV writes the headers and the rows of the sheet to w.
func WriteCSV(w io.Writer, sheet *Sheet, encName string) error {
	enc, err := GetEncoding(encName)
	if err != nil {
		return err
	}
	if enc != nil {
		w = enc.NewEncoder().Writer(w)
	}
	cw := csv.NewWriter(w)
	if len(sheet.Headers) != 0 {
		if err := cw.Write(sheet.Headers); err != nil {
			return err
		}
	}
	var rec []string
	for _, row := range sheet.Data {
		rec = rec[:0]
		for _, v := range row {
			rec = append(rec, Text(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
