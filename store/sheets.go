// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"strconv"

	"github.com/UNO-SOFT/sheetedit"
)

// BlankSheet returns the sheet added by AddSheet when there are n sheets.
func BlankSheet(n int) *sheetedit.Sheet {
	return &sheetedit.Sheet{
		Name:    "Sheet" + strconv.Itoa(n+1),
		Headers: []string{"Column A", "Column B", "Column C"},
		Data:    [][]sheetedit.Value{{"", "", ""}},
	}
}

// DefaultWorkbook is used when the workbook file cannot be loaded.
func DefaultWorkbook(fileName string) *sheetedit.Workbook {
	return &sheetedit.Workbook{
		FileName: fileName,
		Sheets: []*sheetedit.Sheet{{
			Name:    "Sheet1",
			Headers: []string{"Name", "Age", "City", "Score"},
			Data: [][]sheetedit.Value{
				{"Alice Smith", 25.0, "London", 85.0},
				{"Maria Rossi", 30.0, "Rome", 92.0},
				{"Hans Weber", 28.0, "Berlin", 78.0},
			},
		}},
	}
}
