// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// PDFOptions tunes WritePDF.
type PDFOptions struct {
	// FontSize of the contents; headers are a bit bigger.
	FontSize float64
	// AlternateColor is the background of every second row.
	AlternateColor props.Color
}

// DefaultPDFOptions are used by WritePDF.
var DefaultPDFOptions = PDFOptions{
	FontSize:       8,
	AlternateColor: props.Color{Red: 230, Green: 230, Blue: 230},
}

// WritePDF writes the view as a PDF table to w.
func WritePDF(w io.Writer, v *View) error {
	return WritePDFOptions(w, v, DefaultPDFOptions)
}

// WritePDFOptions writes the view as a PDF table to w.
func WritePDFOptions(w io.Writer, v *View, opts PDFOptions) error {
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultPDFOptions.FontSize
	}
	sizes := gridSizes(v)
	gridSize := 0
	for _, n := range sizes {
		gridSize += n
	}
	m := maroto.New(config.NewBuilder().WithMaxGridSize(max(gridSize, 1)).Build())

	rowHeight := opts.FontSize * 0.6
	header := make([]core.Col, len(v.Columns))
	for i, c := range v.Columns {
		header[i] = text.NewCol(sizes[i], c, props.Text{
			Family: fontfamily.Arial, Style: fontstyle.Bold,
			Size: opts.FontSize * 1.375, Align: align.Center,
		})
	}
	rows := make([]core.Row, 0, len(v.Rows)+1)
	rows = append(rows, row.New(rowHeight*1.375).Add(header...))

	for i, r := range v.Rows {
		cols := make([]core.Col, len(r.Cells))
		for j, c := range r.Cells {
			p := props.Text{Family: fontfamily.Courier, Style: fontstyle.Normal, Size: opts.FontSize}
			if c.Numeric {
				p.Align = align.Right
			}
			cols[j] = text.NewCol(sizes[j], c.Text, p)
		}
		rw := row.New(rowHeight).Add(cols...)
		if i%2 == 1 {
			bg := opts.AlternateColor
			rw = rw.WithStyle(&props.Cell{BackgroundColor: &bg})
		}
		rows = append(rows, rw)
	}
	m.AddRows(rows...)

	doc, err := m.Generate()
	if err != nil {
		return err
	}
	_, err = w.Write(doc.GetBytes())
	return err
}

// gridSizes returns the grid width of each column, proportional to
// the average text length in it.
func gridSizes(v *View) []int {
	widths := make([]float64, len(v.Columns))
	var avg float64
	for i, s := range v.Columns {
		widths[i] = float64(len(s))
	}
	for _, r := range v.Rows {
		for i, c := range r.Cells {
			if i < len(widths) {
				widths[i] += float64(len(c.Text))
			}
		}
	}
	for _, w := range widths {
		avg += w
	}
	sizes := make([]int, len(widths))
	if len(widths) == 0 || avg == 0 {
		for i := range sizes {
			sizes[i] = 1
		}
		return sizes
	}
	avg /= float64(len(widths))
	for i, w := range widths {
		sizes[i] = max(1, int(w/avg*4+0.5))
	}
	return sizes
}
