// Package report lays out finance reports as a format-neutral Document and
// renders that document as PDF or XLSX.
package report

import (
	"time"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
)

// Product is the attribution printed in report headers and footers.
const Product = "BizOS"

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as #RRGGBB.
func (c Color) Hex() string {
	const digits = "0123456789ABCDEF"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0F]
	}
	return string(b)
}

var (
	colorNeutral = Color{55, 65, 81}
	colorIncome  = Color{16, 185, 129}
	colorExpense = Color{239, 68, 68}
	colorFlow    = Color{59, 130, 246}
)

// Column describes one table column. Width is a fraction of the printable width.
type Column struct {
	Header     string
	Width      float64
	AlignRight bool
}

// Cell is a table cell. Value, when set, is the raw number spreadsheets store
// instead of the formatted Text.
type Cell struct {
	Text  string
	Value any
}

// LegendEntry is a colored swatch shown under a category table.
type LegendEntry struct {
	Label string
	Color Color
}

// Table is a titled grid with a colored header row.
type Table struct {
	Title       string
	HeaderColor Color
	Columns     []Column
	Rows        [][]Cell
	Legend      []LegendEntry
	Note        string
}

// Document is a laid-out report, independent of output format.
type Document struct {
	Kind        domain.ReportKind
	Title       string
	Period      string
	GeneratedAt time.Time
	Tables      []Table
}

func text(s string) Cell {
	return Cell{Text: s}
}
