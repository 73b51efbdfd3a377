package report

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/SscSPs/bizos_backend/internal/utils"
	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	fontRegular = "goregular"
	fontBold    = "gobold"

	pageWidth    = 595.28
	marginX      = 40.0
	marginTop    = 40.0
	contentWidth = pageWidth - 2*marginX
	rowHeight    = 18.0
	breakY       = 770.0
	footerLineY  = 800.0
	footerTextY  = 808.0
)

type pdfWriter struct {
	pdf gopdf.GoPdf
	y   float64
}

// RenderPDF draws doc as an A4 PDF. The bytes are only returned once the whole
// document, footers included, has been laid out.
func RenderPDF(doc Document) ([]byte, error) {
	w := &pdfWriter{}
	w.pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := w.pdf.AddTTFFontData(fontRegular, goregular.TTF); err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	if err := w.pdf.AddTTFFontData(fontBold, gobold.TTF); err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	w.newPage()

	if err := w.header(doc); err != nil {
		return nil, err
	}
	for _, t := range doc.Tables {
		if err := w.table(t); err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Title, err)
		}
	}
	if err := w.footers(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := w.pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) newPage() {
	w.pdf.AddPage()
	w.y = marginTop
}

// ensure starts a new page when the next h points would cross the break line.
func (w *pdfWriter) ensure(h float64) bool {
	if w.y+h <= breakY {
		return false
	}
	w.newPage()
	return true
}

func (w *pdfWriter) write(font string, size float64, c Color, x float64, s string) error {
	if err := w.pdf.SetFont(font, "", size); err != nil {
		return err
	}
	w.pdf.SetTextColor(c.R, c.G, c.B)
	w.pdf.SetX(x)
	w.pdf.SetY(w.y)
	return w.pdf.Cell(nil, s)
}

func (w *pdfWriter) header(doc Document) error {
	w.pdf.SetFillColor(colorNeutral.R, colorNeutral.G, colorNeutral.B)
	w.pdf.RectFromUpperLeftWithStyle(0, 0, pageWidth, 90, "F")

	white := Color{255, 255, 255}
	w.y = 20
	if err := w.write(fontBold, 20, white, marginX, Product); err != nil {
		return err
	}
	w.y = 46
	if err := w.write(fontBold, 14, white, marginX, doc.Title); err != nil {
		return err
	}
	w.y = 66
	if err := w.write(fontRegular, 10, white, marginX, doc.Period); err != nil {
		return err
	}
	generated := "Gerado em " + utils.FormatDateTime(doc.GeneratedAt)
	if err := w.write(fontRegular, 9, white, pageWidth-marginX-150, generated); err != nil {
		return err
	}
	w.y = 110
	return nil
}

func (w *pdfWriter) table(t Table) error {
	// Keep the title together with the header and at least one row.
	w.ensure(rowHeight * 3)
	if err := w.write(fontBold, 12, colorNeutral, marginX, t.Title); err != nil {
		return err
	}
	w.y += rowHeight

	if len(t.Rows) == 0 {
		if err := w.write(fontRegular, 9, defaultColor, marginX, "Nenhum dado no período"); err != nil {
			return err
		}
		w.y += rowHeight * 1.5
		return nil
	}

	if err := w.headerRow(t); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if w.ensure(rowHeight) {
			if err := w.headerRow(t); err != nil {
				return err
			}
		}
		if i%2 == 1 {
			w.pdf.SetFillColor(243, 244, 246)
			w.pdf.RectFromUpperLeftWithStyle(marginX, w.y, contentWidth, rowHeight, "F")
		}
		if err := w.row(t.Columns, row, fontRegular, Color{31, 41, 55}); err != nil {
			return err
		}
	}

	if t.Note != "" {
		w.ensure(rowHeight)
		if err := w.write(fontRegular, 9, defaultColor, marginX, t.Note); err != nil {
			return err
		}
		w.y += rowHeight
	}
	if len(t.Legend) > 0 {
		if err := w.legend(t.Legend); err != nil {
			return err
		}
	}
	w.y += rowHeight
	return nil
}

func (w *pdfWriter) headerRow(t Table) error {
	c := t.HeaderColor
	w.pdf.SetFillColor(c.R, c.G, c.B)
	w.pdf.RectFromUpperLeftWithStyle(marginX, w.y, contentWidth, rowHeight, "F")
	cells := make([]Cell, len(t.Columns))
	for i, col := range t.Columns {
		cells[i] = text(col.Header)
	}
	return w.row(t.Columns, cells, fontBold, Color{255, 255, 255})
}

func (w *pdfWriter) row(cols []Column, cells []Cell, font string, c Color) error {
	if err := w.pdf.SetFont(font, "", 9); err != nil {
		return err
	}
	w.pdf.SetTextColor(c.R, c.G, c.B)
	x := marginX
	for i, col := range cols {
		width := col.Width * contentWidth
		s := ""
		if i < len(cells) {
			s = w.fit(cells[i].Text, width-8)
		}
		align := gopdf.Left | gopdf.Middle
		if col.AlignRight {
			align = gopdf.Right | gopdf.Middle
		}
		w.pdf.SetX(x + 4)
		w.pdf.SetY(w.y)
		rect := &gopdf.Rect{W: width - 8, H: rowHeight}
		if err := w.pdf.CellWithOption(rect, s, gopdf.CellOption{Align: align}); err != nil {
			return err
		}
		x += width
	}
	w.y += rowHeight
	return nil
}

// fit trims s with an ellipsis until it is no wider than limit.
func (w *pdfWriter) fit(s string, limit float64) string {
	width, err := w.pdf.MeasureTextWidth(s)
	if err != nil || width <= limit {
		return s
	}
	for utf8.RuneCountInString(s) > 1 {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
		if width, err = w.pdf.MeasureTextWidth(s + "…"); err == nil && width <= limit {
			break
		}
	}
	return s + "…"
}

func (w *pdfWriter) legend(entries []LegendEntry) error {
	w.ensure(rowHeight)
	x := marginX
	for _, e := range entries {
		label := e.Label
		if err := w.pdf.SetFont(fontRegular, "", 8); err != nil {
			return err
		}
		labelWidth, err := w.pdf.MeasureTextWidth(label)
		if err != nil {
			return err
		}
		if x+14+labelWidth > marginX+contentWidth {
			w.y += rowHeight * 0.8
			w.ensure(rowHeight)
			x = marginX
		}
		w.pdf.SetFillColor(e.Color.R, e.Color.G, e.Color.B)
		w.pdf.RectFromUpperLeftWithStyle(x, w.y+3, 8, 8, "F")
		if err := w.write(fontRegular, 8, colorNeutral, x+12, label); err != nil {
			return err
		}
		x += 12 + labelWidth + 14
	}
	w.y += rowHeight
	return nil
}

// footers revisits every page once the page count is known.
func (w *pdfWriter) footers() error {
	total := w.pdf.GetNumberOfPages()
	for page := 1; page <= total; page++ {
		if err := w.pdf.SetPage(page); err != nil {
			return fmt.Errorf("select page %d: %w", page, err)
		}
		w.pdf.SetStrokeColor(209, 213, 219)
		w.pdf.SetLineWidth(0.5)
		w.pdf.Line(marginX, footerLineY, pageWidth-marginX, footerLineY)

		w.y = footerTextY
		if err := w.write(fontRegular, 8, defaultColor, marginX, "Gerado por "+Product); err != nil {
			return err
		}
		if err := w.write(fontRegular, 8, defaultColor, pageWidth-marginX-70, fmt.Sprintf("Página %d de %d", page, total)); err != nil {
			return err
		}
	}
	return nil
}
