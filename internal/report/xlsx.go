package report

import (
	"fmt"

	"github.com/SscSPs/bizos_backend/internal/utils"
	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// RenderXLSX writes each table of doc to its own worksheet. The first sheet
// also carries the report header.
func RenderXLSX(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: colorNeutral.Hex()},
	})
	if err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("number style: %w", err)
	}

	for i, t := range doc.Tables {
		sheet := sheetName(t.Title, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("new sheet %q: %w", sheet, err)
		}

		row := 1
		if i == 0 {
			if err := writeHeader(f, sheet, doc, titleStyle); err != nil {
				return nil, fmt.Errorf("header: %w", err)
			}
			row = 5
		}
		if err := writeSheetTable(f, sheet, row, t, moneyStyle); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, doc Document, titleStyle int) error {
	if err := f.SetCellValue(sheet, "A1", fmt.Sprintf("%s - %s", Product, doc.Title)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A2", doc.Period); err != nil {
		return err
	}
	return f.SetCellValue(sheet, "A3", "Gerado em "+utils.FormatDateTime(doc.GeneratedAt))
}

func writeSheetTable(f *excelize.File, sheet string, startRow int, t Table, numberStyle int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{t.HeaderColor.Hex()}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for c, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, startRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, 10+col.Width*60); err != nil {
			return err
		}
	}

	for r, cells := range t.Rows {
		for c, v := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, startRow+1+r)
			if err != nil {
				return err
			}
			switch n := v.Value.(type) {
			case float64:
				err = f.SetCellValue(sheet, cell, n)
				if err == nil {
					err = f.SetCellStyle(sheet, cell, cell, numberStyle)
				}
			case nil:
				err = f.SetCellValue(sheet, cell, v.Text)
			default:
				err = f.SetCellValue(sheet, cell, n)
			}
			if err != nil {
				return err
			}
		}
	}

	if t.Note != "" {
		cell, err := excelize.CoordinatesToCellName(1, startRow+len(t.Rows)+2)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, t.Note)
	}
	return nil
}

// sheetName trims a table title to Excel's limit and keeps names unique.
func sheetName(title string, index int) string {
	runes := []rune(title)
	if len(runes) > maxSheetName-3 {
		runes = runes[:maxSheetName-3]
	}
	if index == 0 {
		return string(runes)
	}
	return fmt.Sprintf("%d %s", index+1, string(runes))
}
