package sheet

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"paxmatch/internal/fileutil"
)

const (
	minColumnWidth = 8
	maxColumnWidth = 60
)

// Sheet is one worksheet to write: a bold header row followed by data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// WriteWorkbook writes sheets to an xlsx file at path, replacing it atomically.
// Column widths are fitted to the longest value in each column.
func WriteWorkbook(path string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("write workbook %s: no sheets", path)
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return fmt.Errorf("rename sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("add sheet %q: %w", s.Name, err)
		}
		if err := writeSheet(f, s, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		if err := f.Write(w); err != nil {
			return fmt.Errorf("write workbook %s: %w", path, err)
		}
		return nil
	})
}

func writeSheet(f *excelize.File, s Sheet, headerStyle int) error {
	widths := make([]int, len(s.Header))
	header := make([]any, len(s.Header))
	for i, name := range s.Header {
		header[i] = name
		widths[i] = utf8.RuneCountInString(name)
	}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return fmt.Errorf("write header of %q: %w", s.Name, err)
	}
	if len(s.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(s.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(s.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style header of %q: %w", s.Name, err)
		}
	}

	for r, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
			return fmt.Errorf("write row %d of %q: %w", r+2, s.Name, err)
		}
		for i, value := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(fmt.Sprint(value)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width += 2
		width = max(width, minColumnWidth)
		width = min(width, maxColumnWidth)
		if err := f.SetColWidth(s.Name, col, col, float64(width)); err != nil {
			return fmt.Errorf("set width of %q column %s: %w", s.Name, col, err)
		}
	}
	return nil
}
