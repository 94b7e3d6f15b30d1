package pdfgrid

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// maxSheetNameLen is the worksheet name limit imposed by the xlsx format.
const maxSheetNameLen = 31

// sheetNameInvalid holds the characters xlsx forbids in worksheet names.
const sheetNameInvalid = `[]:*?/\`

// SanitizeSheetName strips characters the xlsx format forbids and trims the
// result to the 31-character worksheet name limit. An empty result falls
// back to "Table".
func SanitizeSheetName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(sheetNameInvalid, r) {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := strings.TrimSpace(b.String())
	if len(cleaned) > maxSheetNameLen {
		cleaned = cleaned[:maxSheetNameLen]
	}
	if cleaned == "" {
		return "Table"
	}
	return cleaned
}

// WriteWorkbook writes one worksheet per table to an xlsx file at path. The
// header row is written first, remaining rows follow in order, and every
// column is widened to fit its longest value. The xlsx format cannot
// represent a workbook with zero sheets, so callers decide what to do with
// an empty table set; passing one here is an error.
func WriteWorkbook(tables []Table, path string) error {
	if len(tables) == 0 {
		return errors.New("no tables to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		name := SanitizeSheetName(table.Name())
		if i == 0 {
			// Rename the default sheet rather than leaving it empty.
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return errors.Wrapf(err, "failed to create sheet %q", name)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return errors.Wrapf(err, "failed to create sheet %q", name)
			}
		}
		if err := writeSheet(f, name, table); err != nil {
			return err
		}
	}

	return errors.Wrapf(f.SaveAs(path), "failed to save workbook %q", path)
}

func writeSheet(f *excelize.File, sheet string, table Table) error {
	for ri, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, ri+1)
		if err != nil {
			return errors.Wrap(err, "failed to compute cell name")
		}
		values := make([]interface{}, len(row))
		for ci, s := range row {
			values[ci] = s
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return errors.Wrapf(err, "failed to write row %d of sheet %q", ri+1, sheet)
		}
	}
	return autoFitColumns(f, sheet, table)
}

// autoFitColumns sizes each column to its longest value plus padding,
// capped at the xlsx maximum column width.
func autoFitColumns(f *excelize.File, sheet string, table Table) error {
	const maxColWidth = 255

	for ci := 0; ci < table.Columns(); ci++ {
		maxLen := 0
		for _, row := range table.Rows {
			if n := len([]rune(row[ci])); n > maxLen {
				maxLen = n
			}
		}
		width := float64(maxLen+2) * 1.2
		if width > maxColWidth {
			width = maxColWidth
		}
		col, err := excelize.ColumnNumberToName(ci + 1)
		if err != nil {
			return errors.Wrap(err, "failed to compute column name")
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return errors.Wrapf(err, "failed to set width of column %s", col)
		}
	}
	return nil
}
