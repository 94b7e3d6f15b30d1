package pdfgrid

import "strings"

// Refine turns a candidate region into a rectangular table: every row is
// padded with empty cells up to the widest row in the region (longer rows
// are never truncated), fully empty rows are dropped, then fully empty
// columns are dropped with the remaining columns re-packed in order. The
// first surviving row becomes the header. Cell contents stay text; no type
// coercion beyond whitespace stripping.
//
// Returns false when the region reduces to zero rows or zero columns; such
// regions are discarded, never emitted. Refining an already rectangular,
// already clean table reproduces it unchanged.
func Refine(region CandidateRegion) (Table, bool) {
	width := 0
	for _, row := range region.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return Table{}, false
	}

	rows := make([][]string, 0, len(region.Rows))
	for _, row := range region.Rows {
		padded := make([]string, width)
		empty := true
		for i, cell := range row {
			cell = strings.TrimSpace(cell)
			padded[i] = cell
			if cell != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, padded)
	}
	if len(rows) == 0 {
		return Table{}, false
	}

	keep := make([]int, 0, width)
	for col := 0; col < width; col++ {
		for _, row := range rows {
			if row[col] != "" {
				keep = append(keep, col)
				break
			}
		}
	}
	if len(keep) == 0 {
		return Table{}, false
	}

	if len(keep) < width {
		for i, row := range rows {
			packed := make([]string, len(keep))
			for j, col := range keep {
				packed[j] = row[col]
			}
			rows[i] = packed
		}
	}

	return Table{Page: region.StartPage, Rows: rows}, true
}
