package pdfgrid

import (
	"fmt"
	"strings"
)

// Rect represents a bounding box in page coordinates with the origin at the
// top-left (Y grows downward, matching reading order).
type Rect struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 {
	return (r.Y0 + r.Y1) / 2
}

// RawLine is one line of text recovered from a page, reduced to its
// non-whitespace tokens and the whitespace runs separating them. Gaps[i] is
// the run length (in space widths) between Tokens[i] and Tokens[i+1], so
// len(Gaps) == len(Tokens)-1 whenever the line has any tokens. Leading and
// trailing whitespace is not recorded.
type RawLine struct {
	Page   int // 1-based page number
	Index  int // 0-based line index within the page
	Tokens []string
	Gaps   []int
}

// Text reconstructs the line with each whitespace run rendered as spaces.
func (l RawLine) Text() string {
	var b strings.Builder
	for i, tok := range l.Tokens {
		if i > 0 {
			gap := 1
			if i-1 < len(l.Gaps) {
				gap = l.Gaps[i-1]
			}
			b.WriteString(strings.Repeat(" ", gap))
		}
		b.WriteString(tok)
	}
	return b.String()
}

// ClassifiedLine is a RawLine tagged with the table-row decision. Cells is
// populated only when Candidate is true.
type ClassifiedLine struct {
	Line      RawLine
	Candidate bool
	Cells     []string
}

// PartCount returns the number of cells the line splits into.
func (c ClassifiedLine) PartCount() int {
	return len(c.Cells)
}

// CandidateRegion is a contiguous run of compatible candidate lines. The
// part count is established by the region's first line and never changes.
// StartPage and EndPage record provenance; a region spans a page break when
// they differ.
type CandidateRegion struct {
	StartPage int
	EndPage   int
	PartCount int
	Rows      [][]string
}

// Table is a rectangular grid of text cells. Rows[0] is the header row.
// Page and Index identify the table for worksheet naming: Index counts
// tables on the originating page, starting at 1.
type Table struct {
	Page  int
	Index int
	Rows  [][]string
}

// Header returns the header row.
func (t Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Columns returns the column count shared by every row.
func (t Table) Columns() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Name returns the worksheet-facing identifier, e.g. "Page2_Table1".
func (t Table) Name() string {
	return fmt.Sprintf("Page%d_Table%d", t.Page, t.Index)
}

// PageLines holds the recovered lines of one page in top-to-bottom order.
type PageLines struct {
	Number int
	Lines  []RawLine
}
