package pdfgrid

import (
	"strings"
	"unicode"
)

// CleanText replaces non-ASCII runes and NUL/0xFF bytes with spaces. Some
// PDF producers emit stray control bytes and private-use glyphs inside what
// is otherwise plain text; treating them as whitespace keeps the run-length
// structure intact.
func CleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r > unicode.MaxASCII || r == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// ParseRawLine tokenizes one line of plain text into a RawLine, recording
// the length of every interior whitespace run. Tabs and other whitespace
// runes each count as one space width.
func ParseRawLine(text string, page, index int) RawLine {
	line := RawLine{Page: page, Index: index}

	var tok strings.Builder
	gap := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			if tok.Len() > 0 {
				line.Tokens = append(line.Tokens, tok.String())
				tok.Reset()
			}
			gap++
			continue
		}
		if gap > 0 && len(line.Tokens) > 0 {
			line.Gaps = append(line.Gaps, gap)
		}
		gap = 0
		tok.WriteRune(r)
	}
	if tok.Len() > 0 {
		line.Tokens = append(line.Tokens, tok.String())
	}
	return line
}

// Classify decides whether a line looks like a table row and, if so, splits
// it into cells. Tokens separated by whitespace runs shorter than
// cfg.MinGapWidth belong to the same cell; a run of at least cfg.MinGapWidth
// spaces is a cell boundary. A line is a candidate only when it splits into
// two or more cells. Pure function of the line.
func Classify(line RawLine, cfg Config) ClassifiedLine {
	if len(line.Tokens) == 0 {
		return ClassifiedLine{Line: line}
	}

	cells := []string{line.Tokens[0]}
	for i := 1; i < len(line.Tokens); i++ {
		gap := 1
		if i-1 < len(line.Gaps) {
			gap = line.Gaps[i-1]
		}
		if gap >= cfg.MinGapWidth {
			cells = append(cells, line.Tokens[i])
		} else {
			cells[len(cells)-1] += " " + line.Tokens[i]
		}
	}

	if len(cells) < 2 {
		return ClassifiedLine{Line: line}
	}
	return ClassifiedLine{Line: line, Candidate: true, Cells: cells}
}
