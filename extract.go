package pdfgrid

import (
	"math"
	"sort"
	"strings"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// pageChar is a single positioned character recovered from a page.
type pageChar struct {
	Text rune
	Box  Rect
}

// pageWord is a run of non-whitespace characters with its bounding box.
type pageWord struct {
	Text  string
	Box   Rect
	Runes int
}

// textLine is a visual line of words, prior to whitespace-run quantization.
type textLine struct {
	Words []pageWord
	Box   Rect
}

// extractPageLines recovers the text lines of a PDF page as RawLines:
// characters are read with their bounding boxes, grouped into words on
// whitespace, words are grouped into visual lines by vertical overlap, and
// the horizontal gap between adjacent words is quantized into space widths.
// The quantization is what lets the downstream heuristic work purely on
// whitespace-run patterns without carrying glyph coordinates any further.
func extractPageLines(instance pdfium.Pdfium, page references.FPDF_PAGE, pageNumber int, cfg Config) ([]RawLine, error) {
	pageHeight, err := instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page height")
	}

	textPage, err := instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count characters")
	}
	if charCount.Count == 0 {
		return nil, nil
	}

	chars := extractChars(instance, textPage.TextPage, charCount.Count, float64(pageHeight.PageHeight), cfg)
	words := groupCharsIntoWords(chars)
	lines := groupWordsIntoLines(words)

	rawLines := make([]RawLine, 0, len(lines))
	for i, line := range lines {
		raw := quantizeLine(line, pageNumber, i)
		if len(raw.Tokens) == 0 {
			continue
		}
		raw.Index = len(rawLines)
		rawLines = append(rawLines, raw)
	}
	return rawLines, nil
}

// extractChars reads every character of a text page with its bounding box.
// Characters that fail to resolve are skipped rather than failing the page.
func extractChars(instance pdfium.Pdfium, textPage references.FPDF_TEXTPAGE, count int, pageHeight float64, cfg Config) []pageChar {
	chars := make([]pageChar, 0, count)

	for i := range count {
		unicodeRes, err := instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}

		charBox, err := instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		r := rune(unicodeRes.Unicode)
		if cfg.CleanText && (r > 0x7F || r == 0) {
			r = ' '
		}

		// Convert PDF coordinates (origin bottom-left) to reading order
		// (origin top-left).
		chars = append(chars, pageChar{
			Text: r,
			Box: Rect{
				X0: charBox.Left,
				Y0: pageHeight - charBox.Top,
				X1: charBox.Right,
				Y1: pageHeight - charBox.Bottom,
			},
		})
	}
	return chars
}

// groupCharsIntoWords splits the character stream on whitespace, merging the
// bounding boxes of each run of non-whitespace characters.
func groupCharsIntoWords(chars []pageChar) []pageWord {
	var words []pageWord
	var current strings.Builder
	var box Rect
	runes := 0

	flush := func() {
		if runes == 0 {
			return
		}
		words = append(words, pageWord{Text: current.String(), Box: box, Runes: runes})
		current.Reset()
		runes = 0
	}

	for _, char := range chars {
		if char.Text == ' ' || char.Text == '\t' || char.Text == '\n' || char.Text == '\r' {
			flush()
			continue
		}
		if runes == 0 {
			box = char.Box
		} else {
			box.X0 = math.Min(box.X0, char.Box.X0)
			box.Y0 = math.Min(box.Y0, char.Box.Y0)
			box.X1 = math.Max(box.X1, char.Box.X1)
			box.Y1 = math.Max(box.Y1, char.Box.Y1)
		}
		current.WriteRune(char.Text)
		runes++
	}
	flush()
	return words
}

// groupWordsIntoLines groups words into visual lines: words whose vertical
// centers sit within half their average height of the line's center belong
// to the same line. Words are first ordered by visual position so the
// grouping is independent of the PDF's internal object order.
func groupWordsIntoLines(words []pageWord) []textLine {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]pageWord, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		wi, wj := sorted[i], sorted[j]
		overlap := math.Min(wi.Box.Y1, wj.Box.Y1) - math.Max(wi.Box.Y0, wj.Box.Y0)
		minHeight := math.Min(wi.Box.Height(), wj.Box.Height())
		if overlap > minHeight*0.3 {
			return wi.Box.X0 < wj.Box.X0
		}
		return wi.Box.Y0 < wj.Box.Y0
	})

	var lines []textLine
	var current textLine
	for _, word := range sorted {
		if len(current.Words) == 0 {
			current = textLine{Words: []pageWord{word}, Box: word.Box}
			continue
		}

		centerDistance := math.Abs(word.Box.CenterY() - current.Box.CenterY())
		avgHeight := (current.Box.Height() + word.Box.Height()) / 2
		if centerDistance < avgHeight*0.7 {
			current.Words = append(current.Words, word)
			current.Box.X0 = math.Min(current.Box.X0, word.Box.X0)
			current.Box.Y0 = math.Min(current.Box.Y0, word.Box.Y0)
			current.Box.X1 = math.Max(current.Box.X1, word.Box.X1)
			current.Box.Y1 = math.Max(current.Box.Y1, word.Box.Y1)
			continue
		}

		lines = append(lines, current)
		current = textLine{Words: []pageWord{word}, Box: word.Box}
	}
	lines = append(lines, current)

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Box.CenterY() < lines[j].Box.CenterY()
	})
	return lines
}

// quantizeLine converts a visual line into a RawLine by expressing each
// inter-word gap as a whole number of space widths. The space width is
// estimated as half the median character width of the line, which tracks
// the font in use without needing font metrics. Every gap renders as at
// least one space; overlapping boxes collapse to one.
func quantizeLine(line textLine, pageNumber, index int) RawLine {
	words := make([]pageWord, len(line.Words))
	copy(words, line.Words)
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Box.X0 < words[j].Box.X0
	})

	spaceWidth := medianCharWidth(words) * 0.5
	if spaceWidth <= 0 {
		spaceWidth = 1
	}

	raw := RawLine{Page: pageNumber, Index: index}
	for i, word := range words {
		text := strings.TrimSpace(word.Text)
		if text == "" {
			continue
		}
		if len(raw.Tokens) > 0 {
			gap := word.Box.X0 - words[i-1].Box.X1
			units := int(math.Round(gap / spaceWidth))
			if units < 1 {
				units = 1
			}
			raw.Gaps = append(raw.Gaps, units)
		}
		raw.Tokens = append(raw.Tokens, text)
	}
	return raw
}

// medianCharWidth estimates the typical character width across a line.
func medianCharWidth(words []pageWord) float64 {
	var widths []float64
	for _, word := range words {
		if word.Runes == 0 {
			continue
		}
		widths = append(widths, word.Box.Width()/float64(word.Runes))
	}
	if len(widths) == 0 {
		return 0
	}

	sort.Float64s(widths)
	mid := len(widths) / 2
	if len(widths)%2 == 0 {
		return (widths[mid-1] + widths[mid]) / 2
	}
	return widths[mid]
}
