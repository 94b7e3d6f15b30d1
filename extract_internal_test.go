package pdfgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func charAt(r rune, x0, x1, y0, y1 float64) pageChar {
	return pageChar{Text: r, Box: Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}}
}

// wordAt builds a word of n runes, each width wide, starting at x0 on the
// line spanning y0..y1.
func wordAt(text string, x0, width, y0, y1 float64) pageWord {
	n := len([]rune(text))
	return pageWord{
		Text:  text,
		Box:   Rect{X0: x0, Y0: y0, X1: x0 + float64(n)*width, Y1: y1},
		Runes: n,
	}
}

func TestGroupCharsIntoWords(t *testing.T) {
	chars := []pageChar{
		charAt('a', 0, 10, 0, 10),
		charAt('b', 10, 20, 0, 10),
		charAt(' ', 20, 25, 0, 10),
		charAt('c', 25, 35, 0, 10),
	}

	words := groupCharsIntoWords(chars)

	require.Len(t, words, 2)
	assert.Equal(t, "ab", words[0].Text)
	assert.Equal(t, Rect{X0: 0, Y0: 0, X1: 20, Y1: 10}, words[0].Box)
	assert.Equal(t, "c", words[1].Text)
	assert.Equal(t, 2, words[0].Runes)
}

func TestGroupWordsIntoLines_SeparatesVerticalBands(t *testing.T) {
	words := []pageWord{
		wordAt("second", 0, 10, 30, 40),
		wordAt("first", 0, 10, 0, 10),
		wordAt("line", 80, 10, 2, 11),
	}

	lines := groupWordsIntoLines(words)

	require.Len(t, lines, 2)
	require.Len(t, lines[0].Words, 2)
	assert.Equal(t, "first", lines[0].Words[0].Text)
	assert.Equal(t, "line", lines[0].Words[1].Text)
	assert.Equal(t, "second", lines[1].Words[0].Text)
}

func TestQuantizeLine(t *testing.T) {
	// Character width 10 everywhere, so the estimated space width is 5.
	line := textLine{Words: []pageWord{
		wordAt("Name", 0, 10, 0, 12),   // ends at x=40
		wordAt("Age", 70, 10, 0, 12),   // gap 30 -> 6 spaces
		wordAt("years", 105, 10, 0, 12), // gap 5 -> 1 space
	}}

	raw := quantizeLine(line, 3, 0)

	assert.Equal(t, 3, raw.Page)
	require.Equal(t, []string{"Name", "Age", "years"}, raw.Tokens)
	require.Equal(t, []int{6, 1}, raw.Gaps)
}

func TestQuantizeLine_OverlappingWordsKeepOneSpace(t *testing.T) {
	line := textLine{Words: []pageWord{
		wordAt("over", 0, 10, 0, 12),
		wordAt("lap", 35, 10, 0, 12), // starts before the previous word ends
	}}

	raw := quantizeLine(line, 1, 0)

	require.Equal(t, []string{"over", "lap"}, raw.Tokens)
	require.Equal(t, []int{1}, raw.Gaps)
}

func TestMedianCharWidth(t *testing.T) {
	words := []pageWord{
		wordAt("ab", 0, 8, 0, 10),
		wordAt("cde", 20, 10, 0, 10),
		wordAt("f", 60, 14, 0, 10),
	}
	assert.InDelta(t, 10.0, medianCharWidth(words), 0.001)
	assert.Zero(t, medianCharWidth(nil))
}

func TestCompatibleParts(t *testing.T) {
	assert.True(t, compatibleParts(3, 3, 0))
	assert.True(t, compatibleParts(2, 3, 1))
	assert.True(t, compatibleParts(4, 3, 1))
	assert.False(t, compatibleParts(5, 3, 1))
	assert.False(t, compatibleParts(2, 3, 0))
}
