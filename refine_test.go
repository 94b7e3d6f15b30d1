package pdfgrid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfgrid/pdfgrid"
)

func TestRefine_PadsShortRows(t *testing.T) {
	region := pdfgrid.CandidateRegion{
		StartPage: 1,
		EndPage:   1,
		PartCount: 3,
		Rows: [][]string{
			{"Name", "Age", "City"},
			{"Alice", "30", "NYC"},
			{"Bob", "25"},
		},
	}

	table, ok := pdfgrid.Refine(region)
	require.True(t, ok)

	assert.Equal(t, 3, table.Columns())
	assert.Equal(t, []string{"Bob", "25", ""}, table.Rows[2])
}

func TestRefine_DropsEmptyRows(t *testing.T) {
	region := pdfgrid.CandidateRegion{
		StartPage: 1,
		PartCount: 2,
		Rows: [][]string{
			{"a", "b"},
			{"", "  "},
			{"c", "d"},
		},
	}

	table, ok := pdfgrid.Refine(region)
	require.True(t, ok)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"a", "b"}, table.Rows[0])
	assert.Equal(t, []string{"c", "d"}, table.Rows[1])
}

func TestRefine_DropsEmptyColumnsAndRepacks(t *testing.T) {
	region := pdfgrid.CandidateRegion{
		StartPage: 1,
		PartCount: 3,
		Rows: [][]string{
			{"a", "", "b"},
			{"c", "", "d"},
		},
	}

	table, ok := pdfgrid.Refine(region)
	require.True(t, ok)

	assert.Equal(t, 2, table.Columns())
	assert.Equal(t, []string{"a", "b"}, table.Rows[0])
	assert.Equal(t, []string{"c", "d"}, table.Rows[1])
}

func TestRefine_DegenerateRegionYieldsNoTable(t *testing.T) {
	empty := pdfgrid.CandidateRegion{
		StartPage: 1,
		PartCount: 2,
		Rows: [][]string{
			{"", ""},
			{" ", ""},
		},
	}
	_, ok := pdfgrid.Refine(empty)
	assert.False(t, ok)

	none := pdfgrid.CandidateRegion{StartPage: 1}
	_, ok = pdfgrid.Refine(none)
	assert.False(t, ok)
}

func TestRefine_FirstRemainingRowBecomesHeader(t *testing.T) {
	region := pdfgrid.CandidateRegion{
		StartPage: 2,
		PartCount: 2,
		Rows: [][]string{
			{"", ""},
			{"Name", "Age"},
			{"Alice", "30"},
		},
	}

	table, ok := pdfgrid.Refine(region)
	require.True(t, ok)

	assert.Equal(t, []string{"Name", "Age"}, table.Header())
	assert.Equal(t, 2, table.Page)
}

func TestRefine_Idempotent(t *testing.T) {
	region := pdfgrid.CandidateRegion{
		StartPage: 1,
		PartCount: 3,
		Rows: [][]string{
			{"Name", "Age", "City"},
			{"Alice", "30", ""},
			{"Bob", "", "LA"},
		},
	}

	first, ok := pdfgrid.Refine(region)
	require.True(t, ok)

	second, ok := pdfgrid.Refine(pdfgrid.CandidateRegion{
		StartPage: first.Page,
		PartCount: first.Columns(),
		Rows:      first.Rows,
	})
	require.True(t, ok)

	assert.Equal(t, first.Rows, second.Rows)
}

func TestRefine_NeverTruncatesLongRows(t *testing.T) {
	region := pdfgrid.CandidateRegion{
		StartPage: 1,
		PartCount: 2,
		Rows: [][]string{
			{"a", "b"},
			{"c", "d", "e"},
		},
	}

	table, ok := pdfgrid.Refine(region)
	require.True(t, ok)

	assert.Equal(t, 3, table.Columns())
	assert.Equal(t, []string{"a", "b", ""}, table.Rows[0])
	assert.Equal(t, []string{"c", "d", "e"}, table.Rows[1])
}
