package pdfgrid_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdfgrid/pdfgrid"
)

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Page1_Table1", "Page1_Table1"},
		{"invalid chars stripped", `Page[1]:*?/\Table1`, "Page1Table1"},
		{"truncated to limit", "Page1000000_Table1000000_Overflow_Extra", "Page1000000_Table1000000_Overfl"},
		{"empty falls back", `[]:*?/\`, "Table"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pdfgrid.SanitizeSheetName(tt.in))
		})
	}
}

func TestWriteWorkbook(t *testing.T) {
	tables := []pdfgrid.Table{
		{
			Page:  1,
			Index: 1,
			Rows: [][]string{
				{"Name", "Age", "City"},
				{"Alice", "30", "NYC"},
				{"Bob", "25", "LA"},
			},
		},
		{
			Page:  2,
			Index: 1,
			Rows: [][]string{
				{"Item", "Qty"},
				{"Apple", "3"},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, pdfgrid.WriteWorkbook(tables, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Page1_Table1", "Page2_Table1"}, f.GetSheetList())

	rows, err := f.GetRows("Page1_Table1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Age", "City"}, rows[0])
	assert.Equal(t, []string{"Alice", "30", "NYC"}, rows[1])

	rows, err = f.GetRows("Page2_Table1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Item", "Qty"}, rows[0])
}

func TestWriteWorkbook_ColumnWidthsFitContent(t *testing.T) {
	tables := []pdfgrid.Table{
		{
			Page:  1,
			Index: 1,
			Rows: [][]string{
				{"Name", "Description"},
				{"Bob", "a fairly long description value"},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, pdfgrid.WriteWorkbook(tables, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	widthA, err := f.GetColWidth("Page1_Table1", "A")
	require.NoError(t, err)
	widthB, err := f.GetColWidth("Page1_Table1", "B")
	require.NoError(t, err)

	// width = (longest + 2) * 1.2
	assert.InDelta(t, float64(len("Name")+2)*1.2, widthA, 0.01)
	assert.InDelta(t, float64(len("a fairly long description value")+2)*1.2, widthB, 0.01)
}

func TestWriteWorkbook_NoTablesIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	err := pdfgrid.WriteWorkbook(nil, path)
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestWriteWorkbook_UnwritablePath(t *testing.T) {
	tables := []pdfgrid.Table{
		{Page: 1, Index: 1, Rows: [][]string{{"a", "b"}, {"c", "d"}}},
	}
	err := pdfgrid.WriteWorkbook(tables, filepath.Join(t.TempDir(), "missing", "nested", "out.xlsx"))
	require.Error(t, err)
}
