package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attendanceTable() Table {
	return Table{
		Title:  "Attendance",
		Header: []string{"", "Date", "Mon Apr 01 2024"},
		Rows: [][]string{
			{"Student Name", "Attendance Count", "1"},
			{"Ada Lovelace", "1", "TRUE"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(attendanceTable())
	require.NoError(t, err)
	assert.Equal(t, ",Date,Mon Apr 01 2024\nStudent Name,Attendance Count,1\nAda Lovelace,1,TRUE\n", string(out))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	table := attendanceTable()
	table.Rows = append(table.Rows, []string{"short"})
	_, err := NewCSVExporter().Render(table)
	require.Error(t, err)

	_, err = NewCSVExporter().Render(Table{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(attendanceTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestColumnWidths(t *testing.T) {
	widths := columnWidths(3)
	require.Len(t, widths, 3)
	assert.Equal(t, pdfFirstCol, widths[0])
	assert.InDelta(t, (pdfPageWidth-pdfFirstCol)/2, widths[1], 0.001)
	assert.Equal(t, []float64{pdfPageWidth}, columnWidths(1))
}
