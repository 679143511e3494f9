package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Name", "ID", "Average", "Status"},
		Rows: [][]interface{}{
			{"Budi Santoso", "1001", 85.0, "PASSING"},
			{"Ana, Putri", "7-A-k2", 72.5, "REMEDIAL"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,ID,Average,Status", lines[0])
	assert.Equal(t, "Budi Santoso,1001,85,PASSING", lines[1])
	assert.Equal(t, `"Ana, Putri",7-A-k2,72.5,REMEDIAL`, lines[2])
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	data := Dataset{Headers: []string{"a", "b"}, Rows: [][]interface{}{{"only one"}}}

	_, err := NewCSVExporter().Render(data)
	require.Error(t, err)
	_, err = NewXLSXExporter().Render(data, "x")
	require.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{}, "x")
	require.Error(t, err)
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset(), "Review Raport")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.Equal(t, []string{"Review Raport"}, f.GetSheetList())
	name, err := f.GetCellValue("Review Raport", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", name)
	avg, err := f.GetCellValue("Review Raport", "C3")
	require.NoError(t, err)
	assert.Equal(t, "72.5", avg)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Laporan Raport")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
