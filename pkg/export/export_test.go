package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Participant", "2024-01-08", "2024-01-10"},
		Rows: []map[string]string{
			{"Participant": "Alice", "2024-01-08": "P", "2024-01-10": "P"},
			{"Participant": "Bob", "2024-01-08": "A", "2024-01-10": "X"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Participant", "2024-01-08", "2024-01-10"}, records[0])
	assert.Equal(t, []string{"Bob", "A", "X"}, records[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestCSVExporterFillsMissingCells(t *testing.T) {
	payload, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Participant", "2024-01-08"},
		Rows:    []map[string]string{{"Participant": "Alice"}},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Alice", "-"}, records[1])
}

func TestExcelExporterRender(t *testing.T) {
	payload, err := NewExcelExporter("Attendance").Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Participant", "2024-01-08", "2024-01-10"}, rows[0])
	assert.Equal(t, []string{"Alice", "P", "P"}, rows[1])
}

func TestPDFExporterRender(t *testing.T) {
	payload, err := NewPDFExporter().Render(sampleDataset(), "Attendance Report")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}
