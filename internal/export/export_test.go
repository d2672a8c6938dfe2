package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hyperifyio/sirenextract/internal/pipeline"
)

var at = time.Date(2024, 3, 12, 9, 30, 5, 0, time.UTC)

func sampleReport() pipeline.Report {
	return pipeline.Report{Valid: []string{"732829320", "012345674"}, Invalid: []string{"111111111"}}
}

func TestRows_ValidOnlyByDefault(t *testing.T) {
	rows := Rows(sampleReport(), at, false)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{SIREN: "732829320", Status: StatusValid, ExtractedAt: at}, rows[0])
	assert.Equal(t, "012345674", rows[1].SIREN)
}

func TestRows_IncludeInvalid(t *testing.T) {
	rows := Rows(sampleReport(), at, true)
	require.Len(t, rows, 3)
	assert.Equal(t, StatusInvalid, rows[2].Status)
	assert.Equal(t, "111111111", rows[2].SIREN)
}

func TestWriteCSV_HeaderAndRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Rows(sampleReport(), at, false)))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"SIREN", "Statut", "Date d'extraction"},
		{"732829320", "valide", "2024-03-12T09:30:05Z"},
		{"012345674", "valide", "2024-03-12T09:30:05Z"},
	}, records)
}

func TestWriteCSV_EmptyReportHasHeaderOnly(t *testing.T) {
	b, err := CSVBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, "SIREN,Statut,Date d'extraction\n", string(b))
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "siren_extraits_20240312_093005.csv", DefaultFileName(at, FormatCSV))
	assert.Equal(t, "siren_extraits_20240312_093005.xlsx", DefaultFileName(at, FormatXLSX))
}

func TestWriters_AllFormats(t *testing.T) {
	dir := t.TempDir()
	rows := Rows(sampleReport(), at, true)

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, WriteCSVFile(csvPath, rows))
	b, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "111111111,invalide")

	xlsxPath := filepath.Join(dir, "out.xlsx")
	require.NoError(t, WriteXLSX(xlsxPath, rows))
	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, Headers, got[0])
	assert.Equal(t, "012345674", got[2][0])

	pdfPath := filepath.Join(dir, "out.pdf")
	require.NoError(t, WritePDF(pdfPath, rows))
	pb, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pb, []byte("%PDF-")))
}

func TestWritePDF_Empty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, WritePDF(p, nil))
	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteXLSX_ColumnWidths(t *testing.T) {
	p := filepath.Join(t.TempDir(), "widths.xlsx")
	require.NoError(t, WriteXLSX(p, Rows(sampleReport(), at, false)))
	f, err := excelize.OpenFile(p)
	require.NoError(t, err)
	defer f.Close()
	for col, want := range map[string]float64{"A": 14, "B": 12, "C": 28} {
		got, err := f.GetColWidth(sheetName, col)
		require.NoError(t, err)
		assert.Equal(t, want, got, col)
	}
}

func TestWriteXLSX_UnwritablePath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing-dir", "out.xlsx")
	assert.Error(t, WriteXLSX(p, nil))
}
