package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVExporterHeaderOnly(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{Headers: []string{"Time", "Action"}})
	require.NoError(t, err)
	require.Equal(t, "Time,Action\n", string(out))
}

func TestCSVExporterQuotesAndValidatesRows(t *testing.T) {
	exp := NewCSVExporter()
	out, err := exp.Render(Dataset{
		Headers: []string{"File", "User"},
		Rows:    [][]string{{"Laporan, 2024", "Budi"}},
	})
	require.NoError(t, err)
	require.Equal(t, "File,User\n\"Laporan, 2024\",Budi\n", string(out))

	_, err = exp.Render(Dataset{Headers: []string{"A", "B"}, Rows: [][]string{{"only-one"}}})
	require.Error(t, err)

	_, err = exp.Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRenders(t *testing.T) {
	out, err := NewPDFExporter().Render(Dataset{
		Title:   "Activity Log",
		Headers: []string{"Time", "Action", "File", "User", "IP Address"},
		Rows:    [][]string{{"2024-05-01 10:00:00", "upload", "Data Tangkapan", "Budi", "127.0.0.1"}},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
