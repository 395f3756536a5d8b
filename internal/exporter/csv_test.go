package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genex/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	paths := config.NewPaths(t.TempDir(), config.PathsConfig{})
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := strings.TrimPrefix(string(data), "\xef\xbb\xbf")
	reader := csv.NewReader(strings.NewReader(content))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteSimpleCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	headers := []string{"A", "B"}
	records := [][]string{{"1", "2"}, {"3", "4"}}
	require.NoError(t, writer.WriteSimpleCSV("out.csv", headers, records))

	path := paths.GetReportPath("out.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xef\xbb\xbf"), "BOM expected")

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, records[0], rows[1])
}

func TestAppendToCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	require.NoError(t, writer.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"1"}}))
	require.NoError(t, writer.AppendToCSV("out.csv", [][]string{{"2"}}))

	rows := readCSV(t, paths.GetReportPath("out.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, "2", rows[2][0])
}

func TestWriteCSVAbsolutePath(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	target := filepath.Join(t.TempDir(), "nested", "abs.csv")
	require.NoError(t, writer.WriteCSV(target, WriteOptions{
		Headers: []string{"A"},
		Records: [][]string{{"1"}},
	}))

	_, err := os.Stat(target)
	assert.NoError(t, err)
}

func TestStreamWriter(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"A", "B"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"1", "2"}))
	require.NoError(t, stream.WriteRecord([]string{"3", "4"}))
	require.NoError(t, stream.Close())

	rows := readCSV(t, paths.GetReportPath("stream.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"3", "4"}, rows[2])
}
