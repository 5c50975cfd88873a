package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFiles(t *testing.T) {
	result := sampleResult(t)
	outDir := filepath.Join(t.TempDir(), "outputs")
	generated := time.Date(2025, 5, 12, 8, 0, 0, 0, time.UTC)

	paths, err := WriteFiles(outDir, result, NewDocument("run-1", generated, result.Summary))
	require.NoError(t, err)
	require.Len(t, paths, 5)
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 5, "staging directory is removed")

	f, err := os.Open(filepath.Join(outDir, "exceptions.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, Columns, records[0])
	assert.Equal(t, "SHOP, LLC", records[1][2])

	doc, err := ReadDocument(filepath.Join(outDir, SummaryFile))
	require.NoError(t, err)
	assert.Equal(t, "run-1", doc.RunID)
	assert.True(t, generated.Equal(doc.GeneratedAt))
	assert.Equal(t, 3, doc.TotalProcessorRows)
	assert.Equal(t, 1, doc.MatchedRows)
	assert.Equal(t, 33.33, doc.MatchRatePct)
	assert.Equal(t, 3, doc.ExceptionRows)
}

func TestWriteFiles_EmptyTables(t *testing.T) {
	result := sampleResult(t)
	result.Matched = nil
	outDir := t.TempDir()

	_, err := WriteFiles(outDir, result, NewDocument("run-2", time.Now(), result.Summary))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "matched.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "txn_id,user_id_p")
}

func TestWriteFiles_Unwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := WriteFiles(filepath.Join(blocker, "out"), sampleResult(t), Document{})
	assert.ErrorContains(t, err, "failed to create output directory")
}

func TestReadDocument_Errors(t *testing.T) {
	_, err := ReadDocument(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorContains(t, err, "failed to read")

	bad := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = ReadDocument(bad)
	assert.ErrorContains(t, err, "failed to decode")
}
