package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournalWritesHeadersAndRows(t *testing.T) {
	dir := t.TempDir()
	fillsPath := filepath.Join(dir, "fills.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(fillsPath, equityPath)
	require.NoError(t, err)

	at := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordFill(FillRecord{
		RunID: "R1", Instrument: "600519", Time: at,
		Side: "BUY", Shares: 1000, Price: 100, Commission: 100,
		Reason: "ENTRY", Layer: 1,
	}))
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		RunID: "R1", Time: at, Cash: 899_900, Shares: 1000, Equity: 999_900,
	}))
	require.NoError(t, j.Close())

	rows := readCSV(t, fillsPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "run_id", rows[0][0])
	assert.Equal(t, []string{"R1", "600519", "2024-03-04T00:00:00Z", "BUY", "1000", "100", "100", "0", "ENTRY", "1"}, rows[1])

	rows = readCSV(t, equityPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"R1", "2024-03-04T00:00:00Z", "899900", "1000", "999900"}, rows[1])
}

func TestCSVJournalOpenErrors(t *testing.T) {
	dir := t.TempDir()

	// Equity path is a directory: creation fails after the fills file
	// opened, and the fills handle must not leak.
	_, err := NewCSV(filepath.Join(dir, "fills.csv"), dir)
	assert.Error(t, err)

	// A full device fails the header flush after both files opened.
	if _, statErr := os.Stat("/dev/full"); statErr == nil {
		_, err = NewCSV("/dev/full", filepath.Join(dir, "equity.csv"))
		assert.Error(t, err)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
