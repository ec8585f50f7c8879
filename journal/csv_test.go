package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "logs", "trades.csv")
	equityPath := filepath.Join(dir, "logs", "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.Equal(t, [][]string{TradeHeader}, readCSV(t, tradesPath))
	assert.Equal(t, [][]string{EquityHeader}, readCSV(t, equityPath))
}

func TestCSVJournalRecordTrade(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	j, err := NewCSV(path, "")
	require.NoError(t, err)

	require.NoError(t, j.RecordTrade(TradeRecord{
		ID:        "T1",
		Timestamp: "2024-01-02",
		Symbol:    "NIFTY50",
		Side:      "BUY",
		Price:     21000.456,
		Quantity:  10,
		Value:     210004.56,
		Balance:   789995.444,
	}))

	// rows are flushed as they are written
	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-01-02", "NIFTY50", "BUY", "21000.46", "10", "210004.56", "789995.44"}, rows[1])

	// equity is disabled without a path
	assert.NoError(t, j.RecordEquity(EquitySnapshot{Timestamp: "x"}))
	assert.NoError(t, j.Close())
}

func TestCSVJournalRecordEquity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	equityPath := filepath.Join(dir, "equity.csv")
	j, err := NewCSV(filepath.Join(dir, "trades.csv"), equityPath)
	require.NoError(t, err)

	require.NoError(t, j.RecordEquity(EquitySnapshot{
		Timestamp: "Live-0",
		Price:     100,
		Balance:   500.5,
		Equity:    1500.5,
	}))
	require.NoError(t, j.Close())

	rows := readCSV(t, equityPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Live-0", "100.00", "500.50", "1500.50"}, rows[1])
}

func TestCSVJournalTruncates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, os.WriteFile(path, []byte("old,data\n"), 0o644))

	j, err := NewCSV(path, "")
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.Equal(t, [][]string{TradeHeader}, readCSV(t, path))
}

func TestCSVJournalBadPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := NewCSV(filepath.Join(blocker, "trades.csv"), "")
	assert.Error(t, err)
}
