package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeBars(t *testing.T, dir string, closes []float64) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("Date,Open,High,Low,Close,Volume\n")
	for i, c := range closes {
		fmt.Fprintf(&sb, "2024-01-%02d,%g,%g,%g,%g,1000\n", i+1, c, c, c, c)
	}
	path := filepath.Join(dir, "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")
	assert.FileExists(t, path)

	_, err = execute(t, "config", "init", "-o", path)
	assert.Error(t, err, "refuses to overwrite without --force")

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "MA Crossover (10/50)")
}

func TestConfigValidateRejectsBadPeriods(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	require.NoError(t, os.WriteFile(path, []byte("short_ma_period=50\nlong_ma_period=10\n"), 0o644))

	_, err := execute(t, "config", "validate", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short_period")
}

func TestBacktestRecordsRun(t *testing.T) {
	dir := t.TempDir()
	data := writeBars(t, dir, []float64{10, 10, 10, 10, 10, 11, 12, 13, 12, 10, 9, 8})
	db := filepath.Join(dir, "runs.sqlite")
	org := filepath.Join(dir, "run.org")
	trades := filepath.Join(dir, "trades.csv")

	out, err := execute(t, "backtest",
		"--config", filepath.Join(dir, "missing.txt"),
		"--log-level", "error",
		"--data", data, "--symbol", "TEST",
		"--balance", "10000", "--short", "2", "--long", "4",
		"--trades", trades, "--db", db, "--org", org)
	require.NoError(t, err)
	assert.Contains(t, out, "TEST TRADING BOT - BACKTEST")
	assert.Contains(t, out, "Total Trades:        2")
	assert.FileExists(t, trades)
	assert.FileExists(t, org)

	out, err = execute(t, "journal", "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "ma-cross(2/4)")
	assert.Contains(t, out, "TEST")

	_, err = execute(t, "journal", "runs", "--db", filepath.Join(dir, "nope.sqlite"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tradebot dev"))
}
