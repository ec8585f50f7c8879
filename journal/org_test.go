package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOrg(t *testing.T) {
	t.Parallel()

	run := &BacktestRun{
		RunID:        "01HXYZ",
		Created:      time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC),
		Mode:         "backtest",
		Dataset:      "data.csv",
		Symbol:       "NIFTY50",
		Strategy:     "ma-cross(10/50)",
		Config:       []byte(`{"short-period":10,"long-period":50}`),
		RiskPct:      2,
		Start:        "2023-01-02",
		End:          "2023-12-29",
		Bars:         250,
		Trades:       6,
		Wins:         2,
		Losses:       1,
		StartBalance: 100000,
		EndBalance:   102345.678,
		NetPL:        2345.678,
		ReturnPct:    2.345678,
		WinRate:      66.6666,
		ProfitFactor: 3.25,
		MaxDDPct:     4.5,
		Notes:        []string{"forced close at end"},
	}

	got, err := run.FormatOrg()
	require.NoError(t, err)

	for _, want := range []string{
		"* BACKTEST: ma-cross(10/50) NIFTY50",
		":RUN_ID:      01HXYZ",
		":START_DATE:  2023-01-02",
		":END_BAL:     102345.68",
		":WIN_RATE:    66.67",
		":CREATED:     [2024-01-02 Tue 15:04]",
		`| Config           | {"short-period":10,"long-period":50} |`,
		"| Wins    | 2 |",
		"** Observations\n- forced close at end",
	} {
		assert.Contains(t, got, want)
	}
}

func TestFormatOrgPlaceholders(t *testing.T) {
	t.Parallel()

	got, err := (&BacktestRun{Symbol: "X", Strategy: "s"}).FormatOrg()
	require.NoError(t, err)
	assert.Contains(t, got, ":RUN_ID:      -")
	assert.Contains(t, got, ":DATASET:     -")
	assert.False(t, strings.Contains(got, "Observations"))
}

func TestWriteOrgFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.org")
	run := &BacktestRun{RunID: "R1", Symbol: "X", Strategy: "s", OrgPath: path}
	require.NoError(t, run.WriteOrgFile())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), ":RUN_ID:      R1")

	assert.Error(t, (&BacktestRun{}).WriteOrgFile())
}
