package backtest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintSummary(t *testing.T) {
	res := Result{
		Mode:           ModeBacktest,
		FinalBalance:   101234.5,
		MaxDrawdownPct: 3.25,
		Statistics: Statistics{
			TotalTrades:     4,
			WinningTrades:   1,
			LosingTrades:    1,
			WinRate:         50,
			TotalProfitLoss: 1234.5,
			LargestWin:      2000,
			LargestLoss:     -765.5,
		},
	}

	var buf bytes.Buffer
	PrintSummary(&buf, res, "INR")
	out := buf.String()

	for _, want := range []string{
		"Final Balance: INR 101,234.50",
		"TRADING SUMMARY",
		"Total Trades:        4",
		"Win Rate:            50.00%",
		"Total P/L:           INR 1,234.50",
		"Largest Win:         INR 2,000.00",
		"Largest Loss:        INR -765.50",
		"Max Drawdown:        3.25%",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Portfolio Value")
}

func TestPrintSummaryLive(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, Result{Mode: ModeLive, FinalValue: 10500}, "INR")
	assert.Contains(t, buf.String(), "Portfolio Value:     INR 10,500.00")
	assert.NotContains(t, buf.String(), "Final Balance")
}

func TestResultRun(t *testing.T) {
	res := Result{
		RunID:          "R1",
		Mode:           ModeBacktest,
		Symbol:         "NIFTY50",
		Strategy:       "ma-cross(2/4)",
		InitialBalance: 1000,
		FinalBalance:   1100,
		FinalValue:     1100,
		Bars:           3,
		Start:          "a",
		End:            "b",
		ForcedClose:    true,
		Statistics:     Statistics{TotalTrades: 2, WinningTrades: 1, WinRate: 100, TotalProfitLoss: 100, ReturnPct: 10},
	}

	btr := res.Run("data.csv", map[string]int{"short": 2}, 2)
	assert.Equal(t, "R1", btr.RunID)
	assert.Equal(t, "data.csv", btr.Dataset)
	assert.JSONEq(t, `{"short":2}`, string(btr.Config))
	assert.Equal(t, 2, btr.Trades)
	assert.Equal(t, 1, btr.Wins)
	assert.Equal(t, 100.0, btr.NetPL)
	assert.Equal(t, 10.0, btr.ReturnPct)
	assert.False(t, btr.Created.IsZero())
	assert.Len(t, btr.Notes, 1)
}
