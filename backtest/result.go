package backtest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rustyeddy/tradebot/journal"
	"github.com/rustyeddy/tradebot/sim"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	ModeBacktest = "backtest"
	ModeLive     = "live"
)

// Result is everything a run produced.
type Result struct {
	RunID    string
	Mode     string
	Symbol   string
	Strategy string

	Trades     []sim.Trade
	Statistics Statistics

	InitialBalance float64
	FinalBalance   float64
	// FinalValue marks any open position at the last price seen.
	FinalValue     float64
	MaxDrawdownPct float64

	Bars  int
	Start string
	End   string

	// ForcedClose is set when a backtest sold its open position at the last bar.
	ForcedClose bool
}

// Run converts the result into a journal row.
func (r Result) Run(dataset string, params any, riskPct float64) journal.BacktestRun {
	cfg, _ := json.Marshal(params)

	btr := journal.BacktestRun{
		RunID:        r.RunID,
		Created:      time.Now(),
		Mode:         r.Mode,
		Dataset:      dataset,
		Symbol:       r.Symbol,
		Strategy:     r.Strategy,
		Config:       cfg,
		RiskPct:      riskPct,
		Start:        r.Start,
		End:          r.End,
		Bars:         r.Bars,
		Trades:       r.Statistics.TotalTrades,
		Wins:         r.Statistics.WinningTrades,
		Losses:       r.Statistics.LosingTrades,
		StartBalance: r.InitialBalance,
		EndBalance:   r.FinalBalance,
		FinalValue:   r.FinalValue,
		NetPL:        r.Statistics.TotalProfitLoss,
		ReturnPct:    r.Statistics.ReturnPct,
		WinRate:      r.Statistics.WinRate,
		ProfitFactor: r.Statistics.ProfitFactor,
		MaxDDPct:     r.MaxDrawdownPct,
	}
	if r.ForcedClose {
		btr.Notes = append(btr.Notes, "open position closed at the last bar")
	}
	return btr
}

// PrintSummary writes the end-of-run report. Amounts are grouped by
// thousands and prefixed with currency.
func PrintSummary(w io.Writer, r Result, currency string) {
	p := message.NewPrinter(language.English)
	rule := strings.Repeat("=", 60)
	st := r.Statistics

	if r.Mode == ModeBacktest {
		p.Fprintf(w, "\nFinal Balance: %s %.2f\n", currency, r.FinalBalance)
	}
	p.Fprintf(w, "\n%s\n", rule)
	p.Fprintf(w, "            TRADING SUMMARY\n")
	p.Fprintf(w, "%s\n", rule)
	p.Fprintf(w, "Total Trades:        %d\n", st.TotalTrades)
	p.Fprintf(w, "Winning Trades:      %d\n", st.WinningTrades)
	p.Fprintf(w, "Losing Trades:       %d\n", st.LosingTrades)
	p.Fprintf(w, "Win Rate:            %.2f%%\n", st.WinRate)
	p.Fprintf(w, "Total P/L:           %s %.2f\n", currency, st.TotalProfitLoss)
	p.Fprintf(w, "Largest Win:         %s %.2f\n", currency, st.LargestWin)
	p.Fprintf(w, "Largest Loss:        %s %.2f\n", currency, st.LargestLoss)
	p.Fprintf(w, "Profit Factor:       %.2f\n", st.ProfitFactor)
	p.Fprintf(w, "Return:              %.2f%%\n", st.ReturnPct)
	p.Fprintf(w, "Max Drawdown:        %.2f%%\n", r.MaxDrawdownPct)
	if r.Mode == ModeLive {
		p.Fprintf(w, "Portfolio Value:     %s %.2f\n", currency, r.FinalValue)
	}
	p.Fprintf(w, "%s\n", rule)
}

// PrintHeader writes the banner shown before a run starts.
func PrintHeader(w io.Writer, title string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\n    %s\n%s\n\n", rule, title, rule)
}
