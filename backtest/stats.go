package backtest

import (
	"math"

	"github.com/rustyeddy/tradebot/sim"
)

// Statistics summarizes a trade history.
type Statistics struct {
	TotalTrades     int     `json:"total_trades"`
	WinningTrades   int     `json:"winning_trades"`
	LosingTrades    int     `json:"losing_trades"`
	WinRate         float64 `json:"win_rate"` // percent of round trips
	TotalProfitLoss float64 `json:"total_profit_loss"`
	LargestWin      float64 `json:"largest_win"`
	LargestLoss     float64 `json:"largest_loss"` // <= 0

	RoundTrips   int     `json:"round_trips"`
	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"`    // >= 0
	ProfitFactor float64 `json:"profit_factor"` // 0 when there are no losses
	ReturnPct    float64 `json:"return_pct"`
}

type lot struct {
	qty  int
	cost float64
}

// ComputeStatistics scores every SELL against the average cost of the shares
// bought before it in the same symbol. A SELL with nothing open is skipped.
// A round trip with profit > 0 is a win; anything else, including break-even,
// is a loss.
//
// TotalTrades counts every fill and TotalProfitLoss is final - initial, so
// both include fills that never closed.
func ComputeStatistics(trades []sim.Trade, initial, final float64) Statistics {
	st := Statistics{
		TotalTrades:     len(trades),
		TotalProfitLoss: final - initial,
	}
	if initial > 0 {
		st.ReturnPct = (final - initial) / initial * 100
	}

	open := make(map[string]*lot)
	for _, t := range trades {
		l := open[t.Symbol]
		if l == nil {
			l = &lot{}
			open[t.Symbol] = l
		}

		switch t.Side {
		case sim.Buy:
			l.qty += t.Quantity
			l.cost += t.Value

		case sim.Sell:
			if l.qty <= 0 || t.Quantity <= 0 {
				continue
			}
			n := t.Quantity
			if n > l.qty {
				n = l.qty
			}
			basis := l.cost * float64(n) / float64(l.qty)
			proceeds := t.Value * float64(n) / float64(t.Quantity)
			profit := proceeds - basis

			l.qty -= n
			l.cost -= basis
			if l.qty == 0 {
				l.cost = 0
			}

			st.RoundTrips++
			if profit > 0 {
				st.WinningTrades++
				st.GrossProfit += profit
				st.LargestWin = math.Max(st.LargestWin, profit)
			} else {
				st.LosingTrades++
				st.GrossLoss -= profit
				st.LargestLoss = math.Min(st.LargestLoss, profit)
			}
		}
	}

	if st.RoundTrips > 0 {
		st.WinRate = float64(st.WinningTrades) / float64(st.RoundTrips) * 100
	}
	if st.GrossLoss > 0 {
		st.ProfitFactor = st.GrossProfit / st.GrossLoss
	}
	return st
}
