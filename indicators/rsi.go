package indicators

import "github.com/rustyeddy/tradebot/market"

// RSI computes the Relative Strength Index from the simple average gain and
// average loss of the last period one-bar close changes ending at end.
//
// Returns NeutralRSI (50) when end < period, and 100 when the average loss is
// exactly zero.
func RSI(bars market.Bars, end, period int) float64 {
	if period <= 0 || bars == nil || bars.Len() == 0 {
		return NeutralRSI
	}
	if end < period || end >= bars.Len() {
		return NeutralRSI
	}

	gains, losses := 0.0, 0.0
	for i := end - period + 1; i <= end; i++ {
		change := bars.At(i).Close - bars.At(i-1).Close
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
