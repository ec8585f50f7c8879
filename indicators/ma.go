package indicators

import "github.com/rustyeddy/tradebot/market"

// SMA is the arithmetic mean of Close over the inclusive window
// [end-period+1, end].
//
// It returns 0 when the window would start before index 0, the series is
// empty, or period is not positive. Callers must treat 0 as "undefined".
func SMA(bars market.Bars, end, period int) float64 {
	if period <= 0 || bars == nil || bars.Len() == 0 {
		return 0
	}
	if end+1 < period || end >= bars.Len() {
		return 0
	}

	sum := 0.0
	for i := end - period + 1; i <= end; i++ {
		sum += bars.At(i).Close
	}
	return sum / float64(period)
}
