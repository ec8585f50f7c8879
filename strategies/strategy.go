package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradebot/market"
)

// Signal is the strategy's decision for one bar.
type Signal int

const (
	Hold Signal = iota
	Buy
	Sell
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// ParseSignal is the inverse of String.
func ParseSignal(s string) (Signal, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	case "HOLD":
		return Hold, nil
	default:
		return Hold, fmt.Errorf("unknown signal %q", s)
	}
}

// SignalGenerator decides what to do at bar index given the history up to it.
type SignalGenerator interface {
	Name() string
	// Warmup is the first index at which a non-HOLD signal is possible.
	Warmup() int
	GenerateSignal(bars market.Bars, index int) Signal
}
