package market

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when a bar source yields nothing usable.
var ErrNoData = errors.New("market: no bar data")

// Bar is one daily OHLCV record. Date is a label: a calendar date for
// historical rows or a sequence tag like "Live-3" for synthetic ones.
type Bar struct {
	Date   string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

func (b Bar) String() string {
	return fmt.Sprintf("%s O=%.2f H=%.2f L=%.2f C=%.2f V=%d",
		b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
}

// Bars is the read-only, zero-indexed view the strategy and indicators work on.
type Bars interface {
	Len() int
	At(i int) Bar
}
