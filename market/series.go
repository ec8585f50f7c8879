package market

import "fmt"

// Series is an ordered, random-access sequence of bars.
// The engine only reads from it; Append is used by the live loop's buffer.
type Series struct {
	Symbol string
	Source string
	bars   []Bar
}

func NewSeries(symbol string, bars []Bar) *Series {
	cp := make([]Bar, len(bars))
	copy(cp, bars)
	return &Series{Symbol: symbol, bars: cp}
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bars)
}

// At returns bar i. Out-of-range access is a programming error and panics.
func (s *Series) At(i int) Bar {
	if i < 0 || i >= s.Len() {
		panic(fmt.Sprintf("market: index %d out of range [0,%d)", i, s.Len()))
	}
	return s.bars[i]
}

// Last returns the newest bar; ok is false when the series is empty.
func (s *Series) Last() (Bar, bool) {
	if s.Len() == 0 {
		return Bar{}, false
	}
	return s.bars[len(s.bars)-1], true
}

func (s *Series) Append(b Bar) {
	s.bars = append(s.bars, b)
}

// Tail returns a new series holding at most the last n bars.
func (s *Series) Tail(n int) *Series {
	start := 0
	if n >= 0 && s.Len() > n {
		start = s.Len() - n
	}
	out := NewSeries(s.Symbol, s.bars[start:])
	out.Source = s.Source
	return out
}

// Bars returns a copy of the underlying slice.
func (s *Series) Bars() []Bar {
	cp := make([]Bar, s.Len())
	copy(cp, s.bars)
	return cp
}
