package journal

import "errors"

// TradeRecord is one executed fill as it appears in the trade log.
type TradeRecord struct {
	ID         string
	RunID      string
	Timestamp  string // bar date label, e.g. 2024-01-02 or Live-3
	Symbol     string
	Side       string // BUY or SELL
	Price      float64
	Quantity   int
	Value      float64
	Balance    float64 // cash after the fill
	RealizedPL float64 // zero for buys
}

// EquitySnapshot is the account value at a bar.
type EquitySnapshot struct {
	RunID     string
	Timestamp string
	Price     float64
	Balance   float64
	Equity    float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Discard is a Journal that drops everything.
type Discard struct{}

func (Discard) RecordTrade(TradeRecord) error     { return nil }
func (Discard) RecordEquity(EquitySnapshot) error { return nil }
func (Discard) Close() error                      { return nil }

type multi []Journal

// Multi fans every record out to each journal in order. Nil entries are
// skipped.
func Multi(js ...Journal) Journal {
	var m multi
	for _, j := range js {
		if j != nil {
			m = append(m, j)
		}
	}
	return m
}

func (m multi) RecordTrade(t TradeRecord) error {
	for _, j := range m {
		if err := j.RecordTrade(t); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) RecordEquity(e EquitySnapshot) error {
	for _, j := range m {
		if err := j.RecordEquity(e); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every journal and returns the joined errors.
func (m multi) Close() error {
	var errs []error
	for _, j := range m {
		if err := j.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
