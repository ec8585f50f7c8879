package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

var (
	TradeHeader  = []string{"Timestamp", "Symbol", "Signal", "Price", "Quantity", "Value", "Balance"}
	EquityHeader = []string{"Timestamp", "Price", "Balance", "Equity"}
)

// CSVJournal writes the trade log, and optionally an equity curve, as CSV.
// Every row is flushed as soon as it is written.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

// NewCSV truncates (or creates) tradesPath and writes the header. An empty
// equityPath disables the equity file. Parent directories are created.
func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	j := &CSVJournal{}

	tf, tw, err := create(tradesPath, TradeHeader)
	if err != nil {
		return nil, err
	}
	j.tf, j.trades = tf, tw

	if equityPath != "" {
		ef, ew, err := create(equityPath, EquityHeader)
		if err != nil {
			_ = tf.Close()
			return nil, err
		}
		j.ef, j.equity = ef, ew
	}
	return j, nil
}

func create(path string, header []string) (*os.File, *csv.Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create trade log: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return f, w, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.Timestamp,
		t.Symbol,
		t.Side,
		f(t.Price),
		strconv.Itoa(t.Quantity),
		f(t.Value),
		f(t.Balance),
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	if j.equity == nil {
		return nil
	}
	err := j.equity.Write([]string{
		e.Timestamp,
		f(e.Price),
		f(e.Balance),
		f(e.Equity),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	if err := j.tf.Close(); err != nil {
		return err
	}

	if j.equity == nil {
		return nil
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
