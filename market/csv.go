package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// LoadCSV reads a bar file: one header line, then
//
//	date,open,high,low,close,volume
//
// per row. A malformed numeric field is logged and left at zero; rows whose
// close is not positive are dropped. An empty result is ErrNoData.
func LoadCSV(path string, log *zap.Logger) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	s, err := ReadCSV(f, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Source = path
	return s, nil
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(r io.Reader, log *zap.Logger) (*Series, error) {
	if log == nil {
		log = zap.NewNop()
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var (
		bars    []Bar
		dropped int
		header  = true
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bars: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		line, _ := cr.FieldPos(0)
		b := parseRow(rec, line, log)
		if b.Close <= 0 {
			dropped++
			continue
		}
		bars = append(bars, b)
	}

	log.Info("loaded bars", zap.Int("count", len(bars)), zap.Int("dropped", dropped))
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return NewSeries("", bars), nil
}

func parseRow(rec []string, line int, log *zap.Logger) Bar {
	var b Bar
	for field, tok := range rec {
		tok = strings.TrimSpace(tok)
		var err error
		switch field {
		case 0:
			b.Date = tok
		case 1:
			b.Open, err = strconv.ParseFloat(tok, 64)
		case 2:
			b.High, err = strconv.ParseFloat(tok, 64)
		case 3:
			b.Low, err = strconv.ParseFloat(tok, 64)
		case 4:
			b.Close, err = strconv.ParseFloat(tok, 64)
		case 5:
			b.Volume, err = strconv.ParseInt(tok, 10, 64)
		}
		if err != nil {
			log.Warn("bad bar field",
				zap.Int("line", line),
				zap.Int("field", field),
				zap.String("value", tok))
		}
	}
	return b
}
