package market

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestReadCSV(t *testing.T) {
	data := `Date,Open,High,Low,Close,Volume
2024-01-01, 100.5, 101, 99.5, 100.75, 12000

2024-01-02,100.75,102,100,101.25,13000
`
	s, err := ReadCSV(strings.NewReader(data), nil)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	assert.Equal(t, Bar{Date: "2024-01-01", Open: 100.5, High: 101, Low: 99.5, Close: 100.75, Volume: 12000}, s.At(0))
	assert.Equal(t, "2024-01-02", s.At(1).Date)
}

func TestReadCSVMalformedFields(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	data := `Date,Open,High,Low,Close,Volume
2024-01-01,abc,101,99,100,1000
2024-01-02,100,101,99,oops,1000
2024-01-03,100,101,99,-5,1000
2024-01-04,100,101,99,102,lots
`
	s, err := ReadCSV(strings.NewReader(data), log)
	require.NoError(t, err)

	// bad open is kept (close is valid), bad/negative close dropped,
	// bad volume kept at zero.
	require.Equal(t, 2, s.Len())
	assert.Equal(t, 0.0, s.At(0).Open)
	assert.Equal(t, 100.0, s.At(0).Close)
	assert.Equal(t, int64(0), s.At(1).Volume)

	assert.Equal(t, 3, logs.FilterMessage("bad bar field").Len())
}

func TestReadCSVQuotedFields(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	data := `"Date","Open","High","Low","Close","Volume"
"2024-01-02","100.5","101","99","100.75","12000"
2024-01-03,101,102,100,101.5,9000
2024-01-04,"1,000",102,100,"bad",9000
`
	s, err := ReadCSV(strings.NewReader(data), log)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	assert.Equal(t, Bar{Date: "2024-01-02", Open: 100.5, High: 101, Low: 99, Close: 100.75, Volume: 12000}, s.At(0))
	assert.Equal(t, "2024-01-03", s.At(1).Date)

	warned := logs.FilterMessage("bad bar field").All()
	require.Len(t, warned, 2)
	assert.Equal(t, int64(4), warned[0].ContextMap()["line"])
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Date,Open,High,Low,Close,Volume\n"), nil)
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = ReadCSV(strings.NewReader(""), nil)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte("h\n2024-01-01,1,1,1,1,1\n"), 0o644))

	s, err := LoadCSV(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, path, s.Source)

	_, err = LoadCSV(filepath.Join(dir, "missing.csv"), nil)
	assert.Error(t, err)
}
