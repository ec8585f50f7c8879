package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ModeBacktest, cfg.Mode)
	assert.Equal(t, 100000.0, cfg.Account.Balance)
	assert.Equal(t, 2.0, cfg.Risk.RiskPct)
	assert.Equal(t, 80.0, cfg.Risk.MaxExposurePct)
	assert.Equal(t, "data/nifty50_data.csv", cfg.Data.Path)
	assert.Equal(t, "NIFTY50", cfg.Data.Symbol)
	assert.Equal(t, 10, cfg.Strategy.ShortPeriod)
	assert.Equal(t, 50, cfg.Strategy.LongPeriod)
	assert.Equal(t, 100, cfg.Live.Iterations)
	assert.Equal(t, 200, cfg.Live.HistorySize)

	d, err := cfg.Live.DelayDuration()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero balance", func(c *Config) { c.Account.Balance = 0 }, "account.balance"},
		{"no currency", func(c *Config) { c.Account.Currency = "" }, "account.currency is required"},
		{"no data path", func(c *Config) { c.Data.Path = "" }, "data.path is required"},
		{"short not below long", func(c *Config) { c.Strategy.ShortPeriod = 50 }, "strategy.short_period must be less than"},
		{"zero long", func(c *Config) { c.Strategy.ShortPeriod, c.Strategy.LongPeriod = 0, 0 }, "strategy.long_period"},
		{"oversold above overbought", func(c *Config) { c.Strategy.Oversold = 80 }, "strategy.oversold"},
		{"risk over 100", func(c *Config) { c.Risk.RiskPct = 150 }, "risk.risk_percentage"},
		{"bad mode", func(c *Config) { c.Mode = "paper" }, "mode must be one of"},
		{"negative iterations", func(c *Config) { c.Live.Iterations = -1 }, "live.iterations"},
		{"bad delay", func(c *Config) { c.Live.Delay = "soon" }, "live.delay"},
		{"negative delay", func(c *Config) { c.Live.Delay = "-1s" }, "live.delay"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseKeyValue(t *testing.T) {
	body := `# sample
initial_balance = 250000
risk_percentage=1.5
data_file_path= data/custom.csv
symbol =BANKNIFTY

short_ma_period=5
long_ma_period=20
mode=live
live_iterations=10
live_history_size=60
unknown_key=whatever
no equals sign here
trade_log_path=out/t.csv
live_delay=0
seed=42
db_path=out/journal.db
`
	cfg := Default()
	require.NoError(t, ParseKeyValue(strings.NewReader(body), cfg))

	assert.Equal(t, 250000.0, cfg.Account.Balance)
	assert.Equal(t, 1.5, cfg.Risk.RiskPct)
	assert.Equal(t, "data/custom.csv", cfg.Data.Path)
	assert.Equal(t, "BANKNIFTY", cfg.Data.Symbol)
	assert.Equal(t, 5, cfg.Strategy.ShortPeriod)
	assert.Equal(t, 20, cfg.Strategy.LongPeriod)
	assert.Equal(t, ModeLive, cfg.Mode)
	assert.Equal(t, 10, cfg.Live.Iterations)
	assert.Equal(t, 60, cfg.Live.HistorySize)
	assert.Equal(t, "out/t.csv", cfg.Journal.TradesFile)
	assert.Equal(t, "0", cfg.Live.Delay)
	assert.Equal(t, int64(42), cfg.Live.Seed)
	assert.Equal(t, "out/journal.db", cfg.Journal.DBPath)
	assert.NoError(t, cfg.Validate())
}

func TestParseKeyValueModes(t *testing.T) {
	for value, want := range map[string]string{
		"live":     ModeLive,
		"backtest": ModeBacktest,
		"LIVE":     ModeBacktest,
		"anything": ModeBacktest,
	} {
		cfg := Default()
		cfg.Mode = ModeLive
		require.NoError(t, ParseKeyValue(strings.NewReader("mode="+value), cfg))
		assert.Equal(t, want, cfg.Mode, value)
	}
}

func TestParseKeyValueLiveKeysFallBack(t *testing.T) {
	cfg := Default()
	err := ParseKeyValue(strings.NewReader("live_iterations=lots\nlive_history_size=\n"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Live.Iterations)
	assert.Equal(t, 200, cfg.Live.HistorySize)
}

func TestParseKeyValueBadNumber(t *testing.T) {
	for _, line := range []string{
		"initial_balance=lots",
		"risk_percentage=two",
		"short_ma_period=1.5",
		"long_ma_period=",
	} {
		err := ParseKeyValue(strings.NewReader("# header\n"+line), Default())
		require.Error(t, err, line)
		assert.Contains(t, err.Error(), "line 2")
	}
}

func TestLoadKeyValueValidates(t *testing.T) {
	path := writeFile(t, "config.txt", "short_ma_period=60\n")
	_, err := LoadKeyValue(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		cfg, err := Load(filepath.Join(t.TempDir(), "config.txt"), zap.New(core))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, 1, logs.FilterMessage("config file not found, using defaults").Len())
	})

	t.Run("key value", func(t *testing.T) {
		cfg, err := Load(writeFile(t, "config.txt", "symbol=TCS\n"), nil)
		require.NoError(t, err)
		assert.Equal(t, "TCS", cfg.Data.Symbol)
		assert.Equal(t, 50, cfg.Strategy.LongPeriod)
	})

	t.Run("yaml", func(t *testing.T) {
		body := "mode: live\nstrategy:\n  short_period: 3\n  long_period: 7\nlive:\n  delay: 1s\n"
		cfg, err := Load(writeFile(t, "config.yaml", body), nil)
		require.NoError(t, err)
		assert.Equal(t, ModeLive, cfg.Mode)
		assert.Equal(t, 3, cfg.Strategy.ShortPeriod)
		assert.Equal(t, 7, cfg.Strategy.LongPeriod)
		// unset fields keep their defaults
		assert.Equal(t, 14, cfg.Strategy.RSIPeriod)
		assert.Equal(t, 100000.0, cfg.Account.Balance)
	})

	t.Run("json", func(t *testing.T) {
		cfg, err := Load(writeFile(t, "config.json", `{"account":{"currency":"USD","balance":5000}}`), nil)
		require.NoError(t, err)
		assert.Equal(t, "USD", cfg.Account.Currency)
		assert.Equal(t, 5000.0, cfg.Account.Balance)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "config.yml", "strategy: [unclosed"), nil)
		assert.Error(t, err)
	})
}

func TestSaveToFileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Mode = ModeLive
	cfg.Data.Symbol = "INFY"
	cfg.Strategy.ShortPeriod = 7
	cfg.Live.Seed = 99
	cfg.Journal.DBPath = "j.db"

	for _, name := range []string{"out.yaml", "out.json", "config.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, cfg.SaveToFile(path), name)

		got, err := Load(path, nil)
		require.NoError(t, err, name)
		assert.Equal(t, cfg, got, name)
	}
}

func TestAccessors(t *testing.T) {
	cfg := Default()

	ma := cfg.MACross()
	assert.Equal(t, 10, ma.ShortPeriod)
	assert.Equal(t, 70.0, ma.Overbought)

	p := cfg.Policy()
	assert.Equal(t, 2.0, p.RiskPct)
	assert.Equal(t, 80.0, p.MaxExposurePct)

	assert.Equal(t, "logs/trades.csv", cfg.TradeLogPath())
	cfg.Mode = ModeLive
	assert.Equal(t, "logs/live_trades.csv", cfg.TradeLogPath())
}
