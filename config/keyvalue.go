package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadKeyValue reads the flat key=value format over the defaults and
// validates the result.
func LoadKeyValue(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	defer f.Close()

	cfg := Default()
	if err := ParseKeyValue(f, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ParseKeyValue applies key=value lines from r to cfg. Blank lines and lines
// starting with # are skipped, keys and values are trimmed and unknown keys
// are ignored. A bad number for a live_* key keeps the current value; a bad
// number for any other key is an error.
func ParseKeyValue(r io.Reader, cfg *Config) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if err := apply(cfg, key, value); err != nil {
			return fmt.Errorf("line %d: %s: %w", lineNo, key, err)
		}
	}
	return sc.Err()
}

func apply(cfg *Config, key, value string) error {
	var err error
	switch key {
	case "initial_balance":
		cfg.Account.Balance, err = strconv.ParseFloat(value, 64)
	case "currency":
		cfg.Account.Currency = value
	case "risk_percentage":
		cfg.Risk.RiskPct, err = strconv.ParseFloat(value, 64)
	case "max_exposure_percentage":
		cfg.Risk.MaxExposurePct, err = strconv.ParseFloat(value, 64)
	case "data_file_path":
		cfg.Data.Path = value
	case "symbol":
		cfg.Data.Symbol = value
	case "short_ma_period":
		cfg.Strategy.ShortPeriod, err = strconv.Atoi(value)
	case "long_ma_period":
		cfg.Strategy.LongPeriod, err = strconv.Atoi(value)
	case "rsi_period":
		cfg.Strategy.RSIPeriod, err = strconv.Atoi(value)
	case "rsi_overbought":
		cfg.Strategy.Overbought, err = strconv.ParseFloat(value, 64)
	case "rsi_oversold":
		cfg.Strategy.Oversold, err = strconv.ParseFloat(value, 64)
	case "mode":
		if value == ModeLive {
			cfg.Mode = ModeLive
		} else {
			cfg.Mode = ModeBacktest
		}
	case "live_iterations":
		if n, perr := strconv.Atoi(value); perr == nil {
			cfg.Live.Iterations = n
		}
	case "live_history_size":
		if n, perr := strconv.Atoi(value); perr == nil {
			cfg.Live.HistorySize = n
		}
	case "live_delay":
		cfg.Live.Delay = value
	case "seed":
		cfg.Live.Seed, err = strconv.ParseInt(value, 10, 64)
	case "trade_log_path":
		cfg.Journal.TradesFile = value
	case "live_trade_log_path":
		cfg.Journal.LiveTradesFile = value
	case "equity_log_path":
		cfg.Journal.EquityFile = value
	case "db_path":
		cfg.Journal.DBPath = value
	case "log_level":
		cfg.Log.Level = value
	}
	return err
}

// WriteKeyValue writes cfg in the key=value format ParseKeyValue reads.
func (c *Config) WriteKeyValue(w io.Writer) error {
	ff := func(x float64) string { return strconv.FormatFloat(x, 'f', -1, 64) }

	lines := [][2]string{
		{"mode", c.Mode},
		{"initial_balance", ff(c.Account.Balance)},
		{"currency", c.Account.Currency},
		{"risk_percentage", ff(c.Risk.RiskPct)},
		{"max_exposure_percentage", ff(c.Risk.MaxExposurePct)},
		{"data_file_path", c.Data.Path},
		{"symbol", c.Data.Symbol},
		{"short_ma_period", strconv.Itoa(c.Strategy.ShortPeriod)},
		{"long_ma_period", strconv.Itoa(c.Strategy.LongPeriod)},
		{"rsi_period", strconv.Itoa(c.Strategy.RSIPeriod)},
		{"rsi_overbought", ff(c.Strategy.Overbought)},
		{"rsi_oversold", ff(c.Strategy.Oversold)},
		{"live_iterations", strconv.Itoa(c.Live.Iterations)},
		{"live_history_size", strconv.Itoa(c.Live.HistorySize)},
		{"live_delay", c.Live.Delay},
		{"seed", strconv.FormatInt(c.Live.Seed, 10)},
		{"trade_log_path", c.Journal.TradesFile},
		{"live_trade_log_path", c.Journal.LiveTradesFile},
		{"equity_log_path", c.Journal.EquityFile},
		{"db_path", c.Journal.DBPath},
		{"log_level", c.Log.Level},
	}

	if _, err := fmt.Fprintln(w, "# tradebot configuration"); err != nil {
		return err
	}
	for _, kv := range lines {
		if _, err := fmt.Fprintf(w, "%s=%s\n", kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}
