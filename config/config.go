package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rustyeddy/tradebot/risk"
	"github.com/rustyeddy/tradebot/strategies"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	ModeBacktest = "backtest"
	ModeLive     = "live"
)

// Config is the complete run configuration.
type Config struct {
	Mode     string         `json:"mode" yaml:"mode" validate:"oneof=backtest live"`
	Account  AccountConfig  `json:"account" yaml:"account"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Risk     RiskConfig     `json:"risk" yaml:"risk"`
	Live     LiveConfig     `json:"live" yaml:"live"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

type AccountConfig struct {
	Currency string  `json:"currency" yaml:"currency" validate:"required"`
	Balance  float64 `json:"balance" yaml:"balance" validate:"gt=0"`
}

type DataConfig struct {
	Path   string `json:"path" yaml:"path" validate:"required"`
	Symbol string `json:"symbol" yaml:"symbol" validate:"required"`
}

// StrategyConfig holds the MA crossover and RSI filter parameters.
type StrategyConfig struct {
	ShortPeriod int     `json:"short_period" yaml:"short_period" validate:"gt=0,ltfield=LongPeriod"`
	LongPeriod  int     `json:"long_period" yaml:"long_period" validate:"gt=0"`
	RSIPeriod   int     `json:"rsi_period" yaml:"rsi_period" validate:"gt=0"`
	Overbought  float64 `json:"overbought" yaml:"overbought" validate:"gt=0,lte=100"`
	Oversold    float64 `json:"oversold" yaml:"oversold" validate:"gte=0,ltfield=Overbought"`
}

type RiskConfig struct {
	RiskPct        float64 `json:"risk_percentage" yaml:"risk_percentage" validate:"gt=0,lte=100"`
	MaxExposurePct float64 `json:"max_exposure_percentage" yaml:"max_exposure_percentage" validate:"gt=0,lte=100"`
}

type LiveConfig struct {
	Iterations  int    `json:"iterations" yaml:"iterations" validate:"gte=0"`
	HistorySize int    `json:"history_size" yaml:"history_size" validate:"gte=0"`
	Delay       string `json:"delay" yaml:"delay"` // e.g. "500ms", "1s", "0"
	Seed        int64  `json:"seed" yaml:"seed"`   // 0 picks a time-based seed
}

// DelayDuration parses Delay. Empty means no delay.
func (l LiveConfig) DelayDuration() (time.Duration, error) {
	if strings.TrimSpace(l.Delay) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(l.Delay))
	if err != nil {
		return 0, fmt.Errorf("live.delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("live.delay %s must not be negative", d)
	}
	return d, nil
}

type JournalConfig struct {
	TradesFile     string `json:"trades_file" yaml:"trades_file"`
	LiveTradesFile string `json:"live_trades_file" yaml:"live_trades_file"`
	EquityFile     string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath         string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type LogConfig struct {
	Level    string `json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Encoding string `json:"encoding" yaml:"encoding" validate:"omitempty,oneof=console json"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	def := strategies.MACrossConfigDefaults()
	return &Config{
		Mode: ModeBacktest,
		Account: AccountConfig{
			Currency: "INR",
			Balance:  100000,
		},
		Data: DataConfig{
			Path:   "data/nifty50_data.csv",
			Symbol: "NIFTY50",
		},
		Strategy: StrategyConfig{
			ShortPeriod: def.ShortPeriod,
			LongPeriod:  def.LongPeriod,
			RSIPeriod:   def.RSIPeriod,
			Overbought:  def.Overbought,
			Oversold:    def.Oversold,
		},
		Risk: RiskConfig{
			RiskPct:        risk.DefaultRiskPct,
			MaxExposurePct: risk.DefaultMaxExposurePct,
		},
		Live: LiveConfig{
			Iterations:  100,
			HistorySize: 200,
			Delay:       "500ms",
		},
		Journal: JournalConfig{
			TradesFile:     "logs/trades.csv",
			LiveTradesFile: "logs/live_trades.csv",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// MACross returns the strategy parameters.
func (c *Config) MACross() strategies.MACrossConfig {
	return strategies.MACrossConfig{
		ShortPeriod: c.Strategy.ShortPeriod,
		LongPeriod:  c.Strategy.LongPeriod,
		RSIPeriod:   c.Strategy.RSIPeriod,
		Overbought:  c.Strategy.Overbought,
		Oversold:    c.Strategy.Oversold,
	}
}

func (c *Config) Policy() risk.Policy {
	return risk.Policy{RiskPct: c.Risk.RiskPct, MaxExposurePct: c.Risk.MaxExposurePct}
}

// TradeLogPath is the trade log for the current mode.
func (c *Config) TradeLogPath() string {
	if c.Mode == ModeLive {
		return c.Journal.LiveTradesFile
	}
	return c.Journal.TradesFile
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report yaml field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field ranges and the cross-field rules
// short_period < long_period and oversold < overbought.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	if _, err := c.Live.DelayDuration(); err != nil {
		return err
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "ltfield":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s must satisfy %s=%s, got %v", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isJSON(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

// LoadFromFile loads a YAML or JSON configuration over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load reads path as YAML/JSON (by extension) or as the key=value format.
// A missing file is not an error: the defaults are returned and a warning
// is logged.
func Load(path string, log *zap.Logger) (*Config, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Warn("config file not found, using defaults", zap.String("path", path))
		return Default(), nil
	}

	if isYAML(path) || isJSON(path) {
		return LoadFromFile(path)
	}
	return LoadKeyValue(path)
}

// SaveToFile writes YAML for .yaml/.yml, JSON for .json and key=value
// otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)

	switch {
	case isYAML(path):
		data, err = yaml.Marshal(c)
	case isJSON(path):
		data, err = json.MarshalIndent(c, "", "  ")
	default:
		var sb strings.Builder
		err = c.WriteKeyValue(&sb)
		data = []byte(sb.String())
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
