package strategies

import (
	"fmt"

	"github.com/rustyeddy/tradebot/indicators"
	"github.com/rustyeddy/tradebot/market"
	"go.uber.org/zap"
)

// MACrossConfig holds the crossover and RSI filter parameters.
type MACrossConfig struct {
	ShortPeriod int     `json:"short-period" yaml:"short_period"`
	LongPeriod  int     `json:"long-period" yaml:"long_period"`
	RSIPeriod   int     `json:"rsi-period" yaml:"rsi_period"`
	Overbought  float64 `json:"overbought" yaml:"overbought"`
	Oversold    float64 `json:"oversold" yaml:"oversold"`
}

func MACrossConfigDefaults() MACrossConfig {
	return MACrossConfig{
		ShortPeriod: 10,
		LongPeriod:  50,
		RSIPeriod:   indicators.DefaultRSIPeriod,
		Overbought:  70,
		Oversold:    30,
	}
}

// Reading is the set of indicator values behind the most recent signal.
type Reading struct {
	Index     int
	ShortMA   float64
	LongMA    float64
	PrevShort float64
	PrevLong  float64
	RSI       float64
	Signal    Signal
}

// MACross emits BUY on a golden cross of the short SMA over the long SMA
// while RSI is not overbought, and SELL on a death cross while RSI is not
// oversold. Crosses are edge-triggered: an equal pair of averages on the
// previous bar counts as "not yet crossed".
type MACross struct {
	MACrossConfig

	log  *zap.Logger
	last Reading
}

func NewMACross(cfg MACrossConfig, log *zap.Logger) *MACross {
	def := MACrossConfigDefaults()
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	if cfg.Overbought == 0 {
		cfg.Overbought = def.Overbought
	}
	if cfg.Oversold == 0 {
		cfg.Oversold = def.Oversold
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MACross{MACrossConfig: cfg, log: log}
}

func (s *MACross) Name() string {
	return fmt.Sprintf("ma-cross(%d/%d)", s.ShortPeriod, s.LongPeriod)
}

func (s *MACross) Warmup() int {
	return s.LongPeriod
}

// Last returns the indicator values computed by the latest GenerateSignal call
// that had enough history.
func (s *MACross) Last() Reading {
	return s.last
}

func (s *MACross) GenerateSignal(bars market.Bars, index int) Signal {
	if index < s.LongPeriod || index < 1 || index >= bars.Len() {
		return Hold
	}

	r := Reading{
		Index:     index,
		ShortMA:   indicators.SMA(bars, index, s.ShortPeriod),
		LongMA:    indicators.SMA(bars, index, s.LongPeriod),
		PrevShort: indicators.SMA(bars, index-1, s.ShortPeriod),
		PrevLong:  indicators.SMA(bars, index-1, s.LongPeriod),
		RSI:       indicators.RSI(bars, index, s.RSIPeriod),
	}

	// Golden cross: relationship flips from <= to >.
	// Death cross: relationship flips from >= to <.
	bullCross := r.PrevShort <= r.PrevLong && r.ShortMA > r.LongMA
	bearCross := r.PrevShort >= r.PrevLong && r.ShortMA < r.LongMA

	switch {
	case bullCross && r.RSI < s.Overbought:
		r.Signal = Buy
	case bearCross && r.RSI > s.Oversold:
		r.Signal = Sell
	default:
		r.Signal = Hold
	}
	s.last = r

	if r.Signal != Hold {
		s.log.Debug("signal detected",
			zap.Stringer("signal", r.Signal),
			zap.String("date", bars.At(index).Date),
			zap.Float64("short_ma", r.ShortMA),
			zap.Float64("long_ma", r.LongMA),
			zap.Float64("rsi", r.RSI))
	}
	return r.Signal
}
