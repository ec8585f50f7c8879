package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradebot/internal/id"
	"github.com/rustyeddy/tradebot/journal"
	"github.com/rustyeddy/tradebot/market"
	"github.com/rustyeddy/tradebot/risk"
	"github.com/rustyeddy/tradebot/sim"
	"github.com/rustyeddy/tradebot/strategies"
	"go.uber.org/zap"
)

// BarGenerator synthesizes the bar that follows prev.
type BarGenerator interface {
	Next(prev market.Bar, label string) market.Bar
}

// Progress is reported periodically during a backtest and on every live
// iteration.
type Progress struct {
	Index          int
	Total          int
	Percent        int
	Date           string
	Price          float64
	Signal         strategies.Signal
	PortfolioValue float64
}

type LiveOptions struct {
	Iterations  int
	HistorySize int // <= 0 seeds the buffer with the whole series
	Delay       time.Duration
}

// Runner drives a strategy over a bar series against a fresh ledger.
type Runner struct {
	Symbol         string
	InitialBalance float64
	Strategy       strategies.SignalGenerator
	Policy         risk.Policy

	// Journal receives every fill and equity snapshot. Nil discards.
	Journal    journal.Journal
	Log        *zap.Logger
	OnProgress func(Progress)
}

func (r *Runner) validate() error {
	if r.Strategy == nil {
		return errors.New("backtest: Strategy is required")
	}
	if r.InitialBalance <= 0 {
		return fmt.Errorf("backtest: initial balance %.2f must be positive", r.InitialBalance)
	}
	return nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Runner) newLedger(runID string) *sim.Ledger {
	return sim.NewLedger(r.InitialBalance, sim.LedgerOptions{
		RunID:   runID,
		Journal: r.Journal,
		Log:     r.logger(),
	})
}

func (r *Runner) progress(p Progress) {
	if r.OnProgress != nil {
		r.OnProgress(p)
	}
}

// act applies one signal to the ledger at bar b. Rejected orders are logged
// and skipped; only journal failures are returned.
func (r *Runner) act(l *sim.Ledger, sig strategies.Signal, b market.Bar) error {
	log := r.logger()

	switch sig {
	case strategies.Buy:
		if l.HasPosition(r.Symbol) {
			return nil
		}
		sz := r.Policy.Calculate(risk.Inputs{Price: b.Close, Cash: l.Balance()})
		log.Debug("position size",
			zap.String("date", b.Date),
			zap.Float64("risk_amount", sz.RiskAmount),
			zap.Int("raw_quantity", sz.RawQuantity),
			zap.Int("cap_quantity", sz.CapQuantity),
			zap.Int("quantity", sz.Quantity))
		if sz.Quantity <= 0 {
			return nil
		}
		_, err := l.ExecuteBuy(r.Symbol, sz.Quantity, b.Close, b.Date)
		return r.orderErr(err)

	case strategies.Sell:
		if !l.HasPosition(r.Symbol) {
			return nil
		}
		pos := l.Position(r.Symbol)
		_, err := l.ExecuteSell(r.Symbol, pos.Quantity, b.Close, b.Date)
		return r.orderErr(err)
	}
	return nil
}

func (r *Runner) orderErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sim.ErrInsufficientFunds),
		errors.Is(err, sim.ErrNoPosition),
		errors.Is(err, sim.ErrInvalidOrder):
		r.logger().Warn("order rejected", zap.Error(err))
		return nil
	default:
		return err
	}
}

type drawdown struct {
	peak float64
	max  float64
}

func (d *drawdown) mark(v float64) {
	if v > d.peak {
		d.peak = v
	}
	if d.peak > 0 {
		if dd := (d.peak - v) / d.peak * 100; dd > d.max {
			d.max = dd
		}
	}
}

func (r *Runner) result(mode string, l *sim.Ledger, last market.Bar, dd drawdown) Result {
	trades := l.Trades()
	final := l.Balance()
	return Result{
		RunID:          l.RunID(),
		Mode:           mode,
		Symbol:         r.Symbol,
		Strategy:       r.Strategy.Name(),
		Trades:         trades,
		Statistics:     ComputeStatistics(trades, r.InitialBalance, final),
		InitialBalance: r.InitialBalance,
		FinalBalance:   final,
		FinalValue:     l.PortfolioValue(r.Symbol, last.Close),
		MaxDrawdownPct: dd.max,
		End:            last.Date,
	}
}

// RunBacktest walks the series from the strategy's warmup index to the end.
// Progress is reported every max(1, n/10) bars. A position still open after
// the last bar is sold at that bar's close.
func (r *Runner) RunBacktest(ctx context.Context, series *market.Series) (Result, error) {
	if err := r.validate(); err != nil {
		return Result{}, err
	}
	n := series.Len()
	if n == 0 {
		return Result{}, market.ErrNoData
	}

	log := r.logger()
	runID := id.New()
	l := r.newLedger(runID)
	dd := drawdown{peak: r.InitialBalance}

	step := n / 10
	if step < 1 {
		step = 1
	}

	start := r.Strategy.Warmup()
	log.Info("backtest started",
		zap.String("run_id", runID),
		zap.String("strategy", r.Strategy.Name()),
		zap.Int("bars", n),
		zap.Int("first_index", start))

	simulated := 0
	for i := start; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return r.result(ModeBacktest, l, series.At(max(i-1, 0)), dd), fmt.Errorf("backtest interrupted: %w", err)
		}

		b := series.At(i)
		sig := r.Strategy.GenerateSignal(series, i)
		if err := r.act(l, sig, b); err != nil {
			return Result{}, err
		}
		simulated++

		value := l.PortfolioValue(r.Symbol, b.Close)
		dd.mark(value)

		if i%step == 0 {
			r.progress(Progress{
				Index:          i,
				Total:          n,
				Percent:        i * 100 / n,
				Date:           b.Date,
				Price:          b.Close,
				Signal:         sig,
				PortfolioValue: value,
			})
			log.Info("progress",
				zap.Int("percent", i*100/n),
				zap.String("date", b.Date),
				zap.Float64("price", b.Close),
				zap.Float64("portfolio_value", value))
			if err := l.RecordEquity(r.Symbol, b.Close, b.Date); err != nil {
				return Result{}, err
			}
		}
	}

	last := series.At(n - 1)
	forced := false
	if l.HasPosition(r.Symbol) {
		pos := l.Position(r.Symbol)
		if _, err := l.ExecuteSell(r.Symbol, pos.Quantity, last.Close, last.Date); err != nil {
			return Result{}, err
		}
		forced = true
		log.Info("closed open position at end of data", zap.String("date", last.Date))
	}
	if err := l.RecordEquity(r.Symbol, last.Close, last.Date); err != nil {
		return Result{}, err
	}

	res := r.result(ModeBacktest, l, last, dd)
	res.Bars = simulated
	res.ForcedClose = forced
	if start < n {
		res.Start = series.At(start).Date
	}

	log.Info("backtest finished",
		zap.String("run_id", runID),
		zap.Int("trades", len(res.Trades)),
		zap.Float64("final_balance", res.FinalBalance))
	return res, nil
}

// RunLive seeds a buffer with the tail of series and then appends one
// synthetic bar per iteration, trading on the newest bar. Open positions are
// left open. Cancelling ctx stops the loop and returns the partial result
// with the context error.
func (r *Runner) RunLive(ctx context.Context, series *market.Series, gen BarGenerator, opts LiveOptions) (Result, error) {
	if err := r.validate(); err != nil {
		return Result{}, err
	}
	if gen == nil {
		return Result{}, errors.New("backtest: live generator is required")
	}
	if series.Len() == 0 {
		return Result{}, market.ErrNoData
	}

	log := r.logger()
	runID := id.New()
	l := r.newLedger(runID)
	dd := drawdown{peak: r.InitialBalance}

	buf := series.Tail(opts.HistorySize)
	if opts.HistorySize <= 0 {
		buf = series.Tail(-1)
	}
	last, _ := buf.Last()

	log.Info("live simulation started",
		zap.String("run_id", runID),
		zap.Int("history", buf.Len()),
		zap.Int("iterations", opts.Iterations))

	first := ""
	done := 0
	for it := 0; it < opts.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return r.liveResult(l, last, dd, first, done), fmt.Errorf("live simulation interrupted: %w", err)
		}

		b := gen.Next(last, fmt.Sprintf("Live-%d", it))
		buf.Append(b)
		last = b
		if first == "" {
			first = b.Date
		}

		sig := r.Strategy.GenerateSignal(buf, buf.Len()-1)
		if err := r.act(l, sig, b); err != nil {
			return Result{}, err
		}
		done++

		value := l.PortfolioValue(r.Symbol, b.Close)
		dd.mark(value)
		r.progress(Progress{
			Index:          it,
			Total:          opts.Iterations,
			Percent:        (it + 1) * 100 / opts.Iterations,
			Date:           b.Date,
			Price:          b.Close,
			Signal:         sig,
			PortfolioValue: value,
		})
		log.Info("live tick",
			zap.Int("iteration", it),
			zap.Float64("price", b.Close),
			zap.Stringer("signal", sig),
			zap.Float64("portfolio_value", value))
		if err := l.RecordEquity(r.Symbol, b.Close, b.Date); err != nil {
			return Result{}, err
		}

		if opts.Delay > 0 && it < opts.Iterations-1 {
			if err := sleep(ctx, opts.Delay); err != nil {
				return r.liveResult(l, last, dd, first, done), fmt.Errorf("live simulation interrupted: %w", err)
			}
		}
	}

	res := r.liveResult(l, last, dd, first, done)
	log.Info("live simulation finished",
		zap.String("run_id", runID),
		zap.Int("trades", len(res.Trades)),
		zap.Float64("portfolio_value", res.FinalValue))
	return res, nil
}

func (r *Runner) liveResult(l *sim.Ledger, last market.Bar, dd drawdown, first string, bars int) Result {
	res := r.result(ModeLive, l, last, dd)
	res.Start = first
	res.Bars = bars
	return res
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
