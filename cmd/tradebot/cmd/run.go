package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rustyeddy/tradebot/backtest"
	"github.com/rustyeddy/tradebot/config"
	"github.com/rustyeddy/tradebot/journal"
	"github.com/rustyeddy/tradebot/market"
	"github.com/rustyeddy/tradebot/strategies"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// sinks are the journals a run writes to. db is nil unless a database path
// is configured.
type sinks struct {
	all journal.Journal
	db  *journal.SQLiteJournal
}

// openSinks opens the trade log for the run's mode and the optional SQLite
// journal. A trade log that cannot be created is reported and skipped.
func openSinks(cfg *config.Config, log *zap.Logger) (*sinks, error) {
	var js []journal.Journal

	path := cfg.TradeLogPath()
	csvj, err := journal.NewCSV(path, cfg.Journal.EquityFile)
	if err != nil {
		log.Warn("could not create trade log", zap.String("path", path), zap.Error(err))
	} else {
		log.Info("trade log created", zap.String("path", path))
		js = append(js, csvj)
	}

	s := &sinks{}
	if cfg.Journal.DBPath != "" {
		db, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			_ = journal.Multi(js...).Close()
			return nil, fmt.Errorf("open db: %w", err)
		}
		s.db = db
		js = append(js, db)
	}
	s.all = journal.Multi(js...)
	return s, nil
}

func (s *sinks) finish(ctx context.Context, cfg *config.Config, res backtest.Result, orgPath string, log *zap.Logger) error {
	btr := res.Run(cfg.Data.Path, cfg.MACross(), cfg.Risk.RiskPct)
	if s.db != nil {
		if err := s.db.RecordRun(ctx, btr); err != nil {
			return err
		}
		log.Info("run recorded", zap.String("run_id", res.RunID), zap.String("db", cfg.Journal.DBPath))
	}
	if orgPath != "" {
		btr.OrgPath = orgPath
		if err := btr.WriteOrgFile(); err != nil {
			return err
		}
		log.Info("org report written", zap.String("path", orgPath))
	}
	return nil
}

func newRunner(cfg *config.Config, j journal.Journal, log *zap.Logger) *backtest.Runner {
	return &backtest.Runner{
		Symbol:         cfg.Data.Symbol,
		InitialBalance: cfg.Account.Balance,
		Strategy:       strategies.NewMACross(cfg.MACross(), log),
		Policy:         cfg.Policy(),
		Journal:        j,
		Log:            log,
	}
}

func loadSeries(cfg *config.Config, log *zap.Logger) (*market.Series, error) {
	series, err := market.LoadCSV(cfg.Data.Path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load market data: %w", err)
	}
	series.Symbol = cfg.Data.Symbol
	return series, nil
}

func runBacktestSim(ctx context.Context, out io.Writer, cfg *config.Config, log *zap.Logger, orgPath string) error {
	backtest.PrintHeader(out, fmt.Sprintf("%s TRADING BOT - BACKTEST", cfg.Data.Symbol))

	series, err := loadSeries(cfg, log)
	if err != nil {
		return err
	}

	s, err := openSinks(cfg, log)
	if err != nil {
		return err
	}
	defer s.all.Close()

	fmt.Fprintf(out, "Initial Balance: %s %.2f\n", cfg.Account.Currency, cfg.Account.Balance)
	fmt.Fprintf(out, "Strategy: MA Crossover (%d/%d)\n", cfg.Strategy.ShortPeriod, cfg.Strategy.LongPeriod)
	fmt.Fprintf(out, "Risk per Trade: %g%%\n\n", cfg.Risk.RiskPct)

	bar := progressbar.NewOptions(series.Len(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("backtest"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
	)

	r := newRunner(cfg, s.all, log)
	r.OnProgress = func(p backtest.Progress) {
		bar.Describe(fmt.Sprintf("%s %s %.2f", p.Date, cfg.Account.Currency, p.PortfolioValue))
		_ = bar.Set(p.Index + 1)
	}

	res, err := r.RunBacktest(ctx, series)
	_ = bar.Finish()
	if err != nil {
		return err
	}

	backtest.PrintSummary(out, res, cfg.Account.Currency)
	return s.finish(ctx, cfg, res, orgPath, log)
}

func runLiveSim(ctx context.Context, out io.Writer, cfg *config.Config, log *zap.Logger) error {
	backtest.PrintHeader(out, fmt.Sprintf("%s TRADING BOT - LIVE SIMULATION MODE", cfg.Data.Symbol))

	series, err := loadSeries(cfg, log)
	if err != nil {
		return err
	}

	delay, err := cfg.Live.DelayDuration()
	if err != nil {
		return err
	}

	s, err := openSinks(cfg, log)
	if err != nil {
		return err
	}
	defer s.all.Close()

	seed := cfg.Live.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info("live generator seeded", zap.Int64("seed", seed))

	fmt.Fprintln(out, "Starting live simulation...")
	fmt.Fprint(out, "Press Ctrl+C to stop.\n\n")

	r := newRunner(cfg, s.all, log)
	r.OnProgress = func(p backtest.Progress) {
		fmt.Fprintf(out, "\n--- Iteration %d ---\n", p.Index)
		fmt.Fprintf(out, "Current Price: %s %.2f | Signal: %s\n", cfg.Account.Currency, p.Price, p.Signal)
		fmt.Fprintf(out, "Portfolio Value: %s %.2f\n", cfg.Account.Currency, p.PortfolioValue)
	}

	res, err := r.RunLive(ctx, series, market.NewSeededGenerator(seed), backtest.LiveOptions{
		Iterations:  cfg.Live.Iterations,
		HistorySize: cfg.Live.HistorySize,
		Delay:       delay,
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	if err != nil {
		log.Warn("live simulation stopped early", zap.Error(err))
	}

	backtest.PrintSummary(out, res, cfg.Account.Currency)
	return s.finish(context.WithoutCancel(ctx), cfg, res, "", log)
}
