package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

var ErrRunNotFound = errors.New("run not found")

// SQLiteJournal mirrors the trade log into a SQLite database and keeps a
// summary row per run.
type SQLiteJournal struct {
	db *sql.DB
	sq squirrel.StatementBuilderType
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &SQLiteJournal{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.sq.
		Insert("trades").
		Columns("trade_id", "run_id", "timestamp", "symbol", "side", "price", "quantity", "value", "balance", "realized_pl").
		Values(t.ID, t.RunID, t.Timestamp, t.Symbol, t.Side, t.Price, t.Quantity, t.Value, t.Balance, t.RealizedPL).
		RunWith(j.db).
		Exec()
	if err != nil {
		return fmt.Errorf("insert trade %s: %w", t.ID, err)
	}
	return nil
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.sq.
		Insert("equity").
		Columns("run_id", "timestamp", "price", "balance", "equity").
		Values(e.RunID, e.Timestamp, e.Price, e.Balance, e.Equity).
		RunWith(j.db).
		Exec()
	if err != nil {
		return fmt.Errorf("insert equity: %w", err)
	}
	return nil
}

// RecordRun inserts or replaces the summary row for btr.RunID.
func (j *SQLiteJournal) RecordRun(ctx context.Context, btr BacktestRun) error {
	created := btr.Created
	if created.IsZero() {
		created = time.Now()
	}

	_, err := j.sq.
		Insert("runs").
		Options("OR REPLACE").
		Columns(runColumns...).
		Values(
			btr.RunID, created.UTC().Format(time.RFC3339), btr.Mode, btr.Dataset,
			btr.Symbol, btr.Strategy, string(btr.Config), btr.RiskPct,
			btr.Start, btr.End, btr.Bars, btr.Trades, btr.Wins, btr.Losses,
			btr.StartBalance, btr.EndBalance, btr.FinalValue,
			btr.NetPL, btr.ReturnPct, btr.WinRate, btr.ProfitFactor, btr.MaxDDPct,
		).
		RunWith(j.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", btr.RunID, err)
	}
	return nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
