package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

var runColumns = []string{
	"run_id", "created", "mode", "dataset", "symbol", "strategy", "config", "risk_pct",
	"start_date", "end_date", "bars", "trades", "wins", "losses",
	"start_balance", "end_balance", "final_value",
	"net_pl", "return_pct", "win_rate", "profit_factor", "max_dd_pct",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (BacktestRun, error) {
	var (
		btr     BacktestRun
		created string
		config  string
	)
	err := row.Scan(
		&btr.RunID, &created, &btr.Mode, &btr.Dataset, &btr.Symbol, &btr.Strategy, &config, &btr.RiskPct,
		&btr.Start, &btr.End, &btr.Bars, &btr.Trades, &btr.Wins, &btr.Losses,
		&btr.StartBalance, &btr.EndBalance, &btr.FinalValue,
		&btr.NetPL, &btr.ReturnPct, &btr.WinRate, &btr.ProfitFactor, &btr.MaxDDPct,
	)
	if err != nil {
		return BacktestRun{}, err
	}
	btr.Config = []byte(config)
	if btr.Created, err = time.Parse(time.RFC3339, created); err != nil {
		return BacktestRun{}, fmt.Errorf("run %s: bad created time %q: %w", btr.RunID, created, err)
	}
	return btr, nil
}

// GetRun returns the summary row for runID.
func (j *SQLiteJournal) GetRun(ctx context.Context, runID string) (BacktestRun, error) {
	row := j.sq.
		Select(runColumns...).
		From("runs").
		Where(squirrel.Eq{"run_id": runID}).
		RunWith(j.db).
		QueryRowContext(ctx)

	btr, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BacktestRun{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return btr, err
}

// ListRuns returns run summaries, newest first. A limit <= 0 returns all.
func (j *SQLiteJournal) ListRuns(ctx context.Context, limit int) ([]BacktestRun, error) {
	q := j.sq.
		Select(runColumns...).
		From("runs").
		OrderBy("run_id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	rows, err := q.RunWith(j.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []BacktestRun
	for rows.Next() {
		btr, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, btr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTrades returns the trades of one run in execution order. Trade IDs are
// ULIDs, so ordering by ID is ordering by time.
func (j *SQLiteJournal) ListTrades(ctx context.Context, runID string) ([]TradeRecord, error) {
	rows, err := j.sq.
		Select("trade_id", "run_id", "timestamp", "symbol", "side", "price", "quantity", "value", "balance", "realized_pl").
		From("trades").
		Where(squirrel.Eq{"run_id": runID}).
		OrderBy("trade_id ASC").
		RunWith(j.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.Timestamp,
			&rec.Symbol,
			&rec.Side,
			&rec.Price,
			&rec.Quantity,
			&rec.Value,
			&rec.Balance,
			&rec.RealizedPL,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquity returns the equity snapshots of one run in insertion order.
func (j *SQLiteJournal) ListEquity(ctx context.Context, runID string) ([]EquitySnapshot, error) {
	rows, err := j.sq.
		Select("run_id", "timestamp", "price", "balance", "equity").
		From("equity").
		Where(squirrel.Eq{"run_id": runID}).
		OrderBy("rowid ASC").
		RunWith(j.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query equity: %w", err)
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.RunID, &e.Timestamp, &e.Price, &e.Balance, &e.Equity); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportOrg loads a run and renders its Org block.
func (j *SQLiteJournal) ExportOrg(ctx context.Context, runID string) (string, error) {
	btr, err := j.GetRun(ctx, runID)
	if err != nil {
		return "", err
	}
	return btr.FormatOrg()
}
