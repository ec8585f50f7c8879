package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rustyeddy/tradebot/internal/id"
	"github.com/rustyeddy/tradebot/journal"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoPosition        = errors.New("no position")
	ErrInvalidOrder      = errors.New("invalid order")
)

type LedgerOptions struct {
	// RunID is stamped on every journal record.
	RunID   string
	Journal journal.Journal
	Log     *zap.Logger
}

// Ledger is a long-only cash account with at most one position per symbol.
// Orders fill immediately and in full at the given price.
type Ledger struct {
	mu sync.Mutex

	initial   decimal.Decimal
	cash      decimal.Decimal
	positions map[string]*Position
	trades    []Trade

	runID   string
	journal journal.Journal
	log     *zap.Logger
}

func NewLedger(initialBalance float64, opts LedgerOptions) *Ledger {
	if opts.Journal == nil {
		opts.Journal = journal.Discard{}
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	bal := decimal.NewFromFloat(initialBalance)
	return &Ledger{
		initial:   bal,
		cash:      bal,
		positions: make(map[string]*Position),
		runID:     opts.RunID,
		journal:   opts.Journal,
		log:       opts.Log,
	}
}

func (l *Ledger) RunID() string { return l.runID }

// ExecuteBuy buys qty shares of symbol at price. Buying into an existing
// position averages the entry price. The order is rejected with
// ErrInsufficientFunds when qty*price exceeds the cash balance.
//
// If the fill succeeds but the journal write fails, the fill is returned
// together with the journal error.
func (l *Ledger) ExecuteBuy(symbol string, qty int, price float64, date string) (Fill, error) {
	if qty <= 0 || price <= 0 {
		return Fill{}, fmt.Errorf("%w: buy %d %s @ %.2f", ErrInvalidOrder, qty, symbol, price)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cost := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
	if cost.GreaterThan(l.cash) {
		l.log.Debug("buy rejected",
			zap.String("symbol", symbol),
			zap.Int("quantity", qty),
			zap.Float64("price", price),
			zap.String("cost", cost.StringFixed(2)),
			zap.String("balance", l.cash.StringFixed(2)))
		return Fill{}, fmt.Errorf("%w: need %s, have %s", ErrInsufficientFunds, cost.StringFixed(2), l.cash.StringFixed(2))
	}

	l.cash = l.cash.Sub(cost)

	pos, ok := l.positions[symbol]
	if !ok {
		pos = &Position{Symbol: symbol, EntryDate: date}
		l.positions[symbol] = pos
	}
	held := decimal.NewFromInt(int64(pos.Quantity))
	basis := decimal.NewFromFloat(pos.EntryPrice).Mul(held).Add(cost)
	pos.Quantity += qty
	pos.EntryPrice = basis.Div(decimal.NewFromInt(int64(pos.Quantity))).InexactFloat64()

	fill := Fill{Trade: l.newTrade(symbol, Buy, qty, price, cost, date)}
	l.log.Info("buy executed",
		zap.String("date", date),
		zap.String("symbol", symbol),
		zap.Int("quantity", qty),
		zap.Float64("price", price),
		zap.Float64("balance", fill.Trade.BalanceAfter))

	return fill, l.record(fill)
}

// ExecuteSell sells up to qty shares of symbol at price. A quantity larger
// than the holding is clamped to the holding. Selling with no position fails
// with ErrNoPosition.
func (l *Ledger) ExecuteSell(symbol string, qty int, price float64, date string) (Fill, error) {
	if qty <= 0 || price <= 0 {
		return Fill{}, fmt.Errorf("%w: sell %d %s @ %.2f", ErrInvalidOrder, qty, symbol, price)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[symbol]
	if !ok || pos.Quantity <= 0 {
		l.log.Debug("sell rejected, no position", zap.String("symbol", symbol), zap.String("date", date))
		return Fill{}, fmt.Errorf("%w in %s", ErrNoPosition, symbol)
	}
	if qty > pos.Quantity {
		qty = pos.Quantity
	}

	px := decimal.NewFromFloat(price)
	n := decimal.NewFromInt(int64(qty))
	proceeds := px.Mul(n)
	pl := px.Sub(decimal.NewFromFloat(pos.EntryPrice)).Mul(n)

	l.cash = l.cash.Add(proceeds)
	pos.Quantity -= qty
	if pos.Quantity == 0 {
		delete(l.positions, symbol)
	}

	fill := Fill{
		Trade:      l.newTrade(symbol, Sell, qty, price, proceeds, date),
		RealizedPL: pl.InexactFloat64(),
	}
	l.log.Info("sell executed",
		zap.String("date", date),
		zap.String("symbol", symbol),
		zap.Int("quantity", qty),
		zap.Float64("price", price),
		zap.Float64("pl", fill.RealizedPL),
		zap.Float64("balance", fill.Trade.BalanceAfter))

	return fill, l.record(fill)
}

// newTrade appends a trade to the history. Caller holds l.mu.
func (l *Ledger) newTrade(symbol string, side Side, qty int, price float64, value decimal.Decimal, date string) Trade {
	t := Trade{
		ID:           id.New(),
		Timestamp:    date,
		Symbol:       symbol,
		Side:         side,
		Price:        price,
		Quantity:     qty,
		Value:        value.InexactFloat64(),
		BalanceAfter: l.cash.InexactFloat64(),
	}
	l.trades = append(l.trades, t)
	return t
}

func (l *Ledger) record(f Fill) error {
	t := f.Trade
	err := l.journal.RecordTrade(journal.TradeRecord{
		ID:         t.ID,
		RunID:      l.runID,
		Timestamp:  t.Timestamp,
		Symbol:     t.Symbol,
		Side:       t.Side.String(),
		Price:      t.Price,
		Quantity:   t.Quantity,
		Value:      t.Value,
		Balance:    t.BalanceAfter,
		RealizedPL: f.RealizedPL,
	})
	if err != nil {
		return fmt.Errorf("journal trade %s: %w", t.ID, err)
	}
	return nil
}

// RecordEquity writes an equity snapshot for symbol marked at price.
func (l *Ledger) RecordEquity(symbol string, price float64, date string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.journal.RecordEquity(journal.EquitySnapshot{
		RunID:     l.runID,
		Timestamp: date,
		Price:     price,
		Balance:   l.cash.InexactFloat64(),
		Equity:    l.portfolioValueLocked(symbol, price),
	})
	if err != nil {
		return fmt.Errorf("journal equity: %w", err)
	}
	return nil
}

func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cash.InexactFloat64()
}

func (l *Ledger) InitialBalance() float64 {
	return l.initial.InexactFloat64()
}

func (l *Ledger) HasPosition(symbol string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	pos, ok := l.positions[symbol]
	return ok && pos.Quantity > 0
}

// Position returns a copy of the holding in symbol, or the zero Position.
func (l *Ledger) Position(symbol string) Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	if pos, ok := l.positions[symbol]; ok {
		return *pos
	}
	return Position{Symbol: symbol}
}

// PortfolioValue is cash plus the holding in symbol marked at price.
func (l *Ledger) PortfolioValue(symbol string, price float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.portfolioValueLocked(symbol, price)
}

func (l *Ledger) portfolioValueLocked(symbol string, price float64) float64 {
	v := l.cash
	if pos, ok := l.positions[symbol]; ok {
		v = v.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(pos.Quantity))))
	}
	return v.InexactFloat64()
}

// Trades returns a copy of the fill history in execution order.
func (l *Ledger) Trades() []Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}
