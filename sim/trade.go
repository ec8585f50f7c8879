package sim

// Side is the direction of a fill.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

func (s Side) String() string { return string(s) }

// Trade is an executed fill as recorded in the ledger history.
type Trade struct {
	ID           string
	Timestamp    string
	Symbol       string
	Side         Side
	Price        float64
	Quantity     int
	Value        float64 // Price * Quantity
	BalanceAfter float64
}

// Fill is the outcome of a successful ExecuteBuy or ExecuteSell.
type Fill struct {
	Trade      Trade
	RealizedPL float64 // zero for buys
}
