package sim

// Position is a long holding in one symbol. The ledger removes a position as
// soon as its quantity reaches zero.
type Position struct {
	Symbol     string
	Quantity   int
	EntryPrice float64 // weighted average cost per share
	EntryDate  string
}

// Value marks the position at price.
func (p Position) Value(price float64) float64 {
	return float64(p.Quantity) * price
}

// UnrealizedPL is the profit if the whole position were sold at price.
func (p Position) UnrealizedPL(price float64) float64 {
	return float64(p.Quantity) * (price - p.EntryPrice)
}
