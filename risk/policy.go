package risk

import (
	"errors"
	"fmt"
)

const (
	DefaultRiskPct        = 2.0
	DefaultMaxExposurePct = 80.0
)

var ErrInvalidPolicy = errors.New("invalid risk policy")

// Policy sizes new positions from the available cash. Percentages are
// expressed as whole numbers, so 2 means 2%.
type Policy struct {
	RiskPct        float64 `json:"risk-percentage" yaml:"risk_percentage"`
	MaxExposurePct float64 `json:"max-exposure-percentage" yaml:"max_exposure_percentage"`
}

// NewPolicy returns a Policy with the given per-trade risk and the default
// exposure cap.
func NewPolicy(riskPct float64) Policy {
	return Policy{RiskPct: riskPct, MaxExposurePct: DefaultMaxExposurePct}
}

func (p Policy) Validate() error {
	if p.RiskPct <= 0 || p.RiskPct > 100 {
		return fmt.Errorf("%w: risk percentage %.2f must be in (0, 100]", ErrInvalidPolicy, p.RiskPct)
	}
	if p.MaxExposurePct <= 0 || p.MaxExposurePct > 100 {
		return fmt.Errorf("%w: max exposure %.2f must be in (0, 100]", ErrInvalidPolicy, p.MaxExposurePct)
	}
	return nil
}

// PositionSize returns the number of whole shares to buy at price with cash
// available. The result is the smaller of the risk-budget quantity and the
// exposure-cap quantity, and 0 when either input is not positive.
func (p Policy) PositionSize(price, cash float64) int {
	return p.Calculate(Inputs{Price: price, Cash: cash}).Quantity
}

// MaxPositionValue is the largest position value the exposure cap allows.
func (p Policy) MaxPositionValue(cash float64) float64 {
	if cash <= 0 {
		return 0
	}
	return cash * p.MaxExposurePct / 100
}

// IsTradeAllowed reports whether holding exposure against balance stays under
// the exposure cap.
func (p Policy) IsTradeAllowed(exposure, balance float64) bool {
	if balance <= 0 {
		return false
	}
	return exposure/balance*100 < p.MaxExposurePct
}
