package risk

import "math"

type Inputs struct {
	Price float64
	Cash  float64
}

// Result carries the intermediate sizing figures so callers can log how a
// quantity was reached.
type Result struct {
	RiskAmount  float64
	RawQuantity int
	MaxValue    float64
	CapQuantity int
	Quantity    int
	Capped      bool
}

func (p Policy) Calculate(in Inputs) Result {
	if in.Price <= 0 || in.Cash <= 0 {
		return Result{}
	}

	riskAmt := in.Cash * p.RiskPct / 100
	maxVal := p.MaxPositionValue(in.Cash)

	res := Result{
		RiskAmount:  riskAmt,
		RawQuantity: int(math.Floor(riskAmt / in.Price)),
		MaxValue:    maxVal,
		CapQuantity: int(math.Floor(maxVal / in.Price)),
	}

	res.Quantity = res.RawQuantity
	if res.CapQuantity < res.RawQuantity {
		res.Quantity = res.CapQuantity
		res.Capped = true
	}
	if res.Quantity < 0 {
		res.Quantity = 0
	}
	return res
}
