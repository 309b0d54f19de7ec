package lab

import (
	"fmt"
	"math"

	"github.com/iwvelando/mine-npv/pkg/constants"
	"github.com/iwvelando/mine-npv/pkg/dcf"
	"github.com/iwvelando/mine-npv/pkg/mathutil"
)

// Factor evaluates a standard interest factor at a percentage rate over a
// number of periods. At a zero rate the factors take their limiting values.
func Factor(block string, ratePercent float64, periods int) (float64, error) {
	if ratePercent == constants.DegenerateRatePercent {
		return 0, &dcf.DomainError{Field: "rate", Value: ratePercent, Reason: "interest factors are undefined at -100%"}
	}
	if periods < 0 {
		return 0, &dcf.DomainError{Field: "periods", Value: float64(periods), Reason: "must not be negative"}
	}

	i := mathutil.PercentToDecimal(ratePercent)
	n := float64(periods)
	growth := math.Pow(1+i, n)

	switch block {
	case "P/F":
		return 1 / growth, nil
	case "F/P":
		return growth, nil
	case "P/A":
		if i == 0 {
			return n, nil
		}
		return (1 - 1/growth) / i, nil
	case "F/A":
		if i == 0 {
			return n, nil
		}
		return (growth - 1) / i, nil
	case "A/P", "A/F":
		if periods == 0 {
			return 0, &dcf.DomainError{Field: "periods", Value: 0, Reason: "a uniform series needs at least one period"}
		}
		if i == 0 {
			return 1 / n, nil
		}
		if block == "A/P" {
			// capital recovery, the same form as a level loan payment per unit principal
			return i / (1 - 1/growth), nil
		}
		return i / (growth - 1), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBlock, block)
}

// FactorValue is one evaluated block of a chain.
type FactorValue struct {
	Block string  `json:"block"`
	Value float64 `json:"value"`
}

// Evaluate computes every block in the chain at the same rate and period
// count, and the product of the chain.
func (c *FormulaChain) Evaluate(ratePercent float64, periods int) ([]FactorValue, float64, error) {
	values := make([]FactorValue, 0, len(c.blocks))
	product := 1.0
	for _, block := range c.blocks {
		v, err := Factor(block, ratePercent, periods)
		if err != nil {
			return nil, 0, err
		}
		values = append(values, FactorValue{Block: block, Value: mathutil.RoundTo(v, constants.ProfilePrecision)})
		product *= v
	}
	return values, mathutil.RoundTo(product, constants.ProfilePrecision), nil
}
