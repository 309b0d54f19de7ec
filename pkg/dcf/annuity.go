package dcf

import (
	"math"

	"github.com/iwvelando/mine-npv/pkg/constants"
)

// ComputeAnnuity values a flat-annuity project: an outflow of the initial
// investment at year 0 followed by the same annual cash flow for every whole
// year of the life of mine. A fractional life of mine is truncated; a negative
// or NaN life of mine yields only the year-0 record.
func ComputeAnnuity(in ProjectInputs) (CalculationResult, error) {
	initialInvestment := in.InitialInvestment.Float()
	lifeOfMine := in.LifeOfMine.Float()
	annualCashFlow := in.AnnualCashFlow.Float()

	rate, err := rateFromPercent(in.DiscountRate.Float())
	if err != nil {
		return CalculationResult{}, err
	}
	if lifeOfMine > constants.MaxLifeOfMine {
		return CalculationResult{}, &DomainError{
			Field:  "lifeOfMine",
			Value:  lifeOfMine,
			Reason: "exceeds the maximum modeled horizon",
		}
	}

	years := 0
	if lifeOfMine >= 1 {
		years = int(math.Floor(lifeOfMine))
	}

	// 0 - x keeps a zero investment at +0
	outlay := 0 - initialInvestment

	cashFlows := make([]CashFlowRecord, 0, years+1)
	cashFlows = append(cashFlows, CashFlowRecord{
		Year:               0,
		CashFlow:           outlay,
		DiscountedCashFlow: outlay,
		CumulativeNPV:      outlay,
	})

	npv := outlay
	for t := 1; t <= years; t++ {
		discounted := discount(annualCashFlow, rate, t)
		npv += discounted
		cashFlows = append(cashFlows, CashFlowRecord{
			Year:               t,
			CashFlow:           annualCashFlow,
			DiscountedCashFlow: discounted,
			CumulativeNPV:      npv,
		})
	}

	return CalculationResult{NPV: npv, CashFlows: cashFlows}, nil
}

// Truncated reports whether ComputeAnnuity would drop a fractional part of the
// life of mine for these inputs.
func (in ProjectInputs) Truncated() bool {
	n := in.LifeOfMine.Float()
	return n > 0 && !math.IsInf(n, 0) && n != math.Floor(n)
}
