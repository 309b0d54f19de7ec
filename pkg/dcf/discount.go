package dcf

import (
	"math"

	"github.com/iwvelando/mine-npv/pkg/constants"
	"github.com/iwvelando/mine-npv/pkg/mathutil"
)

// rateFromPercent converts a percentage discount rate into a decimal rate,
// rejecting -100% where every discount factor divides by zero.
func rateFromPercent(percent float64) (float64, error) {
	if percent == constants.DegenerateRatePercent {
		return 0, &DomainError{
			Field:  "discountRate",
			Value:  percent,
			Reason: "a rate of -100% discounts every future flow by zero",
		}
	}
	return mathutil.PercentToDecimal(percent), nil
}

// discount returns amount / (1+rate)^year.
func discount(amount, rate float64, year int) float64 {
	return amount / math.Pow(1+rate, float64(year))
}

// ClassifyRatio computes the benefit-cost ratio of the given discounted
// inflows and outflow magnitudes. With no outflows the ratio is the
// constants.BCRatioSentinel when inflows exist and 0 otherwise.
func ClassifyRatio(pvInflows, pvOutflows float64) (float64, RatioKind) {
	if pvOutflows == 0 {
		if pvInflows > 0 {
			return constants.BCRatioSentinel, RatioInfinite
		}
		return 0, RatioUndefined
	}
	return pvInflows / pvOutflows, RatioFinite
}

// BenefitCostRatio splits a record sequence into discounted inflows and
// outflow magnitudes, in sequence order, and returns both sums with the ratio.
// A record counts as an inflow only when its discounted flow is positive.
func BenefitCostRatio(records []CashFlowRecord) (ratio, pvInflows, pvOutflows float64) {
	for _, rec := range records {
		if rec.DiscountedCashFlow > 0 {
			pvInflows += rec.DiscountedCashFlow
		} else {
			pvOutflows += math.Abs(rec.DiscountedCashFlow)
		}
	}
	ratio, _ = ClassifyRatio(pvInflows, pvOutflows)
	return ratio, pvInflows, pvOutflows
}
