// Package dcf implements the discounted cash-flow valuation engine: an
// annuity engine driven by four project parameters and an irregular flow
// engine driven by an ordered list of (year, amount) rows.
//
// Every function in this package is pure. Results are freshly allocated on
// each call and nothing is logged, cached or shared between calls.
package dcf

// ProjectInputs holds the annuity scenario parameters. Unset fields count as 0.
type ProjectInputs struct {
	InitialInvestment Value `json:"initialInvestment"` // P, in millions
	LifeOfMine        Value `json:"lifeOfMine"`        // n, in years
	AnnualCashFlow    Value `json:"annualRevenue"`     // A, in millions per year
	DiscountRate      Value `json:"discountRate"`      // i, in percent
}

// CashFlowRecord is one year of a discounted series.
type CashFlowRecord struct {
	Year               int     `json:"year"`
	CashFlow           float64 `json:"cashFlow"`
	DiscountedCashFlow float64 `json:"discountedCashFlow"`
	CumulativeNPV      float64 `json:"cumulativeNPV"`
}

// CalculationResult is the output of the annuity engine.
type CalculationResult struct {
	NPV       float64          `json:"npv"`
	CashFlows []CashFlowRecord `json:"cashFlows"`
}

// FlowRow is one caller-supplied row of an irregular cash-flow table. Year is
// a label used as the discount exponent, not a position.
type FlowRow struct {
	Year   int   `json:"year"`
	Amount Value `json:"amount"`
}

// IrregularResult is the output of the irregular flow engine.
type IrregularResult struct {
	NPV        float64          `json:"npv"`
	BCRatio    float64          `json:"bcRatio"`
	PVInflows  float64          `json:"pvInflows"`
	PVOutflows float64          `json:"pvOutflows"`
	CashFlows  []CashFlowRecord `json:"cashFlows"`
}

// RatioKind tags how a benefit-cost ratio was obtained.
type RatioKind int

const (
	// RatioFinite means discounted outflows were non-zero.
	RatioFinite RatioKind = iota
	// RatioUndefined means there were neither inflows nor outflows.
	RatioUndefined
	// RatioInfinite means inflows existed without any outflow.
	RatioInfinite
)

func (k RatioKind) String() string {
	switch k {
	case RatioFinite:
		return "finite"
	case RatioUndefined:
		return "undefined"
	case RatioInfinite:
		return "infinite"
	default:
		return "unknown"
	}
}

// Kind classifies the result's benefit-cost ratio.
func (r IrregularResult) Kind() RatioKind {
	_, kind := ClassifyRatio(r.PVInflows, r.PVOutflows)
	return kind
}
