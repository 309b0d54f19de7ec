package lab

import (
	"github.com/iwvelando/mine-npv/pkg/constants"
	"github.com/iwvelando/mine-npv/pkg/dcf"
	"github.com/iwvelando/mine-npv/pkg/mathutil"
)

// Project is one side of a two-project comparison. Values are in millions and
// years.
type Project struct {
	Name       string    `json:"name"`
	Investment dcf.Value `json:"investment"`
	Revenue    dcf.Value `json:"revenue"`
	Life       dcf.Value `json:"life"`
}

// DefaultProjects returns the stock comparison pair.
func DefaultProjects() (Project, Project) {
	a := Project{Name: "Project A", Investment: dcf.Of(50), Revenue: dcf.Of(12), Life: dcf.Of(10)}
	b := Project{Name: "Project B", Investment: dcf.Of(80), Revenue: dcf.Of(18), Life: dcf.Of(12)}
	return a, b
}

// Inputs converts the project into annuity inputs at the given rate.
func (p Project) Inputs(ratePercent float64) dcf.ProjectInputs {
	return dcf.ProjectInputs{
		InitialInvestment: p.Investment,
		LifeOfMine:        p.Life,
		AnnualCashFlow:    p.Revenue,
		DiscountRate:      dcf.Of(ratePercent),
	}
}

// ProfilePoint is the NPV of both projects at one discount rate.
type ProfilePoint struct {
	Rate float64 `json:"rate"`
	NPVA float64 `json:"npvA"`
	NPVB float64 `json:"npvB"`
}

// DefaultRates returns 0% to 30% in steps of 2%.
func DefaultRates() []float64 {
	rates := make([]float64, 0, 16)
	for r := 0; r <= 30; r += 2 {
		rates = append(rates, float64(r))
	}
	return rates
}

// Profile computes the NPV of both projects at each rate, rounded to four
// decimals. Nil rates means DefaultRates.
func Profile(a, b Project, rates []float64) ([]ProfilePoint, error) {
	if rates == nil {
		rates = DefaultRates()
	}

	points := make([]ProfilePoint, 0, len(rates))
	for _, rate := range rates {
		ra, err := dcf.ComputeAnnuity(a.Inputs(rate))
		if err != nil {
			return nil, err
		}
		rb, err := dcf.ComputeAnnuity(b.Inputs(rate))
		if err != nil {
			return nil, err
		}
		points = append(points, ProfilePoint{
			Rate: rate,
			NPVA: mathutil.RoundTo(ra.NPV, constants.ProfilePrecision),
			NPVB: mathutil.RoundTo(rb.NPV, constants.ProfilePrecision),
		})
	}
	return points, nil
}

// SwitchBracket returns the two consecutive profile rates between which the
// preferred project changes, and false when it never does. The crossing
// itself lies somewhere inside the bracket and is not located here.
func SwitchBracket(points []ProfilePoint) ([2]float64, bool) {
	for i := 1; i < len(points); i++ {
		prev := points[i-1].NPVA - points[i-1].NPVB
		curr := points[i].NPVA - points[i].NPVB
		if (prev < 0 && curr >= 0) || (prev > 0 && curr <= 0) {
			return [2]float64{points[i-1].Rate, points[i].Rate}, true
		}
	}
	return [2]float64{}, false
}
