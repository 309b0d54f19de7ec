package dcf

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/iwvelando/mine-npv/pkg/constants"
)

func labRows() []FlowRow {
	return []FlowRow{
		{Year: 0, Amount: Of(-50)},
		{Year: 1, Amount: Of(10)},
		{Year: 2, Amount: Of(15)},
		{Year: 3, Amount: Of(20)},
	}
}

func TestComputeIrregularScenario(t *testing.T) {
	result, err := ComputeIrregular(labRows(), Of(10))
	if err != nil {
		t.Fatalf("ComputeIrregular() error = %v", err)
	}

	expectedDiscounted := []float64{-50, 9.0909, 12.3967, 15.0263}
	if len(result.CashFlows) != len(expectedDiscounted) {
		t.Fatalf("ComputeIrregular() returned %d records, expected %d", len(result.CashFlows), len(expectedDiscounted))
	}
	for i, expected := range expectedDiscounted {
		if got := result.CashFlows[i].DiscountedCashFlow; math.Abs(got-expected) > 1e-4 {
			t.Errorf("record %d discounted = %.6f, expected %.4f", i, got, expected)
		}
	}

	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"npv", result.NPV, -13.4861},
		{"last cumulative", result.CashFlows[3].CumulativeNPV, -13.4861},
		{"pvInflows", result.PVInflows, 36.5139},
		{"pvOutflows", result.PVOutflows, 50},
		{"bcRatio", result.BCRatio, 0.7303},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expected) > 1e-4 {
			t.Errorf("%s = %.6f, expected %.4f", c.name, c.got, c.expected)
		}
	}
	if result.Kind() != RatioFinite {
		t.Errorf("Kind() = %s, expected finite", result.Kind())
	}
}

func TestComputeIrregularEmpty(t *testing.T) {
	for _, rate := range []Value{Of(10), Of(0), Unset(), Of(-50)} {
		result, err := ComputeIrregular(nil, rate)
		if err != nil {
			t.Fatalf("ComputeIrregular() error = %v", err)
		}
		if result.NPV != 0 || result.BCRatio != 0 {
			t.Errorf("ComputeIrregular(nil, %v) = %+v, expected zero npv and ratio", rate, result)
		}
		if result.CashFlows == nil || len(result.CashFlows) != 0 {
			t.Errorf("ComputeIrregular(nil, %v) cash flows = %v, expected empty slice", rate, result.CashFlows)
		}
		if result.Kind() != RatioUndefined {
			t.Errorf("Kind() = %s, expected undefined", result.Kind())
		}
	}
}

func TestComputeIrregularRatioSentinels(t *testing.T) {
	tests := []struct {
		name     string
		rows     []FlowRow
		expected float64
		kind     RatioKind
	}{
		{
			name:     "All positive rows",
			rows:     []FlowRow{{Year: 1, Amount: Of(5)}, {Year: 2, Amount: Of(7)}},
			expected: constants.BCRatioSentinel,
			kind:     RatioInfinite,
		},
		{
			name:     "All zero rows",
			rows:     []FlowRow{{Year: 0, Amount: Of(0)}, {Year: 1, Amount: Of(0)}},
			expected: 0,
			kind:     RatioUndefined,
		},
		{
			name:     "Unset amounts",
			rows:     []FlowRow{{Year: 0}, {Year: 1}},
			expected: 0,
			kind:     RatioUndefined,
		},
		{
			name:     "All negative rows",
			rows:     []FlowRow{{Year: 0, Amount: Of(-5)}},
			expected: 0,
			kind:     RatioFinite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeIrregular(tt.rows, Of(10))
			if err != nil {
				t.Fatalf("ComputeIrregular() error = %v", err)
			}
			if result.BCRatio != tt.expected {
				t.Errorf("BCRatio = %v, expected %v", result.BCRatio, tt.expected)
			}
			if result.Kind() != tt.kind {
				t.Errorf("Kind() = %s, expected %s", result.Kind(), tt.kind)
			}
		})
	}
}

func TestComputeIrregularUsesRowYear(t *testing.T) {
	rows := []FlowRow{
		{Year: 5, Amount: Of(100)},
		{Year: 0, Amount: Of(-40)},
	}
	result, err := ComputeIrregular(rows, Of(10))
	if err != nil {
		t.Fatalf("ComputeIrregular() error = %v", err)
	}

	expected := 100 / math.Pow(1.1, 5)
	if math.Abs(result.CashFlows[0].DiscountedCashFlow-expected) > 1e-12 {
		t.Errorf("first record discounted = %v, expected %v (exponent from year field)", result.CashFlows[0].DiscountedCashFlow, expected)
	}
	if result.CashFlows[0].Year != 5 || result.CashFlows[1].Year != 0 {
		t.Errorf("records not emitted in row order: %+v", result.CashFlows)
	}
}

func TestComputeIrregularReorderInvariant(t *testing.T) {
	base, err := ComputeIrregular(labRows(), Of(10))
	if err != nil {
		t.Fatalf("ComputeIrregular() error = %v", err)
	}

	rows := labRows()
	reordered := []FlowRow{rows[3], rows[1], rows[0], rows[2]}
	shuffled, err := ComputeIrregular(reordered, Of(10))
	if err != nil {
		t.Fatalf("ComputeIrregular() error = %v", err)
	}

	if math.Abs(base.NPV-shuffled.NPV) > 1e-9 {
		t.Errorf("NPV changed with row order: %v vs %v", base.NPV, shuffled.NPV)
	}
	if math.Abs(base.BCRatio-shuffled.BCRatio) > 1e-9 {
		t.Errorf("BCRatio changed with row order: %v vs %v", base.BCRatio, shuffled.BCRatio)
	}
	if shuffled.CashFlows[0].Year != 3 {
		t.Errorf("first emitted year = %d, expected 3", shuffled.CashFlows[0].Year)
	}
}

func TestComputeIrregularDuplicateYears(t *testing.T) {
	rows := []FlowRow{
		{Year: 1, Amount: Of(11)},
		{Year: 1, Amount: Of(11)},
	}
	result, err := ComputeIrregular(rows, Of(10))
	if err != nil {
		t.Fatalf("ComputeIrregular() error = %v", err)
	}
	if len(result.CashFlows) != 2 {
		t.Fatalf("expected duplicate years to be kept, got %d records", len(result.CashFlows))
	}
	if math.Abs(result.NPV-20) > 1e-12 {
		t.Errorf("NPV = %v, expected 20", result.NPV)
	}
}

func TestComputeIrregularMatchesAnnuityYearZero(t *testing.T) {
	irregular, err := ComputeIrregular([]FlowRow{{Year: 0, Amount: Of(-75)}}, Of(12))
	if err != nil {
		t.Fatalf("ComputeIrregular() error = %v", err)
	}
	annuity, err := ComputeAnnuity(ProjectInputs{InitialInvestment: Of(75), DiscountRate: Of(12)})
	if err != nil {
		t.Fatalf("ComputeAnnuity() error = %v", err)
	}
	if !reflect.DeepEqual(irregular.CashFlows[0], annuity.CashFlows[0]) {
		t.Errorf("year-0 records differ: %+v vs %+v", irregular.CashFlows[0], annuity.CashFlows[0])
	}
}

func TestComputeIrregularDegenerateRate(t *testing.T) {
	_, err := ComputeIrregular(labRows(), Of(-100))
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("ComputeIrregular() error = %v, expected *DomainError", err)
	}
}

func TestComputeIrregularIdempotent(t *testing.T) {
	first, err := ComputeIrregular(labRows(), Of(8))
	if err != nil {
		t.Fatalf("ComputeIrregular() error = %v", err)
	}
	second, err := ComputeIrregular(labRows(), Of(8))
	if err != nil {
		t.Fatalf("ComputeIrregular() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ComputeIrregular() is not deterministic")
	}
}

func TestBenefitCostRatioOverAnnuity(t *testing.T) {
	result, err := ComputeAnnuity(ProjectInputs{
		InitialInvestment: Of(50),
		LifeOfMine:        Of(3),
		AnnualCashFlow:    Of(20),
		DiscountRate:      Of(0),
	})
	if err != nil {
		t.Fatalf("ComputeAnnuity() error = %v", err)
	}
	ratio, in, out := BenefitCostRatio(result.CashFlows)
	if in != 60 || out != 50 || ratio != 1.2 {
		t.Errorf("BenefitCostRatio() = (%v, %v, %v), expected (1.2, 60, 50)", ratio, in, out)
	}
}
