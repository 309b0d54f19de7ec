// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/mine-npv/internal/valuation"
)

// FindValuation finds a valuation by project name in the results slice.
// Returns a pointer to the valuation if found, nil otherwise.
func FindValuation(results []valuation.Valuation, name string) *valuation.Valuation {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// Close reports whether got is within tolerance of expected.
func Close(got, expected, tolerance float64) bool {
	return math.Abs(got-expected) <= tolerance
}
