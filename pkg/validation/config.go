// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/mine-npv/pkg/constants"
)

// ProjectConfig carries the fields of a configured project needed for validation.
// Nil pointers are fields left out of the configuration.
type ProjectConfig struct {
	Name              string
	Active            bool
	DiscountRate      *float64
	InitialInvestment *float64
	LifeOfMine        *float64
	AnnualCashFlow    *float64
	FlowYears         []int
}

// ConfigValidator validates the configured projects as a whole.
type ConfigValidator struct {
	Projects []ProjectConfig
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	seen := make(map[string]struct{})
	for _, project := range cv.Projects {
		if _, dup := seen[project.Name]; dup {
			warnings = append(warnings, fmt.Sprintf("Project name '%s' is used more than once", project.Name))
		}
		seen[project.Name] = struct{}{}

		if !project.Active {
			continue
		}
		warnings = append(warnings, ValidateProject(project)...)
	}

	return warnings
}

// ValidateProject returns warnings for a single project. Nothing reported here
// prevents a valuation from running except the degenerate discount rate.
func ValidateProject(p ProjectConfig) []string {
	var warnings []string
	label := fmt.Sprintf("Project '%s'", p.Name)

	if p.Name == "" {
		warnings = append(warnings, "Project without a name")
	}

	if p.DiscountRate == nil {
		warnings = append(warnings, label+" has no discount rate; 0% will be used")
	} else if *p.DiscountRate == constants.DegenerateRatePercent {
		warnings = append(warnings, label+" uses a -100% discount rate, which cannot be evaluated")
	}

	annuityFields := p.InitialInvestment != nil || p.LifeOfMine != nil || p.AnnualCashFlow != nil
	if len(p.FlowYears) > 0 {
		if annuityFields {
			warnings = append(warnings, label+" sets both cashFlows and annuity parameters; annuity parameters are ignored")
		}
		warnings = append(warnings, ValidateFlowYears(label, p.FlowYears)...)
		return warnings
	}

	if p.LifeOfMine != nil {
		n := *p.LifeOfMine
		switch {
		case n < 0:
			warnings = append(warnings, fmt.Sprintf("%s has a negative life of mine (%v); only year 0 is modeled", label, n))
		case n > constants.MaxLifeOfMine:
			warnings = append(warnings, fmt.Sprintf("%s life of mine %v exceeds the %v year limit", label, n, constants.MaxLifeOfMine))
		case n != math.Floor(n):
			warnings = append(warnings, fmt.Sprintf("%s life of mine %v is truncated to %v whole years", label, n, math.Floor(n)))
		}
	}

	return warnings
}

// ValidateFlowYears warns about duplicate or out-of-order year labels. Both are
// legal: rows are discounted independently by their own year.
func ValidateFlowYears(label string, years []int) []string {
	var warnings []string
	seen := make(map[int]struct{})
	reported := make(map[int]struct{})
	ordered := true
	for i, year := range years {
		if _, dup := seen[year]; dup {
			if _, done := reported[year]; !done {
				warnings = append(warnings, fmt.Sprintf("%s lists year %d more than once; each row is discounted separately", label, year))
				reported[year] = struct{}{}
			}
		}
		seen[year] = struct{}{}
		if i > 0 && year < years[i-1] {
			ordered = false
		}
	}
	if !ordered {
		warnings = append(warnings, label+" cash flows are not in increasing year order; records follow row order")
	}
	return warnings
}
