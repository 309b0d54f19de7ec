// Package config defines conversion utilities for configuration objects.
package config

import (
	"github.com/iwvelando/mine-npv/internal/lab"
	"github.com/iwvelando/mine-npv/pkg/dcf"
)

// IsIrregular reports whether the project is defined by explicit cash-flow rows.
func (p Project) IsIrregular() bool {
	return len(p.CashFlows) > 0
}

// Rate returns the configured discount rate as an engine input.
func (p Project) Rate() dcf.Value {
	return dcf.FromPtr(p.DiscountRate)
}

// ToInputs converts the annuity parameters into engine inputs.
func (p Project) ToInputs() dcf.ProjectInputs {
	return dcf.ProjectInputs{
		InitialInvestment: dcf.FromPtr(p.InitialInvestment),
		LifeOfMine:        dcf.FromPtr(p.LifeOfMine),
		AnnualCashFlow:    dcf.FromPtr(p.AnnualCashFlow),
		DiscountRate:      dcf.FromPtr(p.DiscountRate),
	}
}

// ToRows converts the cash-flow entries into engine rows, keeping their order.
func (p Project) ToRows() []dcf.FlowRow {
	rows := make([]dcf.FlowRow, 0, len(p.CashFlows))
	for _, entry := range p.CashFlows {
		rows = append(rows, dcf.FlowRow{
			Year:   entry.Year,
			Amount: dcf.FromPtr(entry.Amount),
		})
	}
	return rows
}

// FromInputs builds an annuity project from engine inputs.
func FromInputs(name string, in dcf.ProjectInputs) Project {
	return Project{
		Name:              name,
		Active:            true,
		DiscountRate:      in.DiscountRate.Ptr(),
		InitialInvestment: in.InitialInvestment.Ptr(),
		LifeOfMine:        in.LifeOfMine.Ptr(),
		AnnualCashFlow:    in.AnnualCashFlow.Ptr(),
	}
}

// ToLab converts a comparison entry into a lab project.
func (c ComparisonProject) ToLab() lab.Project {
	return lab.Project{
		Name:       c.Name,
		Investment: dcf.FromPtr(c.Investment),
		Revenue:    dcf.FromPtr(c.Revenue),
		Life:       dcf.FromPtr(c.Life),
	}
}

// LabProjects returns the configured comparison pair, or the default pair
// when the section is absent. Unnamed entries keep their default names.
func (c *ComparisonConfig) LabProjects() (lab.Project, lab.Project) {
	a, b := lab.DefaultProjects()
	if c == nil {
		return a, b
	}
	ca, cb := c.ProjectA.ToLab(), c.ProjectB.ToLab()
	if ca.Name == "" {
		ca.Name = a.Name
	}
	if cb.Name == "" {
		cb.Name = b.Name
	}
	return ca, cb
}

// ProfileRates returns the configured rates or nil for the defaults.
func (c *ComparisonConfig) ProfileRates() []float64 {
	if c == nil || len(c.Rates) == 0 {
		return nil
	}
	return c.Rates
}
