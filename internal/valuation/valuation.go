// Package valuation defines the result of valuing a configured project and
// includes functions for running every active project through the engines.
package valuation

import (
	"fmt"

	"github.com/iwvelando/mine-npv/internal/config"
	"github.com/iwvelando/mine-npv/pkg/dcf"
	"go.uber.org/zap"
)

// Kind names the engine used for a valuation.
type Kind string

const (
	KindAnnuity   Kind = "annuity"
	KindIrregular Kind = "irregular"
)

// Valuation holds all information related to a specific project valuation.
type Valuation struct {
	Name       string
	Kind       Kind
	Rate       dcf.Value
	Inputs     dcf.ProjectInputs // annuity projects only
	Rows       []dcf.FlowRow     // irregular projects only
	NPV        float64
	BCRatio    float64
	RatioKind  dcf.RatioKind
	PVInflows  float64
	PVOutflows float64
	CashFlows  []dcf.CashFlowRecord
	Notes      []string
}

// Evaluate processes the valuations for all active projects.
func Evaluate(logger *zap.Logger, conf config.Configuration) ([]Valuation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Valuation
	for _, project := range conf.Projects {
		if !project.Active {
			logger.Debug(fmt.Sprintf("skipping project %s because it is inactive", project.Name),
				zap.String("op", "valuation.Evaluate"),
			)
			continue
		}

		result, err := EvaluateProject(logger, project)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

// EvaluateProject values a single project regardless of its active flag.
func EvaluateProject(logger *zap.Logger, project config.Project) (Valuation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := Valuation{Name: project.Name, Rate: project.Rate()}

	if project.IsIrregular() {
		result.Kind = KindIrregular
		result.Rows = project.ToRows()
		computed, err := dcf.ComputeIrregular(result.Rows, result.Rate)
		if err != nil {
			return result, fmt.Errorf("project %s: %w", project.Name, err)
		}
		result.NPV = computed.NPV
		result.BCRatio = computed.BCRatio
		result.RatioKind = computed.Kind()
		result.PVInflows = computed.PVInflows
		result.PVOutflows = computed.PVOutflows
		result.CashFlows = computed.CashFlows
	} else {
		result.Kind = KindAnnuity
		result.Inputs = project.ToInputs()
		computed, err := dcf.ComputeAnnuity(result.Inputs)
		if err != nil {
			return result, fmt.Errorf("project %s: %w", project.Name, err)
		}
		result.NPV = computed.NPV
		result.CashFlows = computed.CashFlows
		result.BCRatio, result.PVInflows, result.PVOutflows = dcf.BenefitCostRatio(computed.CashFlows)
		_, result.RatioKind = dcf.ClassifyRatio(result.PVInflows, result.PVOutflows)

		if result.Inputs.Truncated() {
			result.Notes = append(result.Notes,
				fmt.Sprintf("life of mine %v truncated to %d years", result.Inputs.LifeOfMine.Float(), len(result.CashFlows)-1))
		}
	}

	if result.RatioKind == dcf.RatioInfinite {
		result.Notes = append(result.Notes, "no discounted outflows; B/C ratio reported as sentinel")
	}

	logger.Debug("project valued",
		zap.String("op", "valuation.EvaluateProject"),
		zap.String("project", result.Name),
		zap.String("kind", string(result.Kind)),
		zap.Int("records", len(result.CashFlows)),
		zap.Float64("npv", result.NPV),
		zap.Float64("bcRatio", result.BCRatio),
	)

	return result, nil
}

// Profitable reports whether the valuation has a positive NPV.
func (v Valuation) Profitable() bool {
	return v.NPV > 0
}
