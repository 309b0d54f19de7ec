package advisor

import (
	"strings"
	"testing"

	"github.com/iwvelando/mine-npv/internal/lab"
	"github.com/iwvelando/mine-npv/pkg/dcf"
	"github.com/iwvelando/mine-npv/pkg/format"
)

func TestChatPrompt(t *testing.T) {
	in := dcf.ProjectInputs{
		InitialInvestment: dcf.Of(50),
		LifeOfMine:        dcf.Of(10),
		AnnualCashFlow:    dcf.Of(12),
		DiscountRate:      dcf.Of(10),
	}
	prompt := ChatPrompt(in, -13.4861, format.Millions, "Is this viable?")

	for _, want := range []string{
		"Initial Investment (P): $50.00M",
		"Life of Mine (n): 10 years",
		"Annual Revenue (A): $12.00M",
		"Discount Rate (i): 10%",
		"NPV: $-13.49M",
		`"Is this viable?"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("ChatPrompt() missing %q in:\n%s", want, prompt)
		}
	}
}

func TestFormulaPrompt(t *testing.T) {
	chain, _ := lab.NewFormulaChain("A/F", "P/A")
	prompt := FormulaPrompt(chain.String())
	if !strings.Contains(prompt, "A/F into P/A") {
		t.Errorf("FormulaPrompt() = %q", prompt)
	}
}

func TestComparisonPrompts(t *testing.T) {
	a, b := lab.DefaultProjects()

	verdict := VerdictPrompt(a, b)
	if !strings.Contains(verdict, "Project A: Investment $50M, Revenue $12M, Life 10 yrs.") {
		t.Errorf("VerdictPrompt() missing project A line:\n%s", verdict)
	}
	if !strings.Contains(verdict, "Project B: Investment $80M, Revenue $18M, Life 12 yrs.") {
		t.Errorf("VerdictPrompt() missing project B line:\n%s", verdict)
	}

	profile := ProfilePrompt(a, b, []float64{0, 2, 4})
	if !strings.Contains(profile, "0%, 2%, 4%") {
		t.Errorf("ProfilePrompt() missing rates:\n%s", profile)
	}
	if !strings.Contains(profile, "4 decimal places") || !strings.Contains(profile, "scientific notation") {
		t.Errorf("ProfilePrompt() missing output rules:\n%s", profile)
	}
}
