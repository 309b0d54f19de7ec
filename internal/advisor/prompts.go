package advisor

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mine-npv/internal/lab"
	"github.com/iwvelando/mine-npv/pkg/dcf"
	"github.com/iwvelando/mine-npv/pkg/format"
)

// ChatPrompt frames a user question with the current annuity inputs and NPV.
func ChatPrompt(in dcf.ProjectInputs, npv float64, unit format.Unit, question string) string {
	var b strings.Builder
	b.WriteString("You are a senior mine finance analyst.\n")
	b.WriteString("Context: the user is analyzing a mining project with the following parameters:\n")
	fmt.Fprintf(&b, "- Initial Investment (P): %s\n", format.Short(in.InitialInvestment.Float(), unit))
	fmt.Fprintf(&b, "- Life of Mine (n): %v years\n", in.LifeOfMine.Float())
	fmt.Fprintf(&b, "- Annual Revenue (A): %s\n", format.Short(in.AnnualCashFlow.Float(), unit))
	fmt.Fprintf(&b, "- Discount Rate (i): %v%%\n", in.DiscountRate.Float())
	b.WriteString("\nCalculated results:\n")
	fmt.Fprintf(&b, "- NPV: %s\n", format.Short(npv, unit))
	fmt.Fprintf(&b, "\nUser question: %q\n\n", question)
	b.WriteString("Give a concise, professional financial answer. If the NPV is negative, explain the implications; if positive, highlight the value. Use LaTeX for math only where needed.")
	return b.String()
}

// FormulaPrompt asks for a single formula combining the chained factors.
func FormulaPrompt(chain string) string {
	return fmt.Sprintf("The user has chained %s. Synthesize these interest factors into one cohesive LaTeX formula, define the resulting relationship, and explain which financial conversion it represents.", chain)
}

// VerdictPrompt asks for an incremental analysis of two annuity projects.
func VerdictPrompt(a, b lab.Project) string {
	return fmt.Sprintf(`Perform incremental analysis for two projects:
%s: Investment $%vM, Revenue $%vM, Life %v yrs.
%s: Investment $%vM, Revenue $%vM, Life %v yrs.

Calculate the incremental IRR and the crossover rate (where NPV_A = NPV_B).
Return a verdict explaining which project is safer and which is more profitable.
Use Markdown for formatting.`,
		a.Name, a.Investment.Float(), a.Revenue.Float(), a.Life.Float(),
		b.Name, b.Investment.Float(), b.Revenue.Float(), b.Life.Float())
}

// ProfilePrompt asks for NPV values of both projects over the given rates.
func ProfilePrompt(a, b lab.Project, rates []float64) string {
	labels := make([]string, len(rates))
	for i, r := range rates {
		labels[i] = fmt.Sprintf("%v%%", r)
	}
	return fmt.Sprintf(`For Project A (Inv %v, Rev %v, Life %v) and Project B (Inv %v, Rev %v, Life %v):
Provide a JSON array of NPV values for Project A and Project B at discount rates %s.
Output rules:
1. Round all NPV values to exactly 4 decimal places.
2. Do not use scientific notation.
3. Output plain floating point numbers only.

Use this schema: { rate: number, npvA: number, npvB: number }.`,
		a.Investment.Float(), a.Revenue.Float(), a.Life.Float(),
		b.Investment.Float(), b.Revenue.Float(), b.Life.Float(),
		strings.Join(labels, ", "))
}
