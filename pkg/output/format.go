// Package output provides utilities for formatting and displaying valuation results.
package output

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mine-npv/internal/lab"
	"github.com/iwvelando/mine-npv/internal/valuation"
	"github.com/iwvelando/mine-npv/pkg/constants"
	"github.com/iwvelando/mine-npv/pkg/dcf"
	"github.com/iwvelando/mine-npv/pkg/format"
	"github.com/iwvelando/mine-npv/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []valuation.Valuation, unit format.Unit) {
	p := message.NewPrinter(language.English)
	for _, result := range results {
		fmt.Printf("--- Results for project %s (%s, %s in %s) ---\n", result.Name, result.Kind, unit.Symbol(), unit.Label())
		fmt.Printf("NPV: %s (%s) %s\n", format.Short(result.NPV, unit), fullAmount(p, result.NPV), verdictLabel(result))
		fmt.Printf("B/C ratio: %s | PV inflows: %s | PV outflows: %s\n",
			RatioLabel(result.BCRatio, result.RatioKind),
			format.Short(result.PVInflows, unit),
			format.Short(result.PVOutflows, unit))
		fmt.Printf("Year | Cash Flow | Discounted | Cumulative NPV\n")
		fmt.Printf("____ | _________ | __________ | ______________\n")
		for _, rec := range result.CashFlows {
			fmt.Printf("%-4d | %s | %s | %s\n", rec.Year,
				format.Short(rec.CashFlow, unit),
				format.Short(rec.DiscountedCashFlow, unit),
				format.Short(rec.CumulativeNPV, unit))
		}
		if len(result.Notes) > 0 {
			fmt.Printf("Notes: %s\n", strings.Join(result.Notes, ", "))
		}
		if len(results) > 1 {
			fmt.Printf("\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []valuation.Valuation) {
	fmt.Print(CsvString(results))
}

// CsvString renders one row per project year with unrounded amounts.
func CsvString(results []valuation.Valuation) string {
	var b strings.Builder
	b.WriteString(`"project","kind","year","cashFlow","discountedCashFlow","cumulativeNPV"`)
	b.WriteString("\n")
	for _, result := range results {
		for _, rec := range result.CashFlows {
			fmt.Fprintf(&b, `"%s","%s","%d","%s","%s","%s"`,
				strings.ReplaceAll(result.Name, `"`, `""`), result.Kind, rec.Year,
				format.Fixed(rec.CashFlow, constants.HighPrecision),
				format.Fixed(rec.DiscountedCashFlow, constants.HighPrecision),
				format.Fixed(rec.CumulativeNPV, constants.HighPrecision))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ProfileFormat outputs an NPV profile for two projects.
func ProfileFormat(a, b lab.Project, points []lab.ProfilePoint, unit format.Unit) {
	fmt.Printf("--- NPV profile: %s vs %s (%s in %s) ---\n", a.Name, b.Name, unit.Symbol(), unit.Label())
	fmt.Printf("Rate   | %-12s | %-12s\n", a.Name, b.Name)
	fmt.Printf("______ | ____________ | ____________\n")
	for _, point := range points {
		fmt.Printf("%5.1f%% | %-12s | %-12s\n", point.Rate,
			format.ShortPrecise(point.NPVA, unit, constants.ProfilePrecision),
			format.ShortPrecise(point.NPVB, unit, constants.ProfilePrecision))
	}
	if bracket, ok := lab.SwitchBracket(points); ok {
		fmt.Printf("Preference switches between %.1f%% and %.1f%%\n", bracket[0], bracket[1])
	}
}

// RatioLabel renders a benefit-cost ratio with its classification.
func RatioLabel(ratio float64, kind dcf.RatioKind) string {
	switch kind {
	case dcf.RatioInfinite:
		return format.Ratio(ratio) + " (no outflows)"
	case dcf.RatioUndefined:
		return "n/a"
	default:
		return format.Ratio(ratio)
	}
}

func verdictLabel(v valuation.Valuation) string {
	if v.Profitable() {
		return "profitable"
	}
	return "unprofitable"
}

func fullAmount(p *message.Printer, millions float64) string {
	amount := millions * constants.MillionsMultiplier
	if !mathutil.IsFinite(amount) {
		return format.Fixed(amount, constants.DisplayPrecision)
	}
	return p.Sprintf("$%.2f", amount)
}
