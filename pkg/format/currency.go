// Package format renders computed values for display. Nothing here changes the
// values themselves.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/mine-npv/pkg/constants"
	"github.com/iwvelando/mine-npv/pkg/mathutil"
)

// Unit is the magnitude suffix used by the short currency format.
type Unit string

const (
	Thousands Unit = constants.UnitThousands
	Millions  Unit = constants.UnitMillions
	Billions  Unit = constants.UnitBillions
)

// ParseUnit accepts a suffix ("k"), a symbol ("$k") or a label ("thousands").
// An empty string selects millions.
func ParseUnit(s string) (Unit, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "$")
	switch strings.ToLower(trimmed) {
	case "":
		return Millions, nil
	case "k", "thousand", "thousands":
		return Thousands, nil
	case "m", "million", "millions":
		return Millions, nil
	case "b", "billion", "billions":
		return Billions, nil
	}
	return "", fmt.Errorf("unsupported unit %q, expected one of k, M, B", s)
}

// Label returns the long name of the unit.
func (u Unit) Label() string {
	switch u {
	case Thousands:
		return "Thousands"
	case Billions:
		return "Billions"
	default:
		return "Millions"
	}
}

// Symbol returns the unit with its currency sign, e.g. "$M".
func (u Unit) Symbol() string {
	return "$" + string(u.orDefault())
}

func (u Unit) orDefault() Unit {
	if u == "" {
		return Millions
	}
	return u
}

// Short renders "$" + value with two decimals + unit suffix, without digit
// grouping, e.g. "$15.00M" or "$-13.49M".
func Short(value float64, unit Unit) string {
	return ShortPrecise(value, unit, constants.DisplayPrecision)
}

// ShortPrecise is Short with an explicit number of decimals.
func ShortPrecise(value float64, unit Unit, decimals int) string {
	return "$" + Fixed(value, decimals) + string(unit.orDefault())
}

// Fixed renders value with the given number of decimals. Non-finite values are
// spelled out.
func Fixed(value float64, decimals int) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	case value == 0:
		value = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

// Ratio renders a benefit-cost ratio as "0.73x".
func Ratio(ratio float64) string {
	return RatioPlain(ratio) + "x"
}

// RatioPlain renders a benefit-cost ratio with two decimals.
func RatioPlain(ratio float64) string {
	return Fixed(ratio, constants.DisplayPrecision)
}

// Full renders a value expressed in millions as whole grouped currency, e.g.
// 1.5 becomes "$1,500,000.00".
func Full(millions float64) string {
	return Currency(millions * constants.MillionsMultiplier)
}

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return Fixed(amount, constants.DisplayPrecision)
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
