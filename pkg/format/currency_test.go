package format

import (
	"math"
	"testing"
)

func TestShort(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		unit     Unit
		expected string
	}{
		{"Millions", 15, Millions, "$15.00M"},
		{"Default unit", 15, "", "$15.00M"},
		{"Thousands", 400, Thousands, "$400.00k"},
		{"Billions", 1.234, Billions, "$1.23B"},
		{"Negative keeps sign after dollar", -13.4861, Millions, "$-13.49M"},
		{"No grouping", 1234567.891, Millions, "$1234567.89M"},
		{"Infinity", math.Inf(1), Millions, "$InfinityM"},
		{"NaN", math.NaN(), Millions, "$NaNM"},
		{"Negative zero", math.Copysign(0, -1), Millions, "$0.00M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Short(tt.value, tt.unit); got != tt.expected {
				t.Errorf("Short(%v, %q) = %s, expected %s", tt.value, tt.unit, got, tt.expected)
			}
		})
	}
}

func TestShortPrecise(t *testing.T) {
	if got := ShortPrecise(-13.48610072, Millions, 6); got != "$-13.486101M" {
		t.Errorf("ShortPrecise() = %s, expected $-13.486101M", got)
	}
	if got := ShortPrecise(9.0909, Thousands, 0); got != "$9k" {
		t.Errorf("ShortPrecise() = %s, expected $9k", got)
	}
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		input    string
		expected Unit
		wantErr  bool
	}{
		{"", Millions, false},
		{"k", Thousands, false},
		{"$k", Thousands, false},
		{"Thousands", Thousands, false},
		{"M", Millions, false},
		{"$B", Billions, false},
		{"billions", Billions, false},
		{"T", "", true},
	}

	for _, tt := range tests {
		got, err := ParseUnit(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUnit(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseUnit(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestUnitLabels(t *testing.T) {
	if Thousands.Symbol() != "$k" || Unit("").Symbol() != "$M" {
		t.Errorf("unexpected unit symbols")
	}
	if Billions.Label() != "Billions" || Millions.Label() != "Millions" {
		t.Errorf("unexpected unit labels")
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(0.730278); got != "0.73x" {
		t.Errorf("Ratio() = %s, expected 0.73x", got)
	}
	if got := RatioPlain(9999); got != "9999.00" {
		t.Errorf("RatioPlain() = %s, expected 9999.00", got)
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "$0.00"},
		{999.5, "$999.50"},
		{1234.567, "$1,234.57"},
		{-1234567.1, "-$1,234,567.10"},
		{math.Inf(-1), "-Infinity"},
	}

	for _, tt := range tests {
		if got := Currency(tt.value); got != tt.expected {
			t.Errorf("Currency(%v) = %s, expected %s", tt.value, got, tt.expected)
		}
	}
}

func TestFull(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{1.5, "$1,500,000.00"},
		{-50, "-$50,000,000.00"},
		{0.000001, "$1.00"},
	}

	for _, tt := range tests {
		if got := Full(tt.value); got != tt.expected {
			t.Errorf("Full(%v) = %s, expected %s", tt.value, got, tt.expected)
		}
	}
}
