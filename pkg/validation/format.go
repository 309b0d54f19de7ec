// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/mine-npv/pkg/constants"
	"github.com/iwvelando/mine-npv/pkg/format"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateUnit checks that a display unit is recognized and returns it normalized.
func ValidateUnit(unit string) (format.Unit, error) {
	u, err := format.ParseUnit(unit)
	if err != nil {
		return "", fmt.Errorf("invalid display unit: %w", err)
	}
	return u, nil
}

// ValidateAdvisorProvider checks the configured generative provider name.
func ValidateAdvisorProvider(provider string) error {
	switch provider {
	case "", constants.AdvisorProviderNone, constants.AdvisorProviderGemini, constants.AdvisorProviderOpenAI:
		return nil
	}
	return fmt.Errorf("expected advisor provider of %s, %s or %s, got %s",
		constants.AdvisorProviderNone, constants.AdvisorProviderGemini, constants.AdvisorProviderOpenAI, provider)
}
