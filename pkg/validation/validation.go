// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/seyeddanesh/startupcapmodel/pkg/constants"
	"github.com/seyeddanesh/startupcapmodel/pkg/currency"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateCurrencyCode checks that code names a supported currency.
func ValidateCurrencyCode(code string) error {
	if !currency.Code(code).IsValid() {
		return fmt.Errorf("unsupported currency %q, expected one of %v", code, currency.Codes)
	}
	return nil
}

// ValidatePercentage checks that a percentage lies in [0, 100].
func ValidatePercentage(pct float64) error {
	if pct < 0 || pct > constants.PercentageMultiplier {
		return fmt.Errorf("percentage %.2f out of range [0, 100]", pct)
	}
	return nil
}

// ValidateNonNegative checks that an amount is not negative.
func ValidateNonNegative(name string, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("%s must not be negative, got %.2f", name, amount)
	}
	return nil
}
