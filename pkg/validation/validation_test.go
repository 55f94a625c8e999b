package validation

import "testing"

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format      string
		expectError bool
	}{
		{"pretty", false},
		{"csv", false},
		{"json", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateOutputFormat(tt.format)
		if tt.expectError && err == nil {
			t.Errorf("ValidateOutputFormat(%q) expected error but got none", tt.format)
		}
		if !tt.expectError && err != nil {
			t.Errorf("ValidateOutputFormat(%q) error = %v", tt.format, err)
		}
	}
}

func TestValidateCurrencyCode(t *testing.T) {
	for _, code := range []string{"USD", "GBP", "EUR"} {
		if err := ValidateCurrencyCode(code); err != nil {
			t.Errorf("ValidateCurrencyCode(%q) error = %v", code, err)
		}
	}
	for _, code := range []string{"usd", "CHF", ""} {
		if err := ValidateCurrencyCode(code); err == nil {
			t.Errorf("ValidateCurrencyCode(%q) expected error but got none", code)
		}
	}
}

func TestValidatePercentage(t *testing.T) {
	for _, pct := range []float64{0, 50, 100} {
		if err := ValidatePercentage(pct); err != nil {
			t.Errorf("ValidatePercentage(%v) error = %v", pct, err)
		}
	}
	for _, pct := range []float64{-0.1, 100.1} {
		if err := ValidatePercentage(pct); err == nil {
			t.Errorf("ValidatePercentage(%v) expected error but got none", pct)
		}
	}
}

func TestValidateNonNegative(t *testing.T) {
	if err := ValidateNonNegative("investmentAmount", 0); err != nil {
		t.Errorf("ValidateNonNegative(0) error = %v", err)
	}
	if err := ValidateNonNegative("investmentAmount", -1); err == nil {
		t.Error("ValidateNonNegative(-1) expected error but got none")
	}
}
