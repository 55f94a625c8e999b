// Package currency defines the supported currencies and the directed
// exchange-rate table used for valuation conversion.
package currency

import (
	"github.com/seyeddanesh/startupcapmodel/pkg/mathutil"
)

// Code identifies a supported currency.
type Code string

const (
	USD Code = "USD"
	GBP Code = "GBP"
	EUR Code = "EUR"
)

// Codes lists every supported currency.
var Codes = []Code{USD, GBP, EUR}

// IsValid reports whether c is a supported currency code.
func (c Code) IsValid() bool {
	switch c {
	case USD, GBP, EUR:
		return true
	}
	return false
}

// Symbol returns the display symbol for the currency.
func (c Code) Symbol() string {
	switch c {
	case GBP:
		return "£"
	case EUR:
		return "€"
	default:
		return "$"
	}
}

// Pair is a directed currency conversion.
type Pair struct {
	From Code
	To   Code
}

// RateTable holds the six directed rates among the supported currencies.
// Primary rates (USD→GBP, USD→EUR) are stored at full precision; the four
// derived rates are rounded to four decimals.
type RateTable map[Pair]float64

// DeriveTable builds the full directed rate table from the two primary
// rates. Non-positive primaries yield zero derived rates rather than
// division blowups.
func DeriveTable(usdToGBP, usdToEUR float64) RateTable {
	table := RateTable{
		{USD, GBP}: usdToGBP,
		{USD, EUR}: usdToEUR,
	}

	var gbpToUSD, eurToUSD, gbpToEUR, eurToGBP float64
	if usdToGBP > 0 {
		gbpToUSD = 1 / usdToGBP
		gbpToEUR = usdToEUR / usdToGBP
	}
	if usdToEUR > 0 {
		eurToUSD = 1 / usdToEUR
		eurToGBP = usdToGBP / usdToEUR
	}

	table[Pair{GBP, USD}] = mathutil.RoundRate(gbpToUSD)
	table[Pair{EUR, USD}] = mathutil.RoundRate(eurToUSD)
	table[Pair{GBP, EUR}] = mathutil.RoundRate(gbpToEUR)
	table[Pair{EUR, GBP}] = mathutil.RoundRate(eurToGBP)

	return table
}

// Convert converts amount from one currency to another using the table.
// Identity conversions and missing or non-positive rates fall through to a
// rate of 1 so a gap in the table never fails the pipeline.
func Convert(amount float64, from, to Code, table RateTable) float64 {
	if from == to {
		return amount
	}
	rate, ok := table[Pair{from, to}]
	if !ok || rate <= 0 {
		return amount
	}
	return amount * rate
}
