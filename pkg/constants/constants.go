// Package constants provides shared constants for the startupcapmodel application.
package constants

// Financial constants
const (
	// NominalShareBaseline is the fixed share denominator used to give cap
	// table entries a stable, human-meaningful share count. It is not the
	// company's authorized share count.
	NominalShareBaseline = 1_000_000

	// MaterialityFloorPercent is the ownership percentage at or below which a
	// shareholder is dropped from the cap table.
	MaterialityFloorPercent = 0.01

	// MaxResolutionPasses bounds the valuation resolver's fixed-point
	// iteration over reference rounds.
	MaxResolutionPasses = 10

	// PercentageMultiplier is used for percentage calculations
	PercentageMultiplier = 100

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// RatePrecision is the precision for derived exchange rates (4 decimal places)
	RatePrecision = 10000

	// CurrencyTolerance is the tolerance for currency comparisons
	CurrencyTolerance = 0.01
)

// Exchange rate defaults used when a model file does not set primaries.
const (
	DefaultUSDToGBP = 0.79
	DefaultUSDToEUR = 0.92
)

// Output format constants
const (
	// OutputFormatPretty is the pretty print output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// File and configuration constants
const (
	// DefaultConfigFile is the default model file name
	DefaultConfigFile = "model.yaml"

	// DefaultServerAddress is the default server listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default limit for request bodies (1 MB)
	DefaultMaxBodySizeBytes = 1 << 20
)
