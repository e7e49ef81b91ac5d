// Package constants provides shared constants for the erp-engines application.
package constants

// DateLayout is the format expected for dates in workbook files and is also the
// output date format.
const DateLayout = "2006-01-02"

// Numeric constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyDecimals is the number of decimals kept on monetary fields
	CurrencyDecimals = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Pricing constants
const (
	// ThinMarginPercent is the realized margin below which a price is flagged
	ThinMarginPercent = 5.0

	// PsychologicalEnding99 is the default psychological price ending
	PsychologicalEnding99 = "99"

	// PsychologicalEnding95 is the alternate psychological price ending
	PsychologicalEnding95 = "95"
)

// Replenishment constants
const (
	// DefaultZFactor is the Z value for a 95% service level and the fallback for
	// unmapped service levels
	DefaultZFactor = 1.65

	// DefaultServiceLevel is the service level the fallback Z value stands for
	DefaultServiceLevel = 95.0

	// StockoutHorizonDays bounds how far ahead a stockout date is projected
	StockoutHorizonDays = 90

	// MediumUrgencySlackDays is added to the lead time when grading medium urgency
	MediumUrgencySlackDays = 2
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default workbook file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example workbook file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
