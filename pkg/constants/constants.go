// Package constants provides shared constants for the mine-npv application.
package constants

// Financial constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DegenerateRatePercent is the discount rate at which (1+rate) becomes zero
	DegenerateRatePercent = -100.0

	// MaxLifeOfMine bounds the number of yearly records an annuity run may emit
	MaxLifeOfMine = 10000.0

	// BCRatioSentinel stands in for an unbounded benefit-cost ratio, i.e.
	// discounted inflows with no discounted outflows.
	BCRatioSentinel = 9999.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// MillionsMultiplier scales inputs expressed in millions to whole currency units
	MillionsMultiplier = 1_000_000.0
)

// Display precision constants
const (
	// DisplayPrecision is the number of decimals for standard NPV and cash-flow display
	DisplayPrecision = 2

	// HighPrecision is the number of decimals for the copyable NPV value
	HighPrecision = 6

	// ProfilePrecision is the number of decimals kept in NPV profile points
	ProfilePrecision = 4
)

// Unit suffixes for short currency rendering
const (
	UnitThousands = "k"
	UnitMillions  = "M"
	UnitBillions  = "B"

	// DefaultUnit is the unit assumed when none is given
	DefaultUnit = UnitMillions
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
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Advisor defaults
const (
	AdvisorProviderNone   = "none"
	AdvisorProviderGemini = "gemini"
	AdvisorProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-5.1"

	DefaultGeminiAPIKeyEnv = "GEMINI_API_KEY"
	DefaultOpenAIAPIKeyEnv = "OPENAI_API_KEY"

	// DefaultAdvisorTimeoutSeconds bounds a single generative request
	DefaultAdvisorTimeoutSeconds = 60
)
