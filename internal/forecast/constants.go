package forecast

// Heuristic parameters. Tests and downstream dashboards depend on these exact
// values; change them only together with the product requirements.
const (
	SmoothingAlpha = 0.3

	LeadTimeDays    = 7
	SafetyStockDays = 3

	// ForecastLookbackDays is the history window read for a single forecast.
	ForecastLookbackDays = 90
	// VelocityWindowDays is the window the scanning reports average over.
	VelocityWindowDays = 30
	// TargetCoverDays is the supply a reorder should restore.
	TargetCoverDays = 30

	ShortWindowDays = 7
	LongWindowDays  = 30

	IncreasingTrendRatio = 1.2
	DecreasingTrendRatio = 0.8

	// NoVelocitySentinel is reported as days until stockout when the average
	// daily velocity is exactly zero.
	NoVelocitySentinel = 999

	DefaultForecastDays     = 30
	FallbackReorderQuantity = 10

	// Stockout risk bands, in days until stockout.
	CriticalRiskDays = 2
	HighRiskDays     = 5
	MediumRiskDays   = 7

	// Reorder priority bands, in days until stockout.
	UrgentReorderDays = 3
	HighReorderDays   = 7

	DefaultStockoutThresholdDays = 7
)
