package forecast

import (
	"fmt"
	"math"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// Calculate derives a demand forecast from a product snapshot and its daily
// sales series (oldest first). It performs no I/O.
func Calculate(product domain.ProductSnapshot, series []domain.DailySalesPoint, forecastDays int) domain.ForecastResult {
	if forecastDays <= 0 {
		forecastDays = DefaultForecastDays
	}

	result := domain.ForecastResult{
		ProductID:         product.ID,
		ProductName:       product.Name,
		SKU:               product.SKU,
		CurrentStock:      product.CurrentStock,
		ForecastDays:      forecastDays,
		Trend:             domain.TrendStable,
		SeasonalityFactor: 1.0,
	}

	// No history: zero forecast, reorder up to the configured threshold.
	if len(series) == 0 {
		result.RecommendedOrderQuantity = FallbackReorderQuantity
		if product.HasLowStockThreshold() {
			result.RecommendedOrderQuantity = product.LowStockThreshold
		}
		result.DaysUntilStockout = NoVelocitySentinel
		return result
	}

	values := quantities(series)

	// 1. Moving averages and smoothed level
	avgLong := movingAverage(values, LongWindowDays)
	avgShort := movingAverage(values, ShortWindowDays)
	smoothed := exponentialSmoothing(values, SmoothingAlpha)

	// 2. Trend and seasonality from the short/long ratio
	result.Trend = classifyTrend(avgShort, avgLong)
	seasonality := 1.0
	if avgLong > 0 {
		seasonality = avgShort / avgLong
	}
	result.SeasonalityFactor = roundFloat(seasonality, 2)
	result.AverageDailySales = roundFloat(avgLong, 2)

	// 3. Forecast demand over the horizon
	result.ForecastDemand = int(math.Ceil(math.Max(0, smoothed*seasonality*float64(forecastDays))))

	// 4. Runway
	result.DaysUntilStockout = daysUntilStockout(product.CurrentStock, avgLong)

	// 5. Safety stock = (peak day - average day) × lead time
	safetyStock := (maxValue(values) - avgLong) * LeadTimeDays
	result.SafetyStock = int(math.Ceil(math.Max(0, safetyStock)))

	// 6. Reorder point = average day × lead time
	result.ReorderPoint = int(math.Ceil(math.Max(0, avgLong*LeadTimeDays)))

	// 7. Order enough to get back above reorder point + safety stock
	orderQty := result.ReorderPoint + result.SafetyStock - product.CurrentStock
	result.RecommendedOrderQuantity = max(0, orderQty)

	// 8. Confidence falls as the coefficient of variation rises
	result.Confidence = confidence(values, avgLong)

	return result
}

func classifyTrend(avgShort, avgLong float64) domain.Trend {
	if avgLong <= 0 {
		return domain.TrendStable
	}
	switch {
	case avgShort > IncreasingTrendRatio*avgLong:
		return domain.TrendIncreasing
	case avgShort < DecreasingTrendRatio*avgLong:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// daysUntilStockout is floor(stock / velocity), the sentinel for zero
// velocity, and never negative.
func daysUntilStockout(stock int, velocity float64) int {
	if velocity <= 0 {
		return NoVelocitySentinel
	}
	days := math.Floor(float64(stock) / velocity)
	if days < 0 {
		return 0
	}
	return int(days)
}

func confidence(values []float64, avgLong float64) int {
	if avgLong <= 0 {
		return 0
	}
	cv := populationStdDev(values) / avgLong
	return int(math.Round(clamp(1-cv, 0, 1) * 100))
}

// classifyStockoutRisk maps days until stockout to a risk band and the
// action shown next to it.
func classifyStockoutRisk(days int) (domain.RiskLevel, string) {
	switch {
	case days <= CriticalRiskDays:
		return domain.RiskCritical, "Order immediately - expedite shipping"
	case days <= HighRiskDays:
		return domain.RiskHigh, "Order within 24 hours"
	case days <= MediumRiskDays:
		return domain.RiskMedium, "Plan a reorder this week"
	default:
		return domain.RiskLow, "Monitor stock levels"
	}
}

// classifyReorder never yields PriorityLow: anything past the high band is
// medium, with the reason naming which trigger fired.
func classifyReorder(days int, belowThreshold bool) (domain.ReorderPriority, string) {
	switch {
	case days <= UrgentReorderDays:
		return domain.PriorityUrgent, fmt.Sprintf("Critical: only %d days of stock remaining", days)
	case days <= HighReorderDays:
		return domain.PriorityHigh, fmt.Sprintf("Low stock: %d days of stock remaining", days)
	case belowThreshold:
		return domain.PriorityMedium, "Below low stock threshold"
	default:
		return domain.PriorityMedium, "Below reorder point"
	}
}
