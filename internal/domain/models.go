// internal/domain/models.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProductSnapshot is the read-only view of a product the engines work with.
// CurrentStock is the sum over all locations.
type ProductSnapshot struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	SKU               string    `json:"sku" db:"sku"`
	CostPrice         int64     `json:"cost_price" db:"cost_price"`
	LowStockThreshold int       `json:"low_stock_threshold" db:"low_stock_threshold"`
	CurrentStock      int       `json:"current_stock" db:"current_stock"`
}

// HasLowStockThreshold reports whether the product has a usable threshold.
func (p ProductSnapshot) HasLowStockThreshold() bool {
	return p.LowStockThreshold > 0
}

// DailySalesPoint is one day's aggregate quantity sold for a product
type DailySalesPoint struct {
	Date         time.Time `json:"date" db:"sale_date"`
	QuantitySold int       `json:"quantity_sold" db:"quantity_sold"`
}

// ProductDailySales is a DailySalesPoint tagged with its product, as returned
// by the batched sales query.
type ProductDailySales struct {
	ProductID uuid.UUID `db:"product_id"`
	DailySalesPoint
}

// ProductScanFilter narrows the set of active products a scan looks at.
type ProductScanFilter struct {
	// MaxStock keeps only products with current stock strictly below it.
	// Zero disables the filter.
	MaxStock int
}

// ForecastResult is the output of demand forecasting for one product
type ForecastResult struct {
	ProductID                uuid.UUID `json:"product_id"`
	ProductName              string    `json:"product_name"`
	SKU                      string    `json:"sku"`
	CurrentStock             int       `json:"current_stock"`
	ForecastDays             int       `json:"forecast_days"`
	ForecastDemand           int       `json:"forecast_demand"`
	RecommendedOrderQuantity int       `json:"recommended_order_quantity"`
	DaysUntilStockout        int       `json:"days_until_stockout"`
	Confidence               int       `json:"confidence"`
	Trend                    Trend     `json:"trend"`
	SeasonalityFactor        float64   `json:"seasonality_factor"`
	AverageDailySales        float64   `json:"average_daily_sales"`
	ReorderPoint             int       `json:"reorder_point"`
	SafetyStock              int       `json:"safety_stock"`
}

// StockoutThresholdUnset asks for the configured days-until-stockout
// threshold. Zero is a real threshold: products already out of runway.
const StockoutThresholdUnset = -1

// StockoutRisk flags a product likely to run out soon
type StockoutRisk struct {
	ProductID         uuid.UUID `json:"product_id"`
	ProductName       string    `json:"product_name"`
	SKU               string    `json:"sku"`
	CurrentStock      int       `json:"current_stock"`
	DailyAvgSales     float64   `json:"daily_avg_sales"`
	DaysUntilStockout int       `json:"days_until_stockout"`
	RiskLevel         RiskLevel `json:"risk_level"`
	RecommendedAction string    `json:"recommended_action"`
}

// ReorderRecommendation is a suggested purchase action
type ReorderRecommendation struct {
	ProductID           uuid.UUID       `json:"product_id"`
	ProductName         string          `json:"product_name"`
	SKU                 string          `json:"sku"`
	CurrentStock        int             `json:"current_stock"`
	ReorderPoint        int             `json:"reorder_point"`
	RecommendedQuantity int             `json:"recommended_quantity"`
	EstimatedCost       int64           `json:"estimated_cost"`
	Priority            ReorderPriority `json:"priority"`
	Reason              string          `json:"reason"`
}

// InventoryHealth aggregates stock counts for a tenant
type InventoryHealth struct {
	TotalProducts       int   `json:"total_products"`
	InStock             int   `json:"in_stock"`
	LowStock            int   `json:"low_stock"`
	OutOfStock          int   `json:"out_of_stock"`
	TotalInventoryValue int64 `json:"total_inventory_value"`
	StockoutRiskCount   int   `json:"stockout_risk_count"`
	ReorderNeededCount  int   `json:"reorder_needed_count"`
}

// InventoryDashboard bundles the inventory views rendered together
type InventoryDashboard struct {
	Health                 *InventoryHealth        `json:"health"`
	StockoutRisks          []StockoutRisk          `json:"stockout_risks"`
	ReorderRecommendations []ReorderRecommendation `json:"reorder_recommendations"`
}
