package forecast

import (
	"context"
	"math"
	"sort"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/google/uuid"
)

// Options tunes what the engine reads, never how it scores.
type Options struct {
	// LookbackDays is the history window for ForecastDemand.
	LookbackDays int
	// StockoutScanMaxStock restricts GetStockoutRisks to products with stock
	// below it. Zero scans every active product.
	StockoutScanMaxStock int
	// StockoutThresholdDays is the runway counted as a risk in
	// GetInventoryHealth.
	StockoutThresholdDays int
}

// DefaultOptions returns the reference lookback with no stock pre-filter.
func DefaultOptions() Options {
	return Options{
		LookbackDays:          ForecastLookbackDays,
		StockoutThresholdDays: DefaultStockoutThresholdDays,
	}
}

// Engine computes demand forecasts, stockout risks and reorder
// recommendations. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	repo repository.SalesHistoryRepository
	opts Options
}

func NewEngine(repo repository.SalesHistoryRepository, opts Options) *Engine {
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = ForecastLookbackDays
	}
	if opts.StockoutScanMaxStock < 0 {
		opts.StockoutScanMaxStock = 0
	}
	if opts.StockoutThresholdDays <= 0 {
		opts.StockoutThresholdDays = DefaultStockoutThresholdDays
	}
	return &Engine{repo: repo, opts: opts}
}

// ForecastDemand returns nil, nil when the product does not exist.
func (e *Engine) ForecastDemand(ctx context.Context, tenantID, productID uuid.UUID, forecastDays int) (*domain.ForecastResult, error) {
	product, err := e.repo.GetProductSnapshot(ctx, tenantID, productID)
	if err != nil {
		return nil, domain.NewDataAccessError("get product snapshot", err)
	}
	if product == nil {
		return nil, nil
	}

	series, err := e.repo.GetDailySales(ctx, tenantID, productID, e.opts.LookbackDays)
	if err != nil {
		return nil, domain.NewDataAccessError("get daily sales", err)
	}

	result := Calculate(*product, series, forecastDays)
	return &result, nil
}

// GetStockoutRisks lists products whose runway is at most daysThreshold
// days, most urgent first. Two reads regardless of catalog size.
func (e *Engine) GetStockoutRisks(ctx context.Context, tenantID uuid.UUID, daysThreshold int) ([]domain.StockoutRisk, error) {
	filter := domain.ProductScanFilter{MaxStock: e.opts.StockoutScanMaxStock}
	products, velocities, err := e.loadVelocities(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return assessStockoutRisks(products, velocities, daysThreshold), nil
}

// GetReorderRecommendations lists products below their reorder point or
// low stock threshold, urgent first. Two reads regardless of catalog size.
func (e *Engine) GetReorderRecommendations(ctx context.Context, tenantID uuid.UUID) ([]domain.ReorderRecommendation, error) {
	products, velocities, err := e.loadVelocities(ctx, tenantID, domain.ProductScanFilter{})
	if err != nil {
		return nil, err
	}
	return buildReorderRecommendations(products, velocities), nil
}

// GetInventoryHealth aggregates stock counts and the stockout/reorder counts
// from a single product listing and a single sales read.
func (e *Engine) GetInventoryHealth(ctx context.Context, tenantID uuid.UUID) (*domain.InventoryHealth, error) {
	products, velocities, err := e.loadVelocities(ctx, tenantID, domain.ProductScanFilter{})
	if err != nil {
		return nil, err
	}

	health := &domain.InventoryHealth{TotalProducts: len(products)}
	for _, p := range products {
		switch {
		case p.CurrentStock <= 0:
			health.OutOfStock++
		case p.HasLowStockThreshold() && p.CurrentStock <= p.LowStockThreshold:
			health.LowStock++
		default:
			health.InStock++
		}
		health.TotalInventoryValue += int64(max(0, p.CurrentStock)) * p.CostPrice
	}

	riskCandidates := products
	if e.opts.StockoutScanMaxStock > 0 {
		riskCandidates = applyScanFilter(products, domain.ProductScanFilter{MaxStock: e.opts.StockoutScanMaxStock})
	}
	health.StockoutRiskCount = len(assessStockoutRisks(riskCandidates, velocities, e.opts.StockoutThresholdDays))
	health.ReorderNeededCount = len(buildReorderRecommendations(products, velocities))

	return health, nil
}

// loadVelocities lists the candidate products and their 30 day average daily
// sales. Products without recorded sales are missing from the map.
func (e *Engine) loadVelocities(ctx context.Context, tenantID uuid.UUID, filter domain.ProductScanFilter) ([]domain.ProductSnapshot, map[uuid.UUID]float64, error) {
	products, err := e.repo.ListActiveProducts(ctx, tenantID, filter)
	if err != nil {
		return nil, nil, domain.NewDataAccessError("list active products", err)
	}
	if len(products) == 0 {
		return products, map[uuid.UUID]float64{}, nil
	}

	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	sales, err := e.repo.GetDailySalesBatch(ctx, tenantID, ids, VelocityWindowDays)
	if err != nil {
		return nil, nil, domain.NewDataAccessError("get daily sales batch", err)
	}

	velocities := make(map[uuid.UUID]float64, len(sales))
	for id, series := range sales {
		velocities[id] = movingAverage(quantities(series), VelocityWindowDays)
	}
	return products, velocities, nil
}

func applyScanFilter(products []domain.ProductSnapshot, filter domain.ProductScanFilter) []domain.ProductSnapshot {
	if filter.MaxStock <= 0 {
		return products
	}
	out := make([]domain.ProductSnapshot, 0, len(products))
	for _, p := range products {
		if p.CurrentStock < filter.MaxStock {
			out = append(out, p)
		}
	}
	return out
}

func assessStockoutRisks(products []domain.ProductSnapshot, velocities map[uuid.UUID]float64, daysThreshold int) []domain.StockoutRisk {
	risks := make([]domain.StockoutRisk, 0)
	for _, p := range products {
		velocity := velocities[p.ID]
		if velocity <= 0 {
			continue
		}

		days := daysUntilStockout(p.CurrentStock, velocity)
		if days > daysThreshold {
			continue
		}

		level, action := classifyStockoutRisk(days)
		risks = append(risks, domain.StockoutRisk{
			ProductID:         p.ID,
			ProductName:       p.Name,
			SKU:               p.SKU,
			CurrentStock:      p.CurrentStock,
			DailyAvgSales:     roundFloat(velocity, 2),
			DaysUntilStockout: days,
			RiskLevel:         level,
			RecommendedAction: action,
		})
	}

	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].DaysUntilStockout < risks[j].DaysUntilStockout
	})
	return risks
}

func buildReorderRecommendations(products []domain.ProductSnapshot, velocities map[uuid.UUID]float64) []domain.ReorderRecommendation {
	recs := make([]domain.ReorderRecommendation, 0)
	for _, p := range products {
		velocity := velocities[p.ID]
		if velocity <= 0 {
			continue
		}

		reorderPoint := int(math.Ceil(velocity * (LeadTimeDays + SafetyStockDays)))
		belowThreshold := p.HasLowStockThreshold() && p.CurrentStock < p.LowStockThreshold
		if p.CurrentStock >= reorderPoint && !belowThreshold {
			continue
		}

		targetStock := int(math.Ceil(velocity * TargetCoverDays))
		qty := max(0, targetStock-p.CurrentStock)
		priority, reason := classifyReorder(daysUntilStockout(p.CurrentStock, velocity), belowThreshold)

		recs = append(recs, domain.ReorderRecommendation{
			ProductID:           p.ID,
			ProductName:         p.Name,
			SKU:                 p.SKU,
			CurrentStock:        p.CurrentStock,
			ReorderPoint:        reorderPoint,
			RecommendedQuantity: qty,
			EstimatedCost:       int64(qty) * p.CostPrice,
			Priority:            priority,
			Reason:              reason,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
	return recs
}
