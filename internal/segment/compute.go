package segment

import "github.com/covatech/replengo/internal/domain"

// Compute evaluates the full derived record for one article: velocity,
// coverage, segment, suggested quantity and diagnostics. It is the single
// entry point every execution surface shares.
func Compute(a *domain.Article, metrics domain.TrendMetrics, params domain.SupplierParams) domain.ComputedArticle {
	avgDaily := AvgDailySales(a.SalesLast4M, a.SalesLast360D)
	totalStock := a.TotalStock()

	qty := SuggestedQty(ReorderInputs{
		SalesLast4M:   a.SalesLast4M,
		SalesLast360D: a.SalesLast360D,
		TotalStock:    totalStock,
		Family:        a.Family(),
		DimensionCoef: domain.DimensionCoefficient(a.Dimension()),
		Params:        params,
		Seasonality:   metrics.SeasonalityIndex,
		IsRisingStar:  metrics.IsRisingStar,
		Volatility:    metrics.Volatility,
		YoYGrowth:     metrics.YoYGrowth,
		Trend:         metrics.Trend,
	})

	return domain.ComputedArticle{
		Code:            a.Code,
		Name:            a.Name,
		Supplier:        a.Supplier,
		AvgDailySales:   avgDaily,
		DaysOfCoverage:  DaysOfCoverage(totalStock, avgDaily),
		Segment:         Classify(totalStock, avgDaily, params),
		SuggestedQty:    qty,
		SellOutVelocity: SellOutVelocity(a.SalesLast4M, a.SalesLast360D),
		SalesLast3M:     a.SalesLast3M,
		StockValue:      a.StockValue(),
		TrendMetrics:    metrics,
	}
}
