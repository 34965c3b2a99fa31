package domain

// Trend is the hot/cold demand classification of an article.
type Trend string

const (
	TrendHot    Trend = "HOT"
	TrendCold   Trend = "COLD"
	TrendStable Trend = "STABLE"
)

// TrendMetrics holds the per-article trend and seasonality figures produced
// by the estimator. Articles with too little history get the documented
// defaults rather than an error: seasonality 1.0, volatility 1.0, trend
// STABLE, rising star false.
type TrendMetrics struct {
	YoYGrowth          float64 `json:"yoy_growth" db:"yoy_growth"`
	Acceleration       float64 `json:"acceleration" db:"acceleration"`
	Volatility         float64 `json:"volatility" db:"volatility"`
	RepeatRate         float64 `json:"repeat_rate" db:"repeat_rate"`
	AvgOrdersPerClient float64 `json:"avg_orders_per_client" db:"avg_orders_per_client"`
	UniqueClients      int     `json:"unique_clients" db:"unique_clients"`
	PeakMonth          int     `json:"peak_month" db:"peak_month"`
	PeakMonthPct       float64 `json:"peak_month_pct" db:"peak_month_pct"`
	SeasonalityIndex   float64 `json:"seasonality_index" db:"seasonality_index"`
	IsRisingStar       bool    `json:"is_rising_star" db:"is_rising_star"`
	Trend              Trend   `json:"trend" db:"trend"`
}

// DefaultTrendMetrics returns the metrics assigned to an article with no
// usable history.
func DefaultTrendMetrics() TrendMetrics {
	return TrendMetrics{
		Volatility:       1.0,
		SeasonalityIndex: 1.0,
		Trend:            TrendStable,
	}
}

// ComputedArticle is the per-article output record of a replenishment run:
// the urgency segment, the suggested order quantity and the diagnostic
// metrics that explain them.
type ComputedArticle struct {
	Code            string  `json:"code" db:"code"`
	Name            string  `json:"name" db:"name"`
	Supplier        string  `json:"supplier" db:"supplier"`
	AvgDailySales   float64 `json:"avg_daily_sales" db:"avg_daily_sales"`
	DaysOfCoverage  float64 `json:"days_of_coverage" db:"days_of_coverage"`
	Segment         Segment `json:"segment" db:"segment"`
	SuggestedQty    float64 `json:"suggested_qty" db:"suggested_qty"`
	SellOutVelocity float64 `json:"sell_out_velocity" db:"sell_out_velocity"`
	SalesLast3M     float64 `json:"sales_last_3m" db:"sales_last_3m"`
	StockValue      float64 `json:"stock_value" db:"stock_value"`

	TrendMetrics
}
