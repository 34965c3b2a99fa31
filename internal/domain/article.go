package domain

import "time"

// MonthKeyLayout is the canonical key format of the monthly sales history.
const MonthKeyLayout = "2006-01"

// MonthlyHistory maps a "YYYY-MM" key to the quantity sold in that month.
// It is the canonical per-article time series every month-level comparison
// works from.
type MonthlyHistory map[string]float64

// MonthKey builds a history key for the given year and month.
func MonthKey(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(MonthKeyLayout)
}

// SupplierParams holds the resolved ordering parameters for one supplier.
type SupplierParams struct {
	LeadTimeDays    int     `json:"lead_time_days"`
	SafetyStockDays float64 `json:"safety_stock_days"`
	MOQ             float64 `json:"moq"`
}

// Article is the central entity: one stocked article with its master data,
// stock position, sales aggregates and monthly history. Trend and segment
// fields are derived from it, never stored as independent truth.
type Article struct {
	Code     string `json:"code" db:"code"`
	Name     string `json:"name" db:"name"`
	Supplier string `json:"supplier" db:"supplier"`
	Class    string `json:"class" db:"class"`
	Subclass string `json:"subclass" db:"subclass"`
	Status   string `json:"status" db:"status"`

	Cost         float64 `json:"cost" db:"cost"`
	CatalogPrice float64 `json:"catalog_price" db:"catalog_price"`
	SalePrice    float64 `json:"sale_price" db:"sale_price"`

	StockAvailable float64 `json:"stock_available" db:"stock_available"`
	StockInTransit float64 `json:"stock_in_transit" db:"stock_in_transit"`
	StockStores    float64 `json:"stock_stores" db:"stock_stores"`

	SalesLast4M      float64 `json:"sales_last_4m" db:"sales_last_4m"`
	SalesLast360D    float64 `json:"sales_last_360d" db:"sales_last_360d"`
	SalesLast3M      float64 `json:"sales_last_3m" db:"sales_last_3m"`
	SalesCurrentYear float64 `json:"sales_current_year" db:"sales_current_year"`
	SalesPriorYear   float64 `json:"sales_prior_year" db:"sales_prior_year"`

	SalesHistory MonthlyHistory `json:"sales_history" db:"-"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TotalStock is on-hand plus in-transit, the quantity coverage is measured
// against.
func (a *Article) TotalStock() float64 {
	return a.StockAvailable + a.StockInTransit
}

// Family returns the product family extracted from the article name, or ""
// when the name does not follow the catalog convention.
func (a *Article) Family() string {
	fam, _ := ExtractFamilyDimension(a.Name)
	return fam
}

// Dimension returns the size token extracted from the article name, e.g.
// "080x150", or "" when absent.
func (a *Article) Dimension() string {
	_, dim := ExtractFamilyDimension(a.Name)
	return dim
}

// StockValue is the total stock valued at acquisition cost.
func (a *Article) StockValue() float64 {
	return a.TotalStock() * a.Cost
}
