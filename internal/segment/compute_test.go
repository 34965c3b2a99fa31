package segment

import (
	"testing"

	"github.com/covatech/replengo/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	article := &domain.Article{
		Code:           "A-1001",
		Name:           "COVOR FLORENCE 140x200cm",
		Supplier:       "ACME",
		Cost:           40,
		StockAvailable: 20,
		StockInTransit: 5,
		SalesLast4M:    120,
		SalesLast360D:  360,
	}
	params := domain.SupplierParams{LeadTimeDays: 30, SafetyStockDays: 7, MOQ: 1}

	got := Compute(article, domain.DefaultTrendMetrics(), params)

	assert.Equal(t, "A-1001", got.Code)
	assert.Equal(t, "ACME", got.Supplier)
	assert.InDelta(t, 1.0, got.AvgDailySales, 1e-9)
	assert.InDelta(t, 25.0, got.DaysOfCoverage, 1e-9)
	assert.Equal(t, domain.SegmentCritical, got.Segment)
	assert.Equal(t, 42.0, got.SuggestedQty)
	assert.InDelta(t, 1.0, got.SellOutVelocity, 1e-9)
	assert.InDelta(t, 1000.0, got.StockValue, 1e-9)
}

// The width token of the article name scales the safety stock.
func TestComputeDimensionCoefficient(t *testing.T) {
	article := &domain.Article{
		Code:          "A-2001",
		Name:          "COVOR ALINA 200x300cm",
		SalesLast4M:   120,
		SalesLast360D: 360,
	}
	params := domain.SupplierParams{LeadTimeDays: 30, SafetyStockDays: 7, MOQ: 1}

	got := Compute(article, domain.DefaultTrendMetrics(), params)

	// 30 + 30 + 7 x 0.80 = 65.6 needed, nothing on hand.
	assert.Equal(t, 66.0, got.SuggestedQty)
}

func TestComputeOverstockedArticle(t *testing.T) {
	article := &domain.Article{
		Code:           "A-3001",
		Name:           "COVOR FLORENCE 080x150cm",
		StockAvailable: 200,
		SalesLast4M:    120,
		SalesLast360D:  360,
	}
	params := domain.SupplierParams{LeadTimeDays: 30, SafetyStockDays: 7, MOQ: 1}

	got := Compute(article, domain.DefaultTrendMetrics(), params)

	assert.Equal(t, domain.SegmentOverstock, got.Segment)
	assert.Equal(t, 0.0, got.SuggestedQty)
}
