// Package segment holds the canonical replenishment formulas: days-of-
// coverage classification and suggested order quantity. Every execution
// surface (per-article view, batch recompute, store refresh) calls these
// same pure functions; only input fetching and output writing differ.
package segment

import "github.com/covatech/replengo/internal/domain"

const (
	// InfiniteCoverage stands in for days of coverage when stock exists
	// but nothing sells.
	InfiniteCoverage = 999.0

	// AttentionBufferDays widens the urgency window past lead time plus
	// safety stock before an article drops back to OK.
	AttentionBufferDays = 14.0

	// OverstockDays is the single coverage threshold above which an
	// article is overstocked.
	OverstockDays = 90.0
)

// AvgDailySales derives the daily velocity: the last 4 months when they
// sold, otherwise the trailing 360 days, otherwise zero.
func AvgDailySales(salesLast4M, salesLast360D float64) float64 {
	if salesLast4M > 0 {
		return salesLast4M / 120.0
	}
	if salesLast360D > 0 {
		return salesLast360D / 360.0
	}
	return 0.0
}

// DaysOfCoverage is how long total stock lasts at the average daily rate.
// With no sales it is 999 when stock exists, else 0.
func DaysOfCoverage(totalStock, avgDailySales float64) float64 {
	if avgDailySales <= 0 {
		if totalStock > 0 {
			return InfiniteCoverage
		}
		return 0.0
	}
	return totalStock / avgDailySales
}

// Classify maps coverage to an urgency segment. The rules are evaluated in
// strict order, first match wins:
//
//  1. no sales: OVERSTOCK when stock exists, else OK
//  2. coverage < lead time            -> CRITICAL
//  3. coverage < lead time + safety   -> URGENT
//  4. coverage < lead time + safety + 14 -> ATTENTION
//  5. coverage > 90                   -> OVERSTOCK
//  6. otherwise                       -> OK
//
// Coverage exactly equal to lead time is URGENT, not CRITICAL; exactly at
// lead time plus safety is ATTENTION, not URGENT.
func Classify(totalStock, avgDailySales float64, params domain.SupplierParams) domain.Segment {
	if avgDailySales <= 0 {
		if totalStock > 0 {
			return domain.SegmentOverstock
		}
		return domain.SegmentOK
	}

	cov := DaysOfCoverage(totalStock, avgDailySales)
	lt := float64(params.LeadTimeDays)

	switch {
	case cov < lt:
		return domain.SegmentCritical
	case cov < lt+params.SafetyStockDays:
		return domain.SegmentUrgent
	case cov < lt+params.SafetyStockDays+AttentionBufferDays:
		return domain.SegmentAttention
	case cov > OverstockDays:
		return domain.SegmentOverstock
	default:
		return domain.SegmentOK
	}
}
