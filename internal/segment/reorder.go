package segment

import (
	"math"

	"github.com/covatech/replengo/internal/domain"
)

const (
	// DeadStockThreshold marks an article dead when its trailing-360-day
	// sales fall below it.
	DeadStockThreshold = 3.0

	// Velocity above which an article is a fast mover and gets the longer
	// review buffer.
	fastMoverVelocity = 0.2
	fastMoverBuffer   = 30.0
	slowMoverBuffer   = 21.0

	risingStarSafetyFactor = 1.5
	volatileSafetyFactor   = 1.3
	coldTrendFactor        = 0.8
)

// ReorderInputs are the parameters of the suggested-quantity formula,
// decoupled from how they were fetched.
type ReorderInputs struct {
	SalesLast4M   float64
	SalesLast360D float64
	TotalStock    float64
	Family        string
	DimensionCoef float64
	Params        domain.SupplierParams
	Seasonality   float64
	IsRisingStar  bool
	Volatility    float64
	YoYGrowth     float64
	Trend         domain.Trend
}

// SuggestedQty computes the recommended order quantity. The steps run in a
// fixed order and the dead-stock check short-circuits everything after it:
//
//  1. dead stock (<3 units / 360d): 1 unit when the article belongs to a
//     family (keep a display unit for assortment), else 0
//  2. zero velocity: 0
//  3. review buffer: 30 days for fast movers, 21 for slow
//  4. safety stock scaled by dimension coefficient, x1.5 for rising stars,
//     x1.3 for volatile demand (both compound)
//  5. trend multiplier from YoY growth (capped +30%, floored -30%), with an
//     extra x0.8 for COLD articles
//  6. need = daily rate x seasonality x (lead + buffer + safety), minus
//     total stock, clamped at zero
//  7. MOQ rounding: quantities step up to the next MOQ multiple and never
//     fall below the MOQ itself
func SuggestedQty(in ReorderInputs) float64 {
	if in.SalesLast360D < DeadStockThreshold {
		if in.Family != "" {
			return 1.0
		}
		return 0.0
	}

	avgDaily := AvgDailySales(in.SalesLast4M, in.SalesLast360D)
	if avgDaily <= 0 {
		return 0.0
	}

	bufferDays := slowMoverBuffer
	if avgDaily > fastMoverVelocity {
		bufferDays = fastMoverBuffer
	}

	adjustedSafety := in.Params.SafetyStockDays * in.DimensionCoef
	if in.IsRisingStar {
		adjustedSafety *= risingStarSafetyFactor
	}
	if in.Volatility > 1.0 {
		adjustedSafety *= volatileSafetyFactor
	}

	multiplier := 1.0
	if in.YoYGrowth > 20 {
		multiplier = 1.0 + math.Min(in.YoYGrowth/100*0.5, 0.3)
	} else if in.YoYGrowth < -30 {
		multiplier = math.Max(0.7, 1.0+in.YoYGrowth/100*0.5)
	}
	if in.Trend == domain.TrendCold {
		multiplier *= coldTrendFactor
	}

	coverageDays := float64(in.Params.LeadTimeDays) + bufferDays + adjustedSafety
	baseNeed := avgDaily * in.Seasonality * coverageDays
	netNeed := baseNeed*multiplier - in.TotalStock
	if netNeed <= 0 {
		return 0.0
	}

	if in.Params.MOQ > 1 {
		return math.Max(in.Params.MOQ, (math.Floor(netNeed/in.Params.MOQ)+1)*in.Params.MOQ)
	}
	return math.Round(netNeed)
}

// SellOutVelocity compares the recent daily rate (last 4 months) against the
// annual daily rate. Above 1.0 the article is accelerating. Volumes below 5
// units in both windows read as 1.0, and the ratio is capped at 3.0, so thin
// data cannot fake a spike.
func SellOutVelocity(salesLast4M, salesLast360D float64) float64 {
	const minVolume = 5.0

	if salesLast360D < minVolume && salesLast4M < minVolume {
		return 1.0
	}
	if salesLast360D <= 0 {
		if salesLast4M > minVolume {
			return 2.0
		}
		return 1.0
	}

	dailyRecent := salesLast4M / 120.0
	dailyAnnual := salesLast360D / 360.0
	if dailyAnnual == 0 {
		return 1.0
	}

	return math.Min(dailyRecent/dailyAnnual, 3.0)
}
