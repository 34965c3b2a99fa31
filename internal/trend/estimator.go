package trend

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/covatech/replengo/internal/domain"
)

const (
	// Minimum summed volume in either compared window before a HOT/COLD
	// call is trusted; below it the label stays STABLE so one stray sale
	// cannot show up as +200%.
	minVolumeForTrend = 5.0
	// Volume a brand-new article needs in the current window to be HOT.
	newProductHotVolume = 10.0
	// Most-recent-year volume a rising star needs; compounding growth on
	// tiny numbers is noise, not a star.
	minRisingStarVolume = 10.0
	// Year-over-year growth each of the last two transitions must exceed.
	risingStarGrowth = 0.10
	// Months of history required before volatility and the monthly peak
	// are computed; with less, volatility defaults to 1.0 (uncertain).
	minMonthsForStats = 3

	seasonalityMin = 0.5
	seasonalityMax = 2.0
)

// Estimate derives the full trend metric set for one article from its
// monthly history and client transaction counts. ref anchors "current
// month/year". Sparse history never errors; it resolves to the documented
// defaults.
func Estimate(series domain.MonthlyHistory, clients map[string]int, ref time.Time) domain.TrendMetrics {
	m := domain.DefaultTrendMetrics()
	if len(series) > 0 {
		m.YoYGrowth = yoyGrowth(series, ref)
		m.Acceleration = acceleration(series, ref)
		m.Volatility = volatility(series)
		m.SeasonalityIndex = seasonalityIndex(series, ref)
		m.IsRisingStar = risingStar(series, ref)
		m.Trend = hotCold(series, ref)
		m.PeakMonth, m.PeakMonthPct = peakMonth(series)
	}
	m.RepeatRate, m.AvgOrdersPerClient, m.UniqueClients = clientMix(clients)
	return m
}

// yoyGrowth compares the months of the current year that have occurred so
// far against the same calendar window of the prior year. Both windows span
// January through the reference month regardless of which months the article
// actually sold in, so a collapsed article reads as a decline, not as new.
func yoyGrowth(series domain.MonthlyHistory, ref time.Time) float64 {
	year := ref.Year()

	var current, prior float64
	for m := time.January; m <= ref.Month(); m++ {
		current += series[domain.MonthKey(year, m)]
		prior += series[domain.MonthKey(year-1, m)]
	}

	return growthPct(current, prior)
}

// acceleration compares the last 3 complete calendar months before ref
// against the 3 months before those. The windows are anchored at the
// reference clock, not at the article's own newest sale, so stale articles
// read flat rather than accelerating.
func acceleration(series domain.MonthlyHistory, ref time.Time) float64 {
	anchor := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)

	var last3, prev3 float64
	for i := 1; i <= 6; i++ {
		m := anchor.AddDate(0, -i, 0)
		qty := series[domain.MonthKey(m.Year(), m.Month())]
		if i <= 3 {
			last3 += qty
		} else {
			prev3 += qty
		}
	}

	return growthPct(last3, prev3)
}

// growthPct is the shared growth formula: percentage change when the prior
// period sold, 100% when a product appears from nothing, 0% when both
// periods are empty.
func growthPct(current, prior float64) float64 {
	switch {
	case prior > 0:
		return round1((current - prior) / prior * 100)
	case current > 0:
		return 100.0
	default:
		return 0.0
	}
}

// volatility is the coefficient of variation of the monthly quantities.
// Fewer than 3 months of history defaults to 1.0 (high uncertainty); a zero
// mean yields 0.
func volatility(series domain.MonthlyHistory) float64 {
	if len(series) < minMonthsForStats {
		return 1.0
	}

	var sum float64
	for _, qty := range series {
		sum += qty
	}
	mean := sum / float64(len(series))
	if mean <= 0 {
		return 0.0
	}

	var sq float64
	for _, qty := range series {
		d := qty - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(series)-1))

	return round2(std / mean)
}

// seasonalityIndex is the article's average sales across the next 3 calendar
// months (all historical occurrences of those month numbers) divided by its
// overall monthly average, clamped to [0.5, 2.0].
func seasonalityIndex(series domain.MonthlyHistory, ref time.Time) float64 {
	totals, present := monthTotals(series)
	if len(present) == 0 {
		return 1.0
	}

	var overall float64
	for _, m := range present {
		overall += totals[m]
	}
	overall /= float64(len(present))
	if overall <= 0 {
		return 1.0
	}

	var upcomingSum float64
	upcomingN := 0
	for i := 1; i <= 3; i++ {
		m := int(nextMonth(ref.Month(), i))
		if t, ok := totals[m]; ok {
			upcomingSum += t
			upcomingN++
		}
	}
	if upcomingN == 0 {
		return 1.0
	}

	idx := (upcomingSum / float64(upcomingN)) / overall
	return round2(clamp(idx, seasonalityMin, seasonalityMax))
}

// risingStar is true when the article grew more than 10% in each of the last
// two year-to-year transitions across the last three full years, and the
// most recent full year moved at least the minimum volume.
func risingStar(series domain.MonthlyHistory, ref time.Time) bool {
	y := ref.Year()
	first := yearTotal(series, y-3)
	second := yearTotal(series, y-2)
	third := yearTotal(series, y-1)

	growthA := 0.0
	if first > 0 {
		growthA = (second - first) / first
	}
	growthB := 0.0
	if second > 0 {
		growthB = (third - second) / second
	}

	return growthA > risingStarGrowth && growthB > risingStarGrowth && third >= minRisingStarVolume
}

// hotCold labels the article by comparing the trailing 4 calendar months of
// the current year against the same months of the prior year.
func hotCold(series domain.MonthlyHistory, ref time.Time) domain.Trend {
	year := ref.Year()

	var current, previous float64
	for i := 0; i < 4; i++ {
		m := nextMonth(ref.Month(), -i)
		current += series[domain.MonthKey(year, m)]
		previous += series[domain.MonthKey(year-1, m)]
	}

	if math.Max(current, previous) < minVolumeForTrend {
		return domain.TrendStable
	}
	if previous == 0 {
		if current >= newProductHotVolume {
			return domain.TrendHot
		}
		return domain.TrendStable
	}
	if current == 0 {
		return domain.TrendCold
	}

	change := (current - previous) / previous
	switch {
	case change > 0.20:
		return domain.TrendHot
	case change < -0.20:
		return domain.TrendCold
	default:
		return domain.TrendStable
	}
}

// peakMonth finds the calendar month the article historically sells best in,
// and the share of total volume that month carries. Requires history in at
// least 3 distinct months; ties go to the earliest month.
func peakMonth(series domain.MonthlyHistory) (int, float64) {
	totals, present := monthTotals(series)
	if len(present) < minMonthsForStats {
		return 0, 0
	}

	peak := 0
	var peakQty, total float64
	for _, m := range present {
		total += totals[m]
		if peak == 0 || totals[m] > peakQty {
			peak = m
			peakQty = totals[m]
		}
	}
	if total <= 0 {
		return peak, 0
	}
	return peak, round1(peakQty / total * 100)
}

// clientMix computes the repeat-purchase share and mean transactions per
// client.
func clientMix(clients map[string]int) (repeatRate, avgOrders float64, unique int) {
	if len(clients) == 0 {
		return 0, 0, 0
	}

	repeat := 0
	total := 0
	for _, n := range clients {
		total += n
		if n > 1 {
			repeat++
		}
	}

	unique = len(clients)
	repeatRate = round1(float64(repeat) / float64(unique) * 100)
	avgOrders = round2(float64(total) / float64(unique))
	return repeatRate, avgOrders, unique
}

// monthTotals sums the series per calendar month number across years,
// returning the totals and the sorted list of months with any history.
func monthTotals(series domain.MonthlyHistory) (map[int]float64, []int) {
	totals := make(map[int]float64, 12)
	seen := make(map[int]bool, 12)
	for ym, qty := range series {
		_, month, ok := splitKey(ym)
		if !ok {
			continue
		}
		totals[month] += qty
		seen[month] = true
	}

	present := make([]int, 0, len(seen))
	for m := 1; m <= 12; m++ {
		if seen[m] {
			present = append(present, m)
		}
	}
	return totals, present
}

func splitKey(ym string) (year, month int, ok bool) {
	i := strings.IndexByte(ym, '-')
	if i < 0 {
		return 0, 0, false
	}
	y, err := strconv.Atoi(ym[:i])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(ym[i+1:])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	return y, m, true
}

// nextMonth shifts a calendar month by offset, wrapping within 1..12.
func nextMonth(m time.Month, offset int) time.Month {
	idx := (int(m) - 1 + offset) % 12
	if idx < 0 {
		idx += 12
	}
	return time.Month(idx + 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
