package trend

import (
	"testing"
	"time"

	"github.com/covatech/replengo/internal/domain"
	"github.com/stretchr/testify/assert"
)

var refJune = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func TestEstimateEmptyHistory(t *testing.T) {
	got := Estimate(nil, nil, refJune)

	assert.Equal(t, domain.DefaultTrendMetrics(), got)
	assert.Equal(t, 1.0, got.Volatility)
	assert.Equal(t, 1.0, got.SeasonalityIndex)
	assert.Equal(t, domain.TrendStable, got.Trend)
	assert.False(t, got.IsRisingStar)
}

func TestYoYGrowth(t *testing.T) {
	series := domain.MonthlyHistory{
		"2025-01": 10, "2025-02": 10, "2025-03": 10,
		"2024-01": 5, "2024-02": 5, "2024-03": 10,
		// Prior-year months past the reference month fall outside the window.
		"2024-09": 500,
	}

	got := Estimate(series, nil, refJune)
	assert.Equal(t, 50.0, got.YoYGrowth)
}

func TestYoYGrowthNewArticle(t *testing.T) {
	series := domain.MonthlyHistory{"2025-03": 12}
	got := Estimate(series, nil, refJune)
	assert.Equal(t, 100.0, got.YoYGrowth)
}

func TestYoYGrowthCollapsedArticle(t *testing.T) {
	// Sold 100 units through April last year, 10 this year. The prior
	// window covers every month up to the reference month, not just the
	// months the article sold in this year, so this reads as a collapse.
	series := domain.MonthlyHistory{
		"2024-04": 100,
		"2025-05": 10,
	}

	got := Estimate(series, nil, refJune)
	assert.Equal(t, -90.0, got.YoYGrowth)
}

func TestAcceleration(t *testing.T) {
	// Reference June: the recent window is March through May, the prior
	// window December through February. The partial current month is out.
	series := domain.MonthlyHistory{
		"2024-12": 10, "2025-01": 10, "2025-02": 10,
		"2025-03": 30, "2025-04": 30, "2025-05": 30,
		"2025-06": 99,
	}

	got := Estimate(series, nil, refJune)
	assert.Equal(t, 200.0, got.Acceleration)
}

func TestAccelerationStaleArticle(t *testing.T) {
	// Last sale eight months before the reference clock. Both windows are
	// empty, so the article reads flat instead of freshly accelerating.
	series := domain.MonthlyHistory{
		"2024-08": 30, "2024-09": 30, "2024-10": 30,
	}

	got := Estimate(series, nil, refJune)
	assert.Equal(t, 0.0, got.Acceleration)
}

func TestVolatility(t *testing.T) {
	flat := domain.MonthlyHistory{"2025-01": 10, "2025-02": 10, "2025-03": 10}
	assert.Equal(t, 0.0, Estimate(flat, nil, refJune).Volatility)

	spread := domain.MonthlyHistory{"2025-01": 5, "2025-02": 10, "2025-03": 15}
	assert.Equal(t, 0.5, Estimate(spread, nil, refJune).Volatility)

	// Too little history reads as maximally uncertain.
	short := domain.MonthlyHistory{"2025-01": 5, "2025-02": 10}
	assert.Equal(t, 1.0, Estimate(short, nil, refJune).Volatility)
}

func TestSeasonalityIndex(t *testing.T) {
	// Reference June: the upcoming window is July through September.
	series := domain.MonthlyHistory{
		"2024-01": 10,
		"2024-07": 100,
		"2024-09": 10,
	}
	got := Estimate(series, nil, refJune)
	// upcoming avg (100+10)/2 = 55, overall avg 120/3 = 40.
	assert.Equal(t, 1.38, got.SeasonalityIndex)
}

func TestSeasonalityIndexClamped(t *testing.T) {
	high := domain.MonthlyHistory{"2024-01": 10, "2024-02": 10, "2024-07": 1000}
	assert.Equal(t, 2.0, Estimate(high, nil, refJune).SeasonalityIndex)

	low := domain.MonthlyHistory{"2024-01": 1000, "2024-02": 1000, "2024-07": 1}
	assert.Equal(t, 0.5, Estimate(low, nil, refJune).SeasonalityIndex)
}

func TestSeasonalityIndexNoUpcomingHistory(t *testing.T) {
	series := domain.MonthlyHistory{"2024-01": 10, "2024-02": 20}
	assert.Equal(t, 1.0, Estimate(series, nil, refJune).SeasonalityIndex)
}

func TestRisingStar(t *testing.T) {
	series := domain.MonthlyHistory{
		"2022-06": 20,
		"2023-06": 30,
		"2024-06": 40,
	}
	assert.True(t, Estimate(series, nil, refJune).IsRisingStar)

	// Growth on tiny volume is noise, not a star.
	small := domain.MonthlyHistory{
		"2022-06": 2,
		"2023-06": 4,
		"2024-06": 8,
	}
	assert.False(t, Estimate(small, nil, refJune).IsRisingStar)

	// One flat transition breaks the streak.
	flat := domain.MonthlyHistory{
		"2022-06": 20,
		"2023-06": 20,
		"2024-06": 40,
	}
	assert.False(t, Estimate(flat, nil, refJune).IsRisingStar)
}

func TestHotCold(t *testing.T) {
	// The trailing window at a June reference is March through June.
	tests := []struct {
		name   string
		series domain.MonthlyHistory
		want   domain.Trend
	}{
		{
			"hot",
			domain.MonthlyHistory{
				"2025-04": 15, "2025-05": 15,
				"2024-04": 10, "2024-05": 10,
			},
			domain.TrendHot,
		},
		{
			"cold",
			domain.MonthlyHistory{
				"2025-04": 5, "2025-05": 5,
				"2024-04": 10, "2024-05": 10,
			},
			domain.TrendCold,
		},
		{
			"stable within band",
			domain.MonthlyHistory{
				"2025-04": 11, "2025-05": 11,
				"2024-04": 10, "2024-05": 10,
			},
			domain.TrendStable,
		},
		{
			"thin volume stays stable",
			domain.MonthlyHistory{
				"2025-05": 3,
				"2024-05": 4,
			},
			domain.TrendStable,
		},
		{
			"new article selling well",
			domain.MonthlyHistory{"2025-05": 12},
			domain.TrendHot,
		},
		{
			"new article selling a little",
			domain.MonthlyHistory{"2025-05": 6},
			domain.TrendStable,
		},
		{
			"stopped selling",
			domain.MonthlyHistory{"2024-04": 10, "2024-05": 10},
			domain.TrendCold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Estimate(tt.series, nil, refJune).Trend)
		})
	}
}

func TestPeakMonth(t *testing.T) {
	series := domain.MonthlyHistory{
		"2024-01": 10,
		"2024-02": 30,
		"2024-03": 10,
	}
	got := Estimate(series, nil, refJune)
	assert.Equal(t, 2, got.PeakMonth)
	assert.Equal(t, 60.0, got.PeakMonthPct)

	// Ties resolve to the earliest month.
	tied := domain.MonthlyHistory{
		"2024-01": 20,
		"2024-03": 20,
		"2024-05": 10,
	}
	got = Estimate(tied, nil, refJune)
	assert.Equal(t, 1, got.PeakMonth)

	// Multiple years of the same calendar month pool together.
	pooled := domain.MonthlyHistory{
		"2023-12": 25, "2024-12": 25,
		"2024-01": 10, "2024-02": 10,
	}
	got = Estimate(pooled, nil, refJune)
	assert.Equal(t, 12, got.PeakMonth)

	short := domain.MonthlyHistory{"2024-01": 10, "2024-02": 10}
	got = Estimate(short, nil, refJune)
	assert.Equal(t, 0, got.PeakMonth)
}

func TestClientMix(t *testing.T) {
	clients := map[string]int{"C-1": 3, "C-2": 1, "C-3": 2}

	got := Estimate(nil, clients, refJune)
	assert.Equal(t, 66.7, got.RepeatRate)
	assert.Equal(t, 2.0, got.AvgOrdersPerClient)
	assert.Equal(t, 3, got.UniqueClients)

	empty := Estimate(nil, nil, refJune)
	assert.Equal(t, 0.0, empty.RepeatRate)
	assert.Equal(t, 0, empty.UniqueClients)
}

// Same inputs and reference date always produce identical metrics.
func TestEstimateDeterministic(t *testing.T) {
	series := domain.MonthlyHistory{
		"2025-01": 7, "2025-02": 13, "2025-03": 4, "2025-04": 21,
		"2024-01": 9, "2024-06": 17, "2024-11": 3,
		"2023-05": 8, "2022-05": 6,
	}
	clients := map[string]int{"C-1": 4, "C-2": 1}

	first := Estimate(series, clients, refJune)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Estimate(series, clients, refJune))
	}
}
