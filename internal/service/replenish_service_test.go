package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/covatech/replengo/internal/domain"
	"github.com/covatech/replengo/internal/supplier"
	"github.com/covatech/replengo/internal/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	articles  map[string]*domain.Article
	summaries []domain.SegmentSummary

	summaryCalls int
}

func (s *stubRepo) ListArticles(context.Context) ([]domain.Article, error) { return nil, nil }

func (s *stubRepo) GetArticle(_ context.Context, code string) (*domain.Article, error) {
	a, ok := s.articles[code]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (s *stubRepo) ListTransactions(context.Context, time.Time) ([]trend.Transaction, error) {
	return nil, nil
}

func (s *stubRepo) SaveComputed(context.Context, []domain.ComputedArticle) error { return nil }

func (s *stubRepo) ListComputed(context.Context, domain.ArticleFilter) ([]domain.ComputedArticle, int, error) {
	return nil, 0, nil
}

func (s *stubRepo) SegmentSummary(context.Context, domain.ArticleFilter) ([]domain.SegmentSummary, error) {
	s.summaryCalls++
	return s.summaries, nil
}

type memoryCache struct {
	summaries map[string][]domain.SegmentSummary
	trends    map[string]domain.TrendMetrics
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		summaries: make(map[string][]domain.SegmentSummary),
		trends:    make(map[string]domain.TrendMetrics),
	}
}

func (m *memoryCache) GetSummary(_ context.Context, filter domain.ArticleFilter) ([]domain.SegmentSummary, bool, error) {
	s, ok := m.summaries[fmt.Sprintf("%+v", filter)]
	return s, ok, nil
}

func (m *memoryCache) SetSummary(_ context.Context, filter domain.ArticleFilter, summaries []domain.SegmentSummary) error {
	m.summaries[fmt.Sprintf("%+v", filter)] = summaries
	return nil
}

func (m *memoryCache) GetTrend(_ context.Context, code string) (*domain.TrendMetrics, bool, error) {
	t, ok := m.trends[code]
	if !ok {
		return nil, false, nil
	}
	return &t, true, nil
}

func (m *memoryCache) SetTrend(_ context.Context, code string, metrics domain.TrendMetrics) error {
	m.trends[code] = metrics
	return nil
}

func (m *memoryCache) InvalidateAll(context.Context) error {
	m.summaries = make(map[string][]domain.SegmentSummary)
	m.trends = make(map[string]domain.TrendMetrics)
	return nil
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
}

func testTable(t *testing.T) *supplier.Table {
	t.Helper()
	table, err := supplier.New(map[string]domain.SupplierParams{
		supplier.DefaultKey: {LeadTimeDays: 30, SafetyStockDays: 7, MOQ: 1},
	})
	require.NoError(t, err)
	return table
}

func TestGetArticle(t *testing.T) {
	repo := &stubRepo{articles: map[string]*domain.Article{
		"A-1001": {
			Code:           "A-1001",
			Name:           "COVOR FLORENCE 140x200cm",
			Supplier:       "ACME",
			StockAvailable: 25,
			SalesLast4M:    120,
			SalesLast360D:  360,
			SalesHistory: domain.MonthlyHistory{
				"2025-04": 30, "2025-05": 30,
				"2024-04": 30, "2024-05": 30,
			},
		},
	}}

	svc := NewReplenishService(repo, newMemoryCache(), testTable(t), nil).WithClock(fixedClock())

	got, err := svc.GetArticle(context.Background(), "A-1001")
	require.NoError(t, err)
	assert.Equal(t, domain.SegmentCritical, got.Segment)
	assert.Equal(t, 42.0, got.SuggestedQty)
	assert.InDelta(t, 1.0, got.AvgDailySales, 1e-9)
}

func TestGetArticleUnknownCode(t *testing.T) {
	svc := NewReplenishService(&stubRepo{}, nil, testTable(t), nil)

	_, err := svc.GetArticle(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

// Batch-produced metrics, when cached, replace the history-only estimate so
// the per-article view matches the last run's client mix.
func TestGetArticlePrefersBatchMetrics(t *testing.T) {
	repo := &stubRepo{articles: map[string]*domain.Article{
		"A-1001": {
			Code:          "A-1001",
			SalesLast4M:   120,
			SalesLast360D: 360,
		},
	}}
	c := newMemoryCache()

	batch := domain.DefaultTrendMetrics()
	batch.UniqueClients = 42
	batch.RepeatRate = 66.7
	require.NoError(t, c.SetTrend(context.Background(), "A-1001", batch))

	svc := NewReplenishService(repo, c, testTable(t), nil).WithClock(fixedClock())

	got, err := svc.GetArticle(context.Background(), "A-1001")
	require.NoError(t, err)
	assert.Equal(t, 42, got.UniqueClients)
	assert.Equal(t, 66.7, got.RepeatRate)
}

func TestSegmentSummaryCached(t *testing.T) {
	repo := &stubRepo{summaries: []domain.SegmentSummary{
		{Segment: domain.SegmentCritical, Count: 3},
		{Segment: domain.SegmentOK, Count: 97},
	}}
	svc := NewReplenishService(repo, newMemoryCache(), testTable(t), nil)

	first, err := svc.SegmentSummary(context.Background(), domain.ArticleFilter{})
	require.NoError(t, err)
	second, err := svc.SegmentSummary(context.Background(), domain.ArticleFilter{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.summaryCalls, "second read must come from cache")

	// A different filter is a different cache entry.
	_, err = svc.SegmentSummary(context.Background(), domain.ArticleFilter{Supplier: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.summaryCalls)
}

func TestRecomputeWithoutPipeline(t *testing.T) {
	svc := NewReplenishService(&stubRepo{}, nil, testTable(t), nil)

	_, err := svc.Recompute(context.Background())
	assert.Error(t, err)
}
