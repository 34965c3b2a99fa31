package service

import (
	"context"
	"fmt"
	"time"

	"github.com/covatech/replengo/internal/cache"
	"github.com/covatech/replengo/internal/domain"
	"github.com/covatech/replengo/internal/pipeline"
	"github.com/covatech/replengo/internal/repository"
	"github.com/covatech/replengo/internal/segment"
	"github.com/covatech/replengo/internal/supplier"
	"github.com/covatech/replengo/internal/trend"
	"github.com/rs/zerolog/log"
)

// ErrArticleNotFound is returned when a requested article code is unknown.
var ErrArticleNotFound = fmt.Errorf("article not found")

// ReplenishService is the interactive surface of the engine: it serves
// stored computed records, recomputes single articles on demand, and
// triggers full batch runs. All three paths share the same pure formulas.
type ReplenishService struct {
	repo   repository.ArticleRepository
	cache  cache.ReplenishCache
	params *supplier.Table
	pipe   *pipeline.Pipeline
	clock  func() time.Time
}

func NewReplenishService(repo repository.ArticleRepository, cacheImpl cache.ReplenishCache,
	params *supplier.Table, pipe *pipeline.Pipeline) *ReplenishService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReplenishCache()
	}
	return &ReplenishService{
		repo:   repo,
		cache:  cacheImpl,
		params: params,
		pipe:   pipe,
		clock:  time.Now,
	}
}

// WithClock overrides the reference clock, for deterministic tests.
func (s *ReplenishService) WithClock(clock func() time.Time) *ReplenishService {
	s.clock = clock
	return s
}

// GetArticle recomputes one article fresh from its stored inputs. This is
// the per-record execution surface; it runs the same classification and
// quantity formulas as the batch.
func (s *ReplenishService) GetArticle(ctx context.Context, code string) (*domain.ComputedArticle, error) {
	a, err := s.repo.GetArticle(ctx, code)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrArticleNotFound
	}

	metrics := trend.Estimate(a.SalesHistory, nil, s.clock())
	if cached, ok, err := s.cache.GetTrend(ctx, code); err == nil && ok {
		// Batch-computed metrics include client mix, which single-article
		// recomputation cannot derive from the history alone.
		metrics = *cached
	} else if err != nil {
		log.Warn().Err(err).Str("code", code).Msg("trend cache read failed")
	}

	computed := segment.Compute(a, metrics, s.params.Resolve(a.Supplier))
	return &computed, nil
}

// ListComputed serves stored computed records for a filter slice.
func (s *ReplenishService) ListComputed(ctx context.Context, filter domain.ArticleFilter) ([]domain.ComputedArticle, int, error) {
	return s.repo.ListComputed(ctx, filter)
}

// SegmentSummary serves per-segment counts, cached between recomputes.
func (s *ReplenishService) SegmentSummary(ctx context.Context, filter domain.ArticleFilter) ([]domain.SegmentSummary, error) {
	if summaries, ok, err := s.cache.GetSummary(ctx, filter); err == nil && ok {
		return summaries, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("segment summary cache read failed")
	}

	summaries, err := s.repo.SegmentSummary(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSummary(ctx, filter, summaries); err != nil {
		log.Warn().Err(err).Msg("segment summary cache write failed")
	}

	return summaries, nil
}

// Recompute triggers a full batch run anchored at the current clock.
func (s *ReplenishService) Recompute(ctx context.Context) (*pipeline.Stats, error) {
	if s.pipe == nil {
		return nil, fmt.Errorf("recompute pipeline not configured")
	}
	return s.pipe.Run(ctx, s.clock())
}
