// Package pipeline runs the full replenishment recompute: aggregate
// transactions, estimate trends, resolve supplier parameters, classify and
// size every article, then persist the regenerated outputs in one pass.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/covatech/replengo/internal/artifact"
	"github.com/covatech/replengo/internal/cache"
	"github.com/covatech/replengo/internal/domain"
	"github.com/covatech/replengo/internal/repository"
	"github.com/covatech/replengo/internal/segment"
	"github.com/covatech/replengo/internal/supplier"
	"github.com/covatech/replengo/internal/trend"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// HistoryWindowYears bounds how far back transactions are loaded. Rising
// stars need three full years plus the running one.
const HistoryWindowYears = 4

// Config holds the knobs of one pipeline instance.
type Config struct {
	Aggregate   trend.AggregateConfig
	WorkerCount int
	// Progress, when set, is called after each article is computed.
	Progress func(done, total int)
}

// Stats summarizes a completed run.
type Stats struct {
	Articles     int
	Transactions int
	BySegment    map[domain.Segment]int
	Duration     time.Duration
}

// Pipeline wires the engine to its storage, cache and artifact sinks.
type Pipeline struct {
	cfg       Config
	repo      repository.ArticleRepository
	runs      repository.RunRepository
	params    *supplier.Table
	cache     cache.ReplenishCache
	artifacts *artifact.Writer
}

func New(cfg Config, repo repository.ArticleRepository, runs repository.RunRepository,
	params *supplier.Table, c cache.ReplenishCache, artifacts *artifact.Writer) *Pipeline {
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = runtime.NumCPU()
	}
	if c == nil {
		c = cache.NewNoopReplenishCache()
	}
	return &Pipeline{
		cfg:       cfg,
		repo:      repo,
		runs:      runs,
		params:    params,
		cache:     c,
		artifacts: artifacts,
	}
}

// Run executes one full recompute anchored at ref. It is idempotent: the
// same inputs and ref always regenerate the same outputs, and prior segment
// assignments are reset before reclassification. A run with no article
// master data at all fails without touching prior outputs.
func (p *Pipeline) Run(ctx context.Context, ref time.Time) (*Stats, error) {
	start := time.Now()

	run := &domain.PipelineRun{
		ReferenceDate: ref,
		Status:        domain.RunProcessing,
		StartedAt:     start,
	}
	if p.runs != nil {
		if err := p.runs.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to create pipeline run: %w", err)
		}
	}

	stats, err := p.execute(ctx, ref)
	if p.runs != nil {
		if err != nil {
			run.Status = domain.RunFailed
			run.ErrorMessage = err.Error()
		} else {
			run.Status = domain.RunCompleted
			run.TotalArticles = stats.Articles
		}
		if finErr := p.runs.CompleteRun(ctx, run); finErr != nil {
			log.Warn().Err(finErr).Msg("failed to finalize pipeline run record")
		}
	}
	if err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

func (p *Pipeline) execute(ctx context.Context, ref time.Time) (*Stats, error) {
	since := ref.AddDate(-HistoryWindowYears, 0, 0)
	txs, err := p.repo.ListTransactions(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	hist := trend.Aggregate(txs, p.cfg.Aggregate)

	articles, err := p.repo.ListArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load articles: %w", err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("no article master data loaded, refusing to overwrite prior outputs")
	}

	log.Info().
		Int("articles", len(articles)).
		Int("transactions", len(txs)).
		Int("articles_with_history", hist.Len()).
		Str("reference", ref.Format("2006-01-02")).
		Msg("starting replenishment recompute")

	records := make([]domain.ComputedArticle, len(articles))
	metrics := make([]domain.TrendMetrics, len(articles))

	var done int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.WorkerCount)

	for i := range articles {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			a := &articles[i]
			series := a.SalesHistory
			if fresh := hist.Series(a.Code); len(fresh) > 0 {
				series = fresh
				a.SalesLast3M = hist.LastCompleteMonths(a.Code, 3, ref)
			}

			m := trend.Estimate(series, hist.Clients(a.Code), ref)
			records[i] = segment.Compute(a, m, p.params.Resolve(a.Supplier))
			metrics[i] = m

			if p.cfg.Progress != nil {
				p.cfg.Progress(int(atomic.AddInt64(&done, 1)), len(articles))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := p.repo.SaveComputed(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to persist computed records: %w", err)
	}

	if p.artifacts != nil {
		byCode := make(map[string]domain.TrendMetrics, len(articles))
		for i := range articles {
			byCode[articles[i].Code] = metrics[i]
		}
		if err := p.artifacts.Write(ctx, byCode); err != nil {
			return nil, fmt.Errorf("failed to write trend artifacts: %w", err)
		}
	}

	if err := p.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed after recompute")
	}
	// Warm the trend cache so the per-article surface serves the same
	// metrics the batch just produced, client mix included. Warming is best
	// effort: one failed write must not leave the rest of the batch cold.
	warmFailed := 0
	for i := range articles {
		if err := p.cache.SetTrend(ctx, articles[i].Code, metrics[i]); err != nil {
			warmFailed++
		}
	}
	if warmFailed > 0 {
		log.Warn().Int("failed", warmFailed).Int("total", len(articles)).Msg("trend cache warm-up incomplete")
	}

	stats := &Stats{
		Articles:     len(articles),
		Transactions: len(txs),
		BySegment:    make(map[domain.Segment]int, len(domain.Segments)),
	}
	for i := range records {
		stats.BySegment[records[i].Segment]++
	}

	log.Info().
		Int("critical", stats.BySegment[domain.SegmentCritical]).
		Int("urgent", stats.BySegment[domain.SegmentUrgent]).
		Int("attention", stats.BySegment[domain.SegmentAttention]).
		Int("ok", stats.BySegment[domain.SegmentOK]).
		Int("overstock", stats.BySegment[domain.SegmentOverstock]).
		Msg("recompute finished")

	return stats, nil
}
