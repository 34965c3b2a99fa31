package repository

import (
	"context"
	"time"

	"github.com/covatech/replengo/internal/domain"
	"github.com/covatech/replengo/internal/trend"
)

// ArticleRepository is the storage contract of the replenishment engine.
// Implementations fetch inputs and persist outputs; they never reimplement
// the classification or quantity formulas.
type ArticleRepository interface {
	// ListArticles loads the full article master set with monthly history.
	ListArticles(ctx context.Context) ([]domain.Article, error)

	// GetArticle loads one article by code, or nil when absent.
	GetArticle(ctx context.Context, code string) (*domain.Article, error)

	// ListTransactions loads raw sales rows on or after since.
	ListTransactions(ctx context.Context, since time.Time) ([]trend.Transaction, error)

	// SaveComputed resets every stored segment and replaces the computed
	// record set in one transaction, so stale classifications cannot
	// survive a run.
	SaveComputed(ctx context.Context, records []domain.ComputedArticle) error

	// ListComputed returns stored computed records for a filter slice,
	// plus the total count before pagination.
	ListComputed(ctx context.Context, filter domain.ArticleFilter) ([]domain.ComputedArticle, int, error)

	// SegmentSummary counts articles per segment for a filter slice.
	SegmentSummary(ctx context.Context, filter domain.ArticleFilter) ([]domain.SegmentSummary, error)
}

// RunRepository records pipeline executions.
type RunRepository interface {
	CreateRun(ctx context.Context, run *domain.PipelineRun) error
	CompleteRun(ctx context.Context, run *domain.PipelineRun) error
}
