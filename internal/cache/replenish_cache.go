package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/covatech/replengo/internal/config"
	"github.com/covatech/replengo/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	summaryKeyPrefix = "replenish:summary"
	trendKeyPrefix   = "replenish:trend"
	scanBatchSize    = 100
)

// ReplenishCache keeps the segment summary and per-article trend artifacts
// warm between recomputes. Reads are best effort: a cache failure falls
// through to the repository.
type ReplenishCache interface {
	GetSummary(ctx context.Context, filter domain.ArticleFilter) ([]domain.SegmentSummary, bool, error)
	SetSummary(ctx context.Context, filter domain.ArticleFilter, summaries []domain.SegmentSummary) error
	GetTrend(ctx context.Context, code string) (*domain.TrendMetrics, bool, error)
	SetTrend(ctx context.Context, code string, metrics domain.TrendMetrics) error
	InvalidateAll(ctx context.Context) error
}

type redisReplenishCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReplenishCache struct{}

func NewReplenishCache(cfg config.CacheConfig) (ReplenishCache, error) {
	if !cfg.Enabled {
		return &noopReplenishCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReplenishCache{client: client, ttl: ttl}, nil
}

func NewNoopReplenishCache() ReplenishCache {
	return &noopReplenishCache{}
}

func (c *redisReplenishCache) GetSummary(ctx context.Context, filter domain.ArticleFilter) ([]domain.SegmentSummary, bool, error) {
	payload, err := c.client.Get(ctx, summaryKey(filter)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summaries []domain.SegmentSummary
	if err := json.Unmarshal(payload, &summaries); err != nil {
		return nil, false, fmt.Errorf("decode segment summary cache: %w", err)
	}

	return summaries, true, nil
}

func (c *redisReplenishCache) SetSummary(ctx context.Context, filter domain.ArticleFilter, summaries []domain.SegmentSummary) error {
	payload, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("encode segment summary cache: %w", err)
	}

	if err := c.client.Set(ctx, summaryKey(filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReplenishCache) GetTrend(ctx context.Context, code string) (*domain.TrendMetrics, bool, error) {
	payload, err := c.client.Get(ctx, trendKey(code)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var metrics domain.TrendMetrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		return nil, false, fmt.Errorf("decode trend cache: %w", err)
	}

	return &metrics, true, nil
}

func (c *redisReplenishCache) SetTrend(ctx context.Context, code string, metrics domain.TrendMetrics) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode trend cache: %w", err)
	}

	if err := c.client.Set(ctx, trendKey(code), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReplenishCache) InvalidateAll(ctx context.Context) error {
	if err := deleteKeysWithPrefix(ctx, c.client, summaryKeyPrefix, scanBatchSize); err != nil {
		return err
	}
	return deleteKeysWithPrefix(ctx, c.client, trendKeyPrefix, scanBatchSize)
}

func (n *noopReplenishCache) GetSummary(ctx context.Context, filter domain.ArticleFilter) ([]domain.SegmentSummary, bool, error) {
	return nil, false, nil
}

func (n *noopReplenishCache) SetSummary(ctx context.Context, filter domain.ArticleFilter, summaries []domain.SegmentSummary) error {
	return nil
}

func (n *noopReplenishCache) GetTrend(ctx context.Context, code string) (*domain.TrendMetrics, bool, error) {
	return nil, false, nil
}

func (n *noopReplenishCache) SetTrend(ctx context.Context, code string, metrics domain.TrendMetrics) error {
	return nil
}

func (n *noopReplenishCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func summaryKey(filter domain.ArticleFilter) string {
	parts := []string{}
	if filter.Segment != "" {
		parts = append(parts, "segment="+strings.ToUpper(strings.TrimSpace(filter.Segment)))
	}
	if filter.Supplier != "" {
		parts = append(parts, "supplier="+strings.TrimSpace(filter.Supplier))
	}
	if len(parts) == 0 {
		return summaryKeyPrefix + ":all"
	}
	return summaryKeyPrefix + ":" + strings.Join(parts, "&")
}

func trendKey(code string) string {
	return trendKeyPrefix + ":" + code
}
