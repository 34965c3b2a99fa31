// Package trend turns raw per-transaction sales rows into per-article
// monthly aggregates and estimates trend and seasonality metrics from them.
// All calculations take an explicit reference time so a run is reproducible
// regardless of when it executes.
package trend

import (
	"time"

	"github.com/covatech/replengo/internal/domain"
)

// ChannelPolicy decides what happens to transaction rows whose client-type
// tag is empty. Old exports predate the tag entirely; the policy makes the
// choice explicit instead of varying between runs.
type ChannelPolicy string

const (
	// PolicyStrict drops rows without a channel tag.
	PolicyStrict ChannelPolicy = "strict"
	// PolicyLegacyInclude passes untagged rows through as in-scope.
	PolicyLegacyInclude ChannelPolicy = "legacy-include"
)

// AggregateConfig controls the channel filter of the aggregator.
type AggregateConfig struct {
	// ChannelTag identifies the final-customer retail channel; only rows
	// carrying exactly this tag are counted.
	ChannelTag string
	// Policy governs rows with an empty tag.
	Policy ChannelPolicy
}

// History holds the aggregated sales of every article: the monthly series
// and the per-client transaction counts that feed the estimator.
type History struct {
	series  map[string]domain.MonthlyHistory
	clients map[string]map[string]int
}

// Aggregate groups the in-scope transactions by (article, calendar month),
// summing quantities. Rows failing the channel filter are excluded; rows
// from other channels are never silently mixed in.
func Aggregate(rows []Transaction, cfg AggregateConfig) *History {
	h := &History{
		series:  make(map[string]domain.MonthlyHistory),
		clients: make(map[string]map[string]int),
	}

	for _, tx := range rows {
		if !inChannel(tx, cfg) {
			continue
		}

		key := domain.MonthKey(tx.Date.Year(), tx.Date.Month())
		series, ok := h.series[tx.ArticleCode]
		if !ok {
			series = make(domain.MonthlyHistory)
			h.series[tx.ArticleCode] = series
		}
		series[key] += tx.Qty

		if tx.ClientID != "" {
			counts, ok := h.clients[tx.ArticleCode]
			if !ok {
				counts = make(map[string]int)
				h.clients[tx.ArticleCode] = counts
			}
			counts[tx.ClientID]++
		}
	}

	return h
}

func inChannel(tx Transaction, cfg AggregateConfig) bool {
	if tx.ClientTag == "" {
		return cfg.Policy == PolicyLegacyInclude
	}
	return tx.ClientTag == cfg.ChannelTag
}

// Series returns the monthly history of one article, or nil when it never
// sold in the channel.
func (h *History) Series(code string) domain.MonthlyHistory {
	return h.series[code]
}

// Clients returns the per-client transaction counts of one article.
func (h *History) Clients(code string) map[string]int {
	return h.clients[code]
}

// Articles returns the codes of every article present in the history.
func (h *History) Articles() []string {
	codes := make([]string, 0, len(h.series))
	for code := range h.series {
		codes = append(codes, code)
	}
	return codes
}

// Len returns the number of articles with history.
func (h *History) Len() int {
	return len(h.series)
}

// LastCompleteMonths sums an article's sales over the n fully-completed
// calendar months before ref (the month of ref itself is excluded).
func (h *History) LastCompleteMonths(code string, n int, ref time.Time) float64 {
	series := h.series[code]
	if len(series) == 0 {
		return 0
	}

	// Anchor on the first of the reference month so day-of-month overflow
	// can never skip a month.
	anchor := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)

	var total float64
	for i := 1; i <= n; i++ {
		m := anchor.AddDate(0, -i, 0)
		total += series[domain.MonthKey(m.Year(), m.Month())]
	}
	return total
}

// YearTotal sums an article's sales over one calendar year.
func (h *History) YearTotal(code string, year int) float64 {
	return yearTotal(h.series[code], year)
}

func yearTotal(series domain.MonthlyHistory, year int) float64 {
	var total float64
	for m := time.January; m <= time.December; m++ {
		total += series[domain.MonthKey(year, m)]
	}
	return total
}
