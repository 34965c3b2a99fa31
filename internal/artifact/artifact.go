// Package artifact serializes the trend/seasonality outputs of a run into
// JSON documents keyed by article code, for any downstream presentation
// layer to consume.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/covatech/replengo/internal/domain"
	"github.com/covatech/replengo/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	SeasonalityFile = "seasonality.json"
	TrendsFile      = "trends.json"
)

// SeasonalityEntry is the compact per-article seasonality record.
type SeasonalityEntry struct {
	SeasonalityIndex float64      `json:"seasonality_index"`
	IsRisingStar     bool         `json:"is_rising_star"`
	Trend            domain.Trend `json:"trend"`
}

// TrendEntry is the detailed per-article trend record.
type TrendEntry struct {
	YoYGrowth          float64 `json:"yoy_growth"`
	Acceleration       float64 `json:"acceleration"`
	Volatility         float64 `json:"volatility"`
	RepeatRate         float64 `json:"repeat_rate"`
	AvgOrdersPerClient float64 `json:"avg_orders_per_client"`
	UniqueClients      int     `json:"unique_clients"`
	PeakMonth          int     `json:"peak_month"`
	PeakMonthPct       float64 `json:"peak_month_pct"`
}

// Writer persists the artifacts to a local directory and, when configured,
// mirrors them to object storage. Upload failures are logged, not fatal:
// the local artifact is the source consumers read first.
type Writer struct {
	dir    string
	remote storage.ObjectStorage
}

func NewWriter(dir string, remote storage.ObjectStorage) *Writer {
	return &Writer{dir: dir, remote: remote}
}

// Write serializes both documents from the run's metric set.
func (w *Writer) Write(ctx context.Context, metrics map[string]domain.TrendMetrics) error {
	seasonality := make(map[string]SeasonalityEntry, len(metrics))
	trends := make(map[string]TrendEntry, len(metrics))

	for code, m := range metrics {
		seasonality[code] = SeasonalityEntry{
			SeasonalityIndex: m.SeasonalityIndex,
			IsRisingStar:     m.IsRisingStar,
			Trend:            m.Trend,
		}
		trends[code] = TrendEntry{
			YoYGrowth:          m.YoYGrowth,
			Acceleration:       m.Acceleration,
			Volatility:         m.Volatility,
			RepeatRate:         m.RepeatRate,
			AvgOrdersPerClient: m.AvgOrdersPerClient,
			UniqueClients:      m.UniqueClients,
			PeakMonth:          m.PeakMonth,
			PeakMonthPct:       m.PeakMonthPct,
		}
	}

	if err := w.writeOne(ctx, SeasonalityFile, seasonality); err != nil {
		return err
	}
	return w.writeOne(ctx, TrendsFile, trends)
}

func (w *Writer) writeOne(ctx context.Context, name string, doc interface{}) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact %s: %w", name, err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create artifact dir %s: %w", w.dir, err)
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}

	if w.remote != nil {
		if err := w.remote.UploadObject(ctx, name, payload, "application/json"); err != nil {
			log.Warn().Err(err).Str("artifact", name).Msg("artifact upload failed, keeping local copy")
		}
	}

	return nil
}

// Load reads a previously written artifact back, for serving without a
// recompute.
func Load[T any](dir, name string) (map[string]T, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}

	var doc map[string]T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	return doc, nil
}
