// cmd/recompute/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/covatech/replengo/internal/artifact"
	"github.com/covatech/replengo/internal/cache"
	"github.com/covatech/replengo/internal/domain"
	"github.com/covatech/replengo/internal/pipeline"
	"github.com/covatech/replengo/internal/repository/postgres"
	"github.com/covatech/replengo/internal/supplier"
	"github.com/covatech/replengo/internal/trend"
	"github.com/covatech/replengo/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "recompute",
		Usage: "Recompute segments, order quantities and trend metrics for all articles",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{
				Name:    "supplier-config",
				Usage:   "Path to the supplier parameter JSON file",
				Value:   "./data/supplier_config.json",
				EnvVars: []string{"ENGINE_SUPPLIER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "channel-tag",
				Usage:   "Client-type tag of the final-customer retail channel",
				Value:   "Vanzari Magazin_Client Final",
				EnvVars: []string{"ENGINE_CHANNEL_TAG"},
			},
			&cli.StringFlag{
				Name:    "channel-policy",
				Usage:   "How to treat untagged rows: strict or legacy-include",
				Value:   "strict",
				EnvVars: []string{"ENGINE_CHANNEL_POLICY"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "Number of concurrent compute workers",
				Value:   4,
				EnvVars: []string{"ENGINE_WORKER_COUNT"},
			},
			&cli.StringFlag{
				Name:    "artifact-dir",
				Usage:   "Directory for the seasonality and trend documents",
				Value:   "./data/artifacts",
				EnvVars: []string{"ARTIFACT_DIR"},
			},
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Reference date in YYYY-MM-DD format (defaults to today)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, release)",
				Value: "release",
			},
		},
		Action: runRecompute,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runRecompute(c *cli.Context) error {
	logger.SetLevel(c.String("log-level"))

	ref := time.Now()
	if refStr := c.String("ref"); refStr != "" {
		parsed, err := time.Parse("2006-01-02", refStr)
		if err != nil {
			return fmt.Errorf("invalid reference date %q: %w", refStr, err)
		}
		ref = parsed
	}

	db, err := postgres.NewDBFromURL("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	params, err := supplier.Load(c.String("supplier-config"))
	if err != nil {
		return fmt.Errorf("failed to load supplier parameters: %w", err)
	}

	if err := os.MkdirAll(c.String("artifact-dir"), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	// The progress callback fires from concurrent workers.
	var (
		barMu sync.Mutex
		bar   *progressbar.ProgressBar
	)
	pipe := pipeline.New(pipeline.Config{
		Aggregate: trend.AggregateConfig{
			ChannelTag: c.String("channel-tag"),
			Policy:     trend.ChannelPolicy(c.String("channel-policy")),
		},
		WorkerCount: c.Int("workers"),
		Progress: func(done, total int) {
			barMu.Lock()
			defer barMu.Unlock()
			if bar == nil {
				bar = progressbar.Default(int64(total), "computing")
			}
			_ = bar.Set(done)
		},
	}, postgres.NewArticleRepository(db), postgres.NewRunRepository(db),
		params, cache.NewNoopReplenishCache(), artifact.NewWriter(c.String("artifact-dir"), nil))

	stats, err := pipe.Run(c.Context, ref)
	if err != nil {
		return err
	}

	fmt.Printf("\nProcessed %d articles from %d transactions in %v\n",
		stats.Articles, stats.Transactions, stats.Duration.Round(time.Millisecond))
	for _, seg := range domain.Segments {
		fmt.Printf("  %-10s %d\n", seg, stats.BySegment[seg])
	}
	return nil
}
