// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/covatech/replengo/internal/api"
	"github.com/covatech/replengo/internal/artifact"
	"github.com/covatech/replengo/internal/cache"
	"github.com/covatech/replengo/internal/config"
	"github.com/covatech/replengo/internal/pipeline"
	"github.com/covatech/replengo/internal/repository/postgres"
	"github.com/covatech/replengo/internal/service"
	"github.com/covatech/replengo/internal/storage"
	"github.com/covatech/replengo/internal/supplier"
	"github.com/covatech/replengo/internal/trend"
	"github.com/covatech/replengo/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Supplier parameters
	params, err := supplier.Load(cfg.Engine.SupplierConfigPath)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("path", cfg.Engine.SupplierConfigPath).
			Msg("Failed to load supplier parameters")
	}
	logger.Log.Info().Int("suppliers", params.Len()).Msg("Supplier parameters loaded")

	// Cache
	replenishCache, err := cache.NewReplenishCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, running without it")
		replenishCache = cache.NewNoopReplenishCache()
	}

	// Artifact sink, optionally mirrored to object storage
	var remote storage.ObjectStorage
	if cfg.Artifact.UploadEnabled {
		s3, err := storage.NewS3Client(storage.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			Region:    cfg.Artifact.Region,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize artifact storage")
		}
		remote = s3
	}
	artifacts := artifact.NewWriter(cfg.Artifact.Dir, remote)

	// Repositories and pipeline
	articleRepo := postgres.NewArticleRepository(db)
	runRepo := postgres.NewRunRepository(db)
	pipe := pipeline.New(pipeline.Config{
		Aggregate: trend.AggregateConfig{
			ChannelTag: cfg.Engine.ChannelTag,
			Policy:     trend.ChannelPolicy(cfg.Engine.ChannelPolicy),
		},
		WorkerCount: cfg.Engine.WorkerCount,
	}, articleRepo, runRepo, params, replenishCache, artifacts)

	// Services
	replenishService := service.NewReplenishService(articleRepo, replenishCache, params, pipe)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{ReplenishService: replenishService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
