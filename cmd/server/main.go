// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mytimarket/shop-reports/internal/api"
	"github.com/mytimarket/shop-reports/internal/cache"
	"github.com/mytimarket/shop-reports/internal/config"
	"github.com/mytimarket/shop-reports/internal/repository"
	"github.com/mytimarket/shop-reports/internal/repository/postgres"
	"github.com/mytimarket/shop-reports/internal/service"
	"github.com/mytimarket/shop-reports/internal/shopify"
	"github.com/mytimarket/shop-reports/internal/storage"
	"github.com/mytimarket/shop-reports/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	var (
		overrideRepo repository.OverrideRepository = postgres.NewOverrideRepository(db)
		archiveRepo  repository.ArchiveRepository  = postgres.NewArchiveRepository(db)
	)

	// Cache falls back to a noop when redis is unreachable
	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, continuing without")
		reportCache = cache.NewNoopReportCache()
	}

	// Object storage is optional
	var store storage.ObjectStorage
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := minioClient.EnsureBucket(ctx); err != nil {
			cancel()
			logger.Log.Fatal().Err(err).Msg("Failed to prepare storage bucket")
		}
		cancel()
		store = minioClient
	}

	reportService := service.NewReportService(overrideRepo, archiveRepo, reportCache, store)

	services := &api.Services{
		ReportService: reportService,
	}
	if cfg.Shopify.StoreDomain != "" && cfg.Shopify.AccessToken != "" {
		client := shopify.NewClient(shopify.Config{
			StoreDomain: cfg.Shopify.StoreDomain,
			AccessToken: cfg.Shopify.AccessToken,
			APIVersion:  cfg.Shopify.APIVersion,
		})
		services.ShopifyService = service.NewShopifyService(client, reportService)
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

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
