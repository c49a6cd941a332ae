package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/madebuy/madebuy-backend/api/controllers"
	"github.com/madebuy/madebuy-backend/api/routes"
	"github.com/madebuy/madebuy-backend/internal/cart"
	"github.com/madebuy/madebuy-backend/internal/personalization"
	"github.com/madebuy/madebuy-backend/internal/pieces"
	"github.com/madebuy/madebuy-backend/internal/uploads"
	"github.com/madebuy/madebuy-backend/pkg/config"
	"github.com/madebuy/madebuy-backend/pkg/db"
	"github.com/madebuy/madebuy-backend/pkg/logger"
	"github.com/madebuy/madebuy-backend/pkg/metrics"
	"github.com/madebuy/madebuy-backend/pkg/migrate"
	"github.com/madebuy/madebuy-backend/pkg/redis"
	"github.com/madebuy/madebuy-backend/pkg/storage/gcs"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer gcsClient.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry := prometheus.NewRegistry()
	uploadMetrics := metrics.NewUploadMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	sessions := personalization.NewSessionStore(cfg.FormSessions.TTL, cfg.FormSessions.SweepInterval)
	sessions.Start(runCtx, logg)

	pieceRepo := pieces.NewRepository(dbClient.DB())

	pieceService, err := pieces.NewService(pieceRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create piece service", err)
		os.Exit(1)
	}

	personalizationService, err := personalization.NewService(
		personalization.NewRepository(dbClient.DB()), pieceRepo, sessions, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create personalization service", err)
		os.Exit(1)
	}

	uploadService, err := uploads.NewService(
		uploads.NewRepository(dbClient.DB()), gcsClient, personalizationService, logg,
		uploadMetrics, cfg.Uploads.MaxUploadMB, cfg.GCS.DownloadURLExpiry)
	if err != nil {
		logg.Error(context.Background(), "failed to create upload service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(
		cart.NewRepository(dbClient.DB()), pieceRepo, personalizationService, logg, cartMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Registry:    registry,
			RedisClient: redisClient,
			Pingers: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
				"gcs":      gcsClient,
			},
			PieceService:           pieceService,
			PersonalizationService: personalizationService,
			UploadService:          uploadService,
			CartService:            cartService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down api server", err)
		}
		logg.Info(ctx, "api server stopped")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}
}
