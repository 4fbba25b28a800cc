package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/svillar/quiet/internal/config"
	"github.com/svillar/quiet/internal/database"
	"github.com/svillar/quiet/internal/metrics"
	postgresrepo "github.com/svillar/quiet/internal/repository/postgres"
	"github.com/svillar/quiet/internal/service"
	"github.com/svillar/quiet/internal/storage"
	"github.com/svillar/quiet/internal/transport/http/handlers"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	if err := database.Migrate(ctx, cfg.DatabaseDSN()); err != nil {
		logger.Error("running migrations", "error", err)
		os.Exit(1)
	}
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		logger.Error("connecting to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	sightingRepo := postgresrepo.NewSightingRepo(pool)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	sightingService := service.NewSightingService(sightingRepo)
	imageService := service.NewImageService(cfg.UploadDir)

	var backup *storage.BackupClient
	if cfg.S3Bucket != "" {
		backup, err = storage.NewBackupClient(ctx, cfg)
		if err != nil {
			logger.Error("creating backup client", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("image backup disabled, no S3 bucket configured")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	router := handlers.NewRouter(&handlers.RouterDeps{
		Logger:            logger,
		Metrics:           collector,
		Gatherer:          registry,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		JWTSecret:         cfg.JWTSecret,
		UploadDir:         cfg.UploadDir,
		Users:             userRepo,
		Sightings:         sightingRepo,
		Auth:              authService,
		SightingService:   sightingService,
		Images:            imageService,
		Backup:            backup,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutting down server", "error", err)
		}
	}()

	logger.Info("starting server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
