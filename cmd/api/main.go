package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"textapi/internal/config"
	"textapi/internal/database"
	"textapi/internal/database/migration"
	handlers "textapi/internal/http/handler"
	"textapi/internal/http/middleware"
	"textapi/internal/logger"
	"textapi/internal/metrics"
	"textapi/internal/otel"
	"textapi/internal/repository/sqlstore"
	"textapi/internal/service"
	"textapi/internal/storage"
)

// multipart framing and the other form fields ride on top of the file itself.
const bodyLimitSlack = 1 << 20

// @title        Text Analysis API
// @version      1.0
// @description  Upload text files and run word-count analyses over them.
// @BasePath     /
func main() {
	if err := run(); err != nil {
		slog.Error("server_exit", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.Up(ctx, db, cfg.Database.Driver); err != nil {
			return err
		}
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	fileRepo := sqlstore.NewFileStore(db)
	analysisRepo := sqlstore.NewAnalysisStore(db)
	fileSvc := service.NewFileService(store, fileRepo, cfg.MaxUploadBytes, service.WithRecorder(recorder))
	analysisSvc := service.NewAnalysisService(store, fileRepo, analysisRepo, service.WithRecorder(recorder))

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(log),
		BodyLimit:             int(cfg.MaxUploadBytes) + bodyLimitSlack,
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())
	app.Use(middleware.Logger(log))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:       db,
		Files:    fileSvc,
		Analyses: analysisSvc,
		Gatherer: reg,
	}, handlers.Options{StrictErrors: cfg.StrictErrors, Logger: log})

	addr := ":" + cfg.Port
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server_started",
			slog.String("addr", addr),
			slog.String("db_driver", cfg.Database.Driver),
			slog.String("storage_backend", cfg.StorageBackend),
			slog.Bool("strict_errors", cfg.StrictErrors),
		)
		serverErr <- app.Listen(addr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	timeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
	shutdownErr := app.ShutdownWithTimeout(timeout)

	flushCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Warn("tracing_shutdown_failed", slog.String("error", err.Error()))
	}

	if shutdownErr != nil {
		return fmt.Errorf("shutdown: %w", shutdownErr)
	}
	if err := <-serverErr; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("listen: %w", err)
	}
	log.Info("server_stopped")
	return nil
}

func newStorage(ctx context.Context, cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageMinIO:
		return storage.NewMinIO(ctx, cfg.MinIO)
	default:
		return storage.NewLocal(cfg.UploadDir)
	}
}
