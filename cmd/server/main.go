package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/api"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/app"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/config"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/logging"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/metrics"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/version"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/warmer"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	m := metrics.New()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.Build(startCtx, cfg, logger, m)
	cancelStart()
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer application.Close()

	// Warm the cache around today
	var w *warmer.Warmer
	if cfg.Warmer.Schedule != "" {
		w = warmer.New(application.BsMonth, application.Services.Converter, application.Pruner, logger)
		if err := w.Start(cfg.Warmer.Schedule); err != nil {
			logger.Fatal("Failed to start cache warmer", zap.Error(err))
		}
		go w.RunOnce(context.Background())
	}

	// Create router
	router := api.NewRouter(application.Services, cfg, logger, m)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version.Version),
			zap.String("cache_backend", cfg.Cache.Backend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if w != nil {
		w.Stop(ctx)
	}
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
