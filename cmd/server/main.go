package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stock-predictor-go/internal/analytics"
	"stock-predictor-go/internal/config"
	"stock-predictor-go/internal/database"
	"stock-predictor-go/internal/logger"
	"stock-predictor-go/internal/marketdata"
	"stock-predictor-go/internal/service"
	"stock-predictor-go/internal/workspace"
)

const requestTimeout = 60 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Open the in-memory workspace store
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to open workspace store", zap.Error(err))
	}

	provider, err := marketdata.NewProvider(&cfg.Market, log)
	if err != nil {
		log.Fatal("Failed to create market data provider", zap.Error(err))
	}

	policy := analytics.PolicyFromConfig(cfg.Analytics.Confidence, cfg.Market.Mode)
	noise := analytics.RandomNoise(rand.New(rand.NewSource(time.Now().UnixNano())))
	analyzer := analytics.NewAnalyzer(cfg.Analytics.Window, policy, noise)

	stocks := service.NewStockService(provider, analyzer, log, service.Options{
		HistoryDays: cfg.Analytics.HistoryDays,
		MinQueryLen: cfg.Search.MinQueryLen,
	})
	apiHandler := NewAPIHandler(log, stocks, workspace.NewBoard(db, stocks, log), workspace.NewBook(db, log))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           apiHandler.Routes(requestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Starting web server",
			zap.String("address", addr),
			zap.String("provider", provider.Name()),
			zap.Float64("confidence_floor", policy.Floor),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Web server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info("Server has been shut down.")
}
