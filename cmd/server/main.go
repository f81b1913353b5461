// Package main is the entry point for the SalesLens API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"saleslens/internal/domain/analytics"
	v1 "saleslens/internal/infrastructure/http/v1"
	"saleslens/internal/infrastructure/storage/postgres"
	"saleslens/internal/infrastructure/storage/postgres/analytics_repo"
	"saleslens/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting saleslens server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// --- Analytics service ---
	analyticsCfg := analytics.DefaultConfig()
	if ratio := getEnv("ANALYTICS_COST_RATIO", ""); ratio != "" {
		d, err := decimal.NewFromString(ratio)
		if err != nil {
			log.Fatalw("invalid ANALYTICS_COST_RATIO", "value", ratio, "error", err)
		}
		analyticsCfg.CostRatio = d
	}
	if minSales := getEnvInt("ANALYTICS_CHURN_MIN_SALES", 0); minSales > 0 {
		analyticsCfg.ChurnMinSales = minSales
	}
	if minDays := getEnvInt("ANALYTICS_CHURN_MIN_DAYS", 0); minDays > 0 {
		analyticsCfg.ChurnMinDays = minDays
	}

	repo := analytics_repo.NewAnalyticsRepo(pool, analyticsCfg)
	service := analytics.NewService(analytics.NewCatalog(), repo)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:      pool,
		Logger:    log,
		Analytics: service,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// Periodic pool stats for operational visibility
	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				postgres.LogPoolStats(statsCtx, pool.Unwrap())
			case <-statsCtx.Done():
				return
			}
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopStats()
	postgres.LogPoolStats(ctx, pool.Unwrap())

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}
