// Command analytics starts the standalone query-analytics aggregation
// service.
//
// It consumes SearchEvent records published by linguasearch's HTTP API
// from Kafka, aggregates them in memory (total queries, latency
// percentiles, cache hit rate, top and zero-result queries), periodically
// persists snapshots to PostgreSQL, and exposes an HTTP API at
// GET /api/analytics for dashboards.
//
// Usage:
//
//	go run ./cmd/analytics [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/analytics/aggregator"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting analytics service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.SearchEvents, nil)
	agg := analytics.NewAggregator(consumer)
	consumer = kafka.NewConsumer(cfg.Kafka, cfg.Kafka.SearchEvents, analytics.HandleEvent(agg))
	agg = analytics.NewAggregator(consumer)

	go func() {
		if err := agg.Start(ctx); err != nil {
			slog.Error("aggregator error", "error", err)
		}
	}()
	slog.Info("analytics aggregator started", "topic", cfg.Kafka.SearchEvents)

	var store *aggregator.Store
	if pgClient, err := postgres.New(cfg.Postgres); err != nil {
		slog.Warn("postgres unavailable, snapshot persistence disabled", "error", err)
	} else {
		defer pgClient.Close()
		store = aggregator.NewStore(pgClient)
		store.StartPeriodicSave(ctx, agg, 60*time.Second)
	}

	analyticsHandler := analytics.NewHandler(agg)

	checker := health.NewChecker()
	checker.Register("kafka_consumer", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{Status: health.StatusUp, Message: "consumer active"}
	})
	if store != nil {
		checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
			if _, err := store.LatestSnapshot(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/analytics", analyticsHandler.Stats)
	mux.Handle("GET /healthz", checker.LiveHandler())
	mux.Handle("GET /readyz", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.CORS(middleware.DefaultCORSConfig())(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("analytics service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("analytics service stopped")
}
