package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	kafkaadapter "github.com/atlasboard/country-data-service/internal/adapter/kafka"
	"github.com/atlasboard/country-data-service/internal/adapter/restcountries"
	"github.com/atlasboard/country-data-service/internal/api"
	"github.com/atlasboard/country-data-service/internal/config"
	"github.com/atlasboard/country-data-service/internal/observability"
	"github.com/atlasboard/country-data-service/internal/snapshot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := restcountries.NewClient(cfg.CountriesAPIURL, cfg.CountriesAPITimeout, metrics, logger)

	// Snapshot publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher snapshot.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, metrics, logger)
		publisher = writer
		logger.Info("kafka snapshot publishing enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka snapshot publishing disabled")
	}

	store := snapshot.New(client, publisher, logger, metrics, cfg.SnapshotTTL)
	srv := api.NewServer(cfg.HTTPAddr, store, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the snapshot so the first query doesn't pay the fetch latency.
	go func() {
		if _, err := store.Snapshot(ctx); err != nil {
			logger.Warn("initial snapshot load failed, will retry on demand", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
