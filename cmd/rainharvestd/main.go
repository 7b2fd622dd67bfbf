// Command rainharvestd serves the rainwater harvest planning API and,
// when Kafka brokers are configured, runs the batch scenario evaluation
// pipeline alongside it.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/hydroplan/rainharvest/internal/adapter/http"
	kafkaadapter "github.com/hydroplan/rainharvest/internal/adapter/kafka"
	"github.com/hydroplan/rainharvest/internal/adapter/openmeteo"
	"github.com/hydroplan/rainharvest/internal/config"
	"github.com/hydroplan/rainharvest/internal/domain"
	"github.com/hydroplan/rainharvest/internal/observability"
	"github.com/hydroplan/rainharvest/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Initialize climatology seeding (feature-flagged via CLIMATE_ENABLED).
	var climate domain.ClimatologySource
	if cfg.ClimateEnabled {
		client := openmeteo.NewClient(cfg.ClimateTimeout, logger, metrics)
		climate = openmeteo.NewCachedSource(client, cfg.ClimateCacheSize, metrics)
		metrics.ClimatologyEnabled.Set(1)
		logger.Info("climatology seeding enabled", "cache_size", cfg.ClimateCacheSize, "timeout", cfg.ClimateTimeout)
	} else {
		logger.Info("climatology seeding disabled")
	}

	band := domain.TankBand{MinLiters: cfg.TankBandMinLiters, MaxLiters: cfg.TankBandMaxLiters}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		ready  httpadapter.ReadinessChecker = httpadapter.AlwaysReady
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
		p      *pipeline.Pipeline
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(climate, logger)
		p = pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = p
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, climate, band, logger, metrics)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start scenario pipeline when configured.
	if p != nil {
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
