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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	kafkaadapter "github.com/geosift/s2extract/internal/adapter/kafka"
	parquetadapter "github.com/geosift/s2extract/internal/adapter/parquet"
	"github.com/geosift/s2extract/internal/adapter/raster"
	"github.com/geosift/s2extract/internal/adapter/stac"
	"github.com/geosift/s2extract/internal/config"
	"github.com/geosift/s2extract/internal/domain"
	"github.com/geosift/s2extract/internal/observability"
	"github.com/geosift/s2extract/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Optional /metrics listener for scrape-based monitoring of long runs.
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadTimeout: 10 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
		logger.Info("metrics listener started", "addr", cfg.MetricsAddr)
	}

	catalog := stac.NewClient(cfg.STACEndpoint, cfg.SignEndpoint, cfg.HTTPTimeout, logger)
	rasters := raster.NewSource(logger)
	writer := parquetadapter.NewWriter(logger)

	// Announcements are feature-flagged via KAFKA_BROKERS.
	var announcer domain.Announcer
	if cfg.KafkaEnabled {
		a := kafkaadapter.NewAnnouncer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer func() {
			if err := a.Close(); err != nil {
				logger.Error("kafka announcer close error", "error", err)
			}
		}()
		announcer = a
		logger.Info("dataset announcements enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("dataset announcements disabled")
	}

	p := pipeline.New(catalog, rasters, rasters, writer, announcer, logger, metrics, pipeline.Config{
		Query:           cfg.Query(),
		Bands:           domain.SentinelBands(),
		ReferenceBand:   cfg.ReferenceBand,
		CropSize:        cfg.CropSize,
		OutputFile:      cfg.OutputFile,
		ReadConcurrency: cfg.ReadConcurrency,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Run(ctx); err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}
}
