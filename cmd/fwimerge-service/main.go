package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/fwi-merge-service/internal/adapter/httpadapter"
	"github.com/couchcryptid/fwi-merge-service/internal/adapter/influx"
	kafkaadapter "github.com/couchcryptid/fwi-merge-service/internal/adapter/kafka"
	"github.com/couchcryptid/fwi-merge-service/internal/config"
	"github.com/couchcryptid/fwi-merge-service/internal/merge"
	"github.com/couchcryptid/fwi-merge-service/internal/observability"
	"github.com/couchcryptid/fwi-merge-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

type closer interface {
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store := merge.NewStore(cfg.MergePolicy, cfg.MergeCacheSize,
		merge.WithEvictionHook(func(key string) {
			metrics.StoreEvictions.Inc()
			logger.Debug("merge slot evicted", "key", key)
		}),
	)
	logger.Info("merge store ready",
		"policy", cfg.MergePolicy,
		"cache_size", cfg.MergeCacheSize,
		"reject_invalid", cfg.RejectInvalid,
	)

	reader := kafkaadapter.NewReader(cfg, logger)
	closers := []closer{reader}

	var (
		sinks     []pipeline.Sink
		readiness []sharedobs.ReadinessChecker
	)
	if cfg.HasSink(config.SinkKafka) {
		writer := kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, pipeline.Sink{Name: config.SinkKafka, Loader: writer})
		closers = append(closers, writer)
	}
	if cfg.HasSink(config.SinkInflux) {
		writer, err := influx.NewWriter(cfg, logger)
		if err != nil {
			logger.Error("failed to create influx writer", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, pipeline.Sink{Name: config.SinkInflux, Loader: writer})
		readiness = append(readiness, writer)
		closers = append(closers, writer)
	}
	logger.Info("sinks enabled", "sinks", cfg.Sinks)

	transformer := pipeline.NewTransformer(store, cfg.RejectInvalid, logger, metrics)
	loader := pipeline.NewMultiLoader(metrics, sinks...)

	p := pipeline.New(reader, transformer, loader, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.AllReady(append([]sharedobs.ReadinessChecker{p}, readiness...)...), store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start merge pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Error("close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
