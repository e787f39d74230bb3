package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/adapter/http"
	kafkaadapter "github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/adapter/kafka"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/classifier"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/config"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/observability"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "quake-alert")
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Models load once, before the server accepts traffic. Without them the
	// service has nothing to serve.
	provider := classifier.NewProvider(cfg.Models, func(ctx context.Context, specs []domain.ModelSpec) (*classifier.Service, error) {
		return classifier.Load(ctx, specs, classifier.LoadArtifact, logger, metrics)
	})
	svc, err := provider.Service(ctx)
	if err != nil {
		logger.Error("failed to load models", "error", err)
		os.Exit(1)
	}
	logger.Info("models ready", "models", svc.Models())

	// Prediction events (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var (
		loader pipeline.EventLoader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		logger.Info("prediction event publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("prediction event publishing disabled")
	}

	p := pipeline.New(svc, loader, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, provider, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
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
