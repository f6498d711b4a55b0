package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/app"
	"github.com/yokitheyo/webpoptimizer/internal/config"
	"github.com/yokitheyo/webpoptimizer/internal/domain"
	"github.com/yokitheyo/webpoptimizer/internal/infrastructure/kafka"
	"github.com/yokitheyo/webpoptimizer/internal/worker"
)

func main() {
	zlog.Init()
	zlog.Logger.Info().Msg("Starting WebP Optimizer Worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.ValidateKafka(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("invalid kafka config")
	}
	if err := cfg.ApplyLogLevel(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("invalid log level")
	}

	var reporter domain.OutcomeReporter
	if cfg.Kafka.OutcomesTopic != "" {
		producer := kafka.NewProducer(&cfg.Kafka)
		defer producer.Close()
		reporter = producer
	}

	pipeline, err := app.NewPipeline(ctx, cfg, reporter)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to initialize pipeline")
	}
	notificationWorker := worker.NewNotificationWorker(pipeline)

	kafkaConsumer, err := kafka.NewConsumer(&cfg.Kafka, notificationWorker.HandleNotification)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to initialize Kafka consumer")
	}
	defer kafkaConsumer.Close()

	if err := kafkaConsumer.Start(ctx); err != nil {
		zlog.Logger.Error().Err(err).Msg("Kafka consumer error")
	}

	zlog.Logger.Info().Msg("Worker shutdown complete")
}
