// Command lambda is the AWS Lambda entry point: it receives S3 object-created
// events and writes a WebP derivative next to each new image.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/app"
	"github.com/yokitheyo/webpoptimizer/internal/config"
	"github.com/yokitheyo/webpoptimizer/internal/worker"
)

func main() {
	zlog.Init()

	cfg, err := config.FromEnv()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.ApplyLogLevel(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("invalid log level")
	}

	// Built at cold start and reused by every warm invocation.
	pipeline, err := app.NewPipeline(context.Background(), cfg, nil)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to initialize pipeline")
	}

	notificationWorker := worker.NewNotificationWorker(pipeline)
	lambda.Start(notificationWorker.HandleS3Event)
}
