package app

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/config"
	"github.com/yokitheyo/webpoptimizer/internal/derivative"
	"github.com/yokitheyo/webpoptimizer/internal/domain"
	"github.com/yokitheyo/webpoptimizer/internal/infrastructure/processor"
	"github.com/yokitheyo/webpoptimizer/internal/infrastructure/storage"
	"github.com/yokitheyo/webpoptimizer/internal/usecase"
)

// NewPipeline builds the batch pipeline from config. The storage client is
// created here once and shared by every batch the process handles.
func NewPipeline(ctx context.Context, cfg *config.Config, reporter domain.OutcomeReporter) (*usecase.BatchUsecase, error) {
	store, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return NewPipelineWithStore(store, cfg.Processing, reporter), nil
}

func NewPipelineWithStore(store domain.BlobStore, cfg config.ProcessingConfig, reporter domain.OutcomeReporter) *usecase.BatchUsecase {
	keys := derivative.NewKeyPolicy(cfg.DerivativePrefix, cfg.TargetExtension)
	transcoder := usecase.NewTranscoderUsecase(store, processor.NewWebPCodec(), keys, cfg.QualityOrDefault())

	opts := []usecase.BatchOption{usecase.WithWorkers(cfg.Workers)}
	if cfg.SkipDerivativesOrDefault() {
		opts = append(opts, usecase.WithDerivativeGuard(keys))
	}
	if reporter != nil {
		opts = append(opts, usecase.WithReporter(reporter))
	}

	zlog.Logger.Info().
		Str("derivative_prefix", keys.Prefix).
		Str("target_extension", keys.Extension).
		Int("quality", cfg.QualityOrDefault()).
		Int("workers", cfg.Workers).
		Bool("skip_derivatives", cfg.SkipDerivativesOrDefault()).
		Msg("Pipeline initialized")

	return usecase.NewBatchUsecase(transcoder, opts...)
}
