package usecase

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
	"golang.org/x/sync/errgroup"

	"github.com/yokitheyo/webpoptimizer/internal/derivative"
	"github.com/yokitheyo/webpoptimizer/internal/domain"
	"github.com/yokitheyo/webpoptimizer/internal/event"
)

type BatchOption func(*BatchUsecase)

// WithWorkers bounds how many records are transcoded at once.
func WithWorkers(n int) BatchOption {
	return func(u *BatchUsecase) {
		if n > 0 {
			u.workers = n
		}
	}
}

// WithDerivativeGuard skips records whose key already lies under the
// derivative prefix, so writing a derivative into a watched container does not
// feed back into the pipeline.
func WithDerivativeGuard(keys derivative.KeyPolicy) BatchOption {
	return func(u *BatchUsecase) {
		u.guard = &keys
	}
}

func WithReporter(r domain.OutcomeReporter) BatchOption {
	return func(u *BatchUsecase) {
		u.reporter = r
	}
}

// BatchUsecase applies the isolation policy: an unparseable notification fails
// the batch before any record runs, a failing record is skipped and its
// siblings continue.
type BatchUsecase struct {
	transcoder domain.TranscoderService
	workers    int
	guard      *derivative.KeyPolicy
	reporter   domain.OutcomeReporter
}

func NewBatchUsecase(transcoder domain.TranscoderService, opts ...BatchOption) *BatchUsecase {
	u := &BatchUsecase{transcoder: transcoder, workers: 1}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *BatchUsecase) Process(ctx context.Context, payload []byte) (*domain.BatchResult, error) {
	records, err := event.Extract(payload)
	return u.run(ctx, records, err)
}

func (u *BatchUsecase) ProcessEvent(ctx context.Context, evt events.S3Event) (*domain.BatchResult, error) {
	records, err := event.FromS3Event(evt)
	return u.run(ctx, records, err)
}

func (u *BatchUsecase) run(ctx context.Context, records []domain.Record, extractErr error) (*domain.BatchResult, error) {
	result := &domain.BatchResult{BatchID: uuid.NewString()}

	if extractErr != nil {
		result.Fatal = true
		result.Err = extractErr
		zlog.Logger.Error().
			Err(extractErr).
			Str("batch_id", result.BatchID).
			Msg("notification batch rejected")
		u.report(ctx, result)
		return result, fmt.Errorf("extract records: %w", extractErr)
	}

	zlog.Logger.Info().
		Str("batch_id", result.BatchID).
		Int("records", len(records)).
		Int("workers", u.workers).
		Msg("processing notification batch")

	// Each record owns its slot, so the result keeps arrival order whatever
	// order the workers finish in.
	result.Outcomes = make([]domain.Outcome, len(records))
	if u.workers <= 1 {
		for i, rec := range records {
			result.Outcomes[i] = u.processRecord(ctx, rec)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(u.workers)
		for i, rec := range records {
			g.Go(func() error {
				result.Outcomes[i] = u.processRecord(ctx, rec)
				return nil
			})
		}
		_ = g.Wait()
	}

	u.report(ctx, result)
	return result, nil
}

func (u *BatchUsecase) processRecord(ctx context.Context, rec domain.Record) domain.Outcome {
	if u.guard != nil && u.guard.IsDerivative(rec.SourceKey) {
		return domain.Skipped(rec, domain.ErrDerivativeSource)
	}

	derivedKey, err := u.transcoder.Transcode(ctx, rec)
	if err != nil {
		return domain.Skipped(rec, err)
	}
	return domain.Success(rec, derivedKey)
}

func (u *BatchUsecase) report(ctx context.Context, result *domain.BatchResult) {
	if u.reporter == nil {
		return
	}
	if err := u.reporter.Report(ctx, result); err != nil {
		zlog.Logger.Warn().
			Err(err).
			Str("batch_id", result.BatchID).
			Msg("failed to report batch outcome")
	}
}
