package worker

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/domain"
)

// NotificationWorker adapts an invocation harness to the batch pipeline. It
// fails only when the notification itself is malformed.
type NotificationWorker struct {
	batchService domain.BatchService
}

func NewNotificationWorker(batchService domain.BatchService) *NotificationWorker {
	return &NotificationWorker{
		batchService: batchService,
	}
}

func (w *NotificationWorker) HandleNotification(ctx context.Context, payload []byte) error {
	result, err := w.batchService.Process(ctx, payload)
	return w.finish(result, err)
}

func (w *NotificationWorker) HandleS3Event(ctx context.Context, evt events.S3Event) error {
	result, err := w.batchService.ProcessEvent(ctx, evt)
	return w.finish(result, err)
}

func (w *NotificationWorker) finish(result *domain.BatchResult, err error) error {
	if err != nil {
		return fmt.Errorf("process notification: %w", err)
	}

	LogOutcomes(result)

	return nil
}

// LogOutcomes writes one warning per skipped record, tagged with the failed
// step when there is one, and a summary line for the batch.
func LogOutcomes(result *domain.BatchResult) {
	for _, o := range result.Outcomes {
		if !o.IsSkipped() {
			continue
		}
		entry := zlog.Logger.Warn().
			Err(o.Err).
			Str("batch_id", result.BatchID).
			Str("container", o.Record.Container).
			Str("key", o.Record.SourceKey)
		if step, ok := domain.StepOf(o.Err); ok {
			entry = entry.Str("step", string(step))
		}
		entry.Msg("record skipped")
	}

	zlog.Logger.Info().
		Str("batch_id", result.BatchID).
		Int("records", len(result.Outcomes)).
		Int("succeeded", result.Succeeded()).
		Int("skipped", result.Skipped()).
		Msg("notification batch processed")
}
