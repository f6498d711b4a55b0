package kafka

import (
	"context"
	"encoding/json"
	"time"

	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/config"
	"github.com/yokitheyo/webpoptimizer/internal/domain"
	"github.com/yokitheyo/webpoptimizer/internal/dto"
)

// Producer publishes batch reports to kafka.outcomes_topic.
type Producer struct {
	client *wbfkafka.Producer
	topic  string
}

func NewProducer(cfg *config.KafkaConfig) *Producer {
	client := wbfkafka.NewProducer(cfg.Brokers, cfg.OutcomesTopic)
	zlog.Logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.OutcomesTopic).
		Msg("Kafka producer initialized (wbf)")
	return &Producer{
		client: client,
		topic:  cfg.OutcomesTopic,
	}
}

// Report implements domain.OutcomeReporter. Reports are keyed by batch id.
func (p *Producer) Report(ctx context.Context, result *domain.BatchResult) error {
	data, err := json.Marshal(dto.MapBatchToReport(result))
	if err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("batch_id", result.BatchID).
			Msg("Failed to marshal batch report")
		return err
	}
	strategy := retry.Strategy{
		Attempts: 3,
		Delay:    500 * time.Millisecond,
		Backoff:  2.0,
	}
	if err := p.client.SendWithRetry(ctx, strategy, []byte(result.BatchID), data); err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("batch_id", result.BatchID).
			Msg("Failed to send batch report")
		return err
	}
	zlog.Logger.Debug().
		Str("batch_id", result.BatchID).
		Str("topic", p.topic).
		Msg("Batch report sent to Kafka")
	return nil
}

func (p *Producer) Close() error {
	if err := p.client.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	zlog.Logger.Info().Msg("Kafka producer closed successfully")
	return nil
}
