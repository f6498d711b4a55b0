package kafka

import (
	"context"
	"fmt"
	"time"

	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/config"
)

// MessageHandler receives one raw bucket notification. A non-nil error means
// the notification itself is malformed.
type MessageHandler func(ctx context.Context, payload []byte) error

type Consumer struct {
	client  *wbfkafka.Consumer
	handler MessageHandler
	topic   string
}

func NewConsumer(cfg *config.KafkaConfig, handler MessageHandler) (*Consumer, error) {
	client := wbfkafka.NewConsumer(cfg.Brokers, cfg.Topic, cfg.GroupID)

	zlog.Logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Str("group_id", cfg.GroupID).
		Msg("Kafka consumer initialized (WB)")

	return &Consumer{
		client:  client,
		handler: handler,
		topic:   cfg.Topic,
	}, nil
}

func (c *Consumer) Start(ctx context.Context) error {
	strategy := retry.Strategy{
		Attempts: 3,
		Delay:    2 * time.Second,
		Backoff:  2.0,
	}

	for {
		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("Kafka consumer stopped")
			return nil
		default:
			msg, err := c.client.FetchWithRetry(ctx, strategy)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				zlog.Logger.Error().Err(err).Msg("Failed to fetch Kafka message")
				time.Sleep(time.Second)
				continue
			}

			zlog.Logger.Debug().
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Int("bytes", len(msg.Value)).
				Msg("Received bucket notification")

			if err := c.handle(ctx, msg.Value); err != nil {
				zlog.Logger.Error().
					Err(err).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("Malformed notification dropped, offset committed")
			}

			if err := c.client.Commit(ctx, msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Int64("offset", msg.Offset).
					Msg("Failed to commit message")
				continue
			}
		}
	}
}

// handle runs the handler for one message. The group reader has already moved
// past the message, so every message is committed afterwards: a malformed
// notification cannot be redelivered and is dropped with an error log.
func (c *Consumer) handle(ctx context.Context, payload []byte) error {
	if err := c.handler(ctx, payload); err != nil {
		return fmt.Errorf("handle notification: %w", err)
	}
	return nil
}

func (c *Consumer) Close() error {
	if err := c.client.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		return err
	}
	zlog.Logger.Info().Msg("Kafka consumer closed successfully")
	return nil
}
