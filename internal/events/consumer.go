package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler returns nil when the message's offset may be committed. Events
// deliberately dropped (foreign tags, unknown orders) still return nil; an
// error means the same message must be redelivered.
type Handler func(ctx context.Context, m kafka.Message) error

// reader is the slice of kafka.Reader the consumer uses.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer pulls settlement events one at a time. Offsets are committed
// manually after the handler succeeds, so a crash mid-event replays it.
type Consumer struct {
	r       reader
	backoff time.Duration
	log     *zap.Logger
}

func NewConsumer(brokers []string, group, topic string, log *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	return &Consumer{r: r, backoff: 200 * time.Millisecond, log: log}
}

// Run blocks until ctx is cancelled. A failing handler is retried on the
// SAME message with backoff; the offset never advances past an unprocessed
// event, so a transient failure cannot drop a settlement.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	defer c.r.Close()

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		for {
			err := h(ctx, m)
			if err == nil {
				break
			}
			c.log.Error("settlement handler failed",
				zap.Error(err),
				zap.Int64("offset", m.Offset))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.backoff):
			}
		}

		if err := c.r.CommitMessages(ctx, m); err != nil {
			c.log.Error("commit failed", zap.Error(err))
		}
	}
}
