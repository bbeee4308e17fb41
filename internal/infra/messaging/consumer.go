package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/shipping"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/config"

	"github.com/segmentio/kafka-go"
)

// EventHandler processes one shipping event. Implementations must be
// idempotent: the channel may deliver the same event more than once.
type EventHandler interface {
	HandleEvent(ctx context.Context, event shipping.Event) error
}

type ShippingConsumer struct {
	reader  *kafka.Reader
	handler EventHandler
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewShippingConsumer(cfg config.KafkaConfig, handler EventHandler, logger *slog.Logger) *ShippingConsumer {
	return &ShippingConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			GroupID:  cfg.ConsumerGroup,
			Topic:    cfg.ShippingTopic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		handler: handler,
		logger:  logger,
	}
}

// Start consumes until the context is canceled. Malformed events are logged
// and committed so they are never retried; handler failures leave the offset
// uncommitted and the event is redelivered.
func (c *ShippingConsumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.Info("shipping consumer started", "topic", c.reader.Config().Topic)

		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.Info("shipping consumer shutting down")
					return
				}
				c.logger.Error("failed to fetch message, retrying", "error", err.Error())
				time.Sleep(time.Second)
				continue
			}

			if c.processMessage(ctx, msg) {
				if err := c.reader.CommitMessages(ctx, msg); err != nil {
					c.logger.Error("failed to commit offset", "error", err.Error())
				}
			}
		}
	}()
}

func (c *ShippingConsumer) Stop() error {
	err := c.reader.Close()
	c.wg.Wait()
	return err
}

// processMessage reports whether the offset should be committed.
func (c *ShippingConsumer) processMessage(ctx context.Context, msg kafka.Message) bool {
	var event shipping.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Warn("dropping malformed shipping event",
			"key", string(msg.Key),
			"error", err.Error())
		return true
	}

	if err := event.Validate(); err != nil {
		c.logger.Warn("dropping invalid shipping event",
			"confirmation_number", event.ConfirmationNumber,
			"error", err.Error())
		return true
	}

	if err := c.handler.HandleEvent(ctx, event); err != nil {
		c.logger.Error("shipping event handling failed, leaving for redelivery",
			"confirmation_number", event.ConfirmationNumber,
			"error", err.Error())
		return false
	}
	return true
}
