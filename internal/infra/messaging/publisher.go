// Package messaging implements the asynchronous shipping channel: a Kafka
// producer fed by a transactional outbox on the order side, and a consumer
// group on the shipping side. Delivery is at-least-once end to end.
package messaging

import (
	"context"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/config"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

type ShippingPublisher struct {
	writer *kafka.Writer
}

func NewShippingPublisher(cfg config.KafkaConfig) *ShippingPublisher {
	return &ShippingPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.ShippingTopic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish keys the message by confirmation number so redeliveries of the
// same order land on the same partition.
func (p *ShippingPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return errs.Wrap(err, "failed to publish shipping event")
	}
	return nil
}

func (p *ShippingPublisher) Close() error {
	return p.writer.Close()
}
