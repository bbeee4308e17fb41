package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/postgres"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/clock"
)

const relayBatchSize = 50

// Publisher is satisfied by ShippingPublisher; split out so relay tests can
// observe publishes without a broker.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// OutboxRelay drains the outbox written during order persistence. A publish
// failure leaves the row unmarked, so the event is retried on the next tick;
// consumers must tolerate the resulting duplicates.
type OutboxRelay struct {
	outbox    *postgres.OutboxRepository
	publisher Publisher
	clock     clock.Clock
	interval  time.Duration
	logger    *slog.Logger
}

func NewOutboxRelay(
	outbox *postgres.OutboxRepository,
	publisher Publisher,
	clk clock.Clock,
	interval time.Duration,
	logger *slog.Logger,
) *OutboxRelay {
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		clock:     clk,
		interval:  interval,
		logger:    logger,
	}
}

// Run polls until the context is canceled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.DrainOnce(ctx); err != nil {
				r.logger.Error("outbox drain failed", "error", err.Error())
			}
		}
	}
}

// DrainOnce publishes one batch of pending events. Row locks are held for
// the duration of the batch so a second relay instance skips these rows.
func (r *OutboxRelay) DrainOnce(ctx context.Context) error {
	return r.outbox.WithTx(ctx, func(ctx context.Context) error {
		msgs, err := r.outbox.FetchUnpublished(ctx, relayBatchSize)
		if err != nil {
			return err
		}

		for _, m := range msgs {
			if err := r.publisher.Publish(ctx, m.Key, m.Payload); err != nil {
				// Leave the row pending; it is retried next tick.
				r.logger.Warn("shipping event publish failed, will retry",
					"outbox_id", m.ID,
					"key", m.Key,
					"error", err.Error())
				continue
			}
			if err := r.outbox.MarkPublished(ctx, m.ID, r.clock.Now()); err != nil {
				return err
			}
			r.logger.Info("shipping event published", "outbox_id", m.ID, "key", m.Key)
		}
		return nil
	})
}
