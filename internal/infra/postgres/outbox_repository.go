package postgres

import (
	"context"
	"time"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxMessage is a pending event enqueued in the same transaction as the
// business write it belongs to. The relay publishes and marks it afterwards,
// giving at-least-once delivery without a distributed transaction.
type OutboxMessage struct {
	ID        int64
	Topic     string
	Key       string
	Payload   []byte
	CreatedAt time.Time
}

type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, topic, key string, payload []byte, now time.Time) error {
	const stmt = `
INSERT INTO outbox_events (topic, key, payload, created_at)
VALUES ($1, $2, $3, $4)`

	_, err := conn(ctx, r.pool).Exec(ctx, stmt, topic, key, payload, now)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to enqueue outbox event", err)
	}
	return nil
}

// FetchUnpublished locks a batch of pending events so concurrent relays never
// double-publish within the same poll. SKIP LOCKED keeps relays from queueing
// behind each other.
func (r *OutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error) {
	const query = `
SELECT id, topic, key, payload, created_at
FROM outbox_events
WHERE published_at IS NULL
ORDER BY id
LIMIT $1
FOR UPDATE SKIP LOCKED`

	rows, err := conn(ctx, r.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to fetch outbox events", err)
	}
	defer rows.Close()

	var msgs []OutboxMessage
	for rows.Next() {
		var m OutboxMessage
		if err := rows.Scan(&m.ID, &m.Topic, &m.Key, &m.Payload, &m.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan outbox event", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read outbox events", err)
	}
	return msgs, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id int64, now time.Time) error {
	const stmt = `
UPDATE outbox_events
SET published_at = $2
WHERE id = $1`

	_, err := conn(ctx, r.pool).Exec(ctx, stmt, id, now)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to mark outbox event published", err)
	}
	return nil
}

// WithTx spans FetchUnpublished and MarkPublished so the row locks survive
// until the publish attempt resolves.
func (r *OutboxRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}
