package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IdempotencyRecord tracks a processed checkout key so a retried client
// request returns the original result instead of re-executing the saga.
type IdempotencyRecord struct {
	Key                uuid.UUID
	Endpoint           string
	RequestHash        string
	Status             string
	ConfirmationNumber *string
	ExpiresAt          time.Time
}

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyRepository struct {
	pool *pgxpool.Pool
}

func NewIdempotencyRepository(pool *pgxpool.Pool) *IdempotencyRepository {
	return &IdempotencyRepository{pool: pool}
}

// TryInsert claims the key and reports whether this call inserted the row.
// ON CONFLICT DO NOTHING makes the claim race-safe; a false return means
// another request already holds the key and the caller must read the row
// back to decide between replay and in-progress conflict.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	const stmt = `
INSERT INTO idempotency_keys (key, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (key, endpoint) DO NOTHING`

	tag, err := conn(ctx, r.pool).Exec(ctx, stmt, key, endpoint, requestHash, IdempotencyStatusProcessing, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to insert idempotency key", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key uuid.UUID, endpoint string) (*IdempotencyRecord, error) {
	const query = `
SELECT key, endpoint, request_hash, status, confirmation_number, expires_at
FROM idempotency_keys
WHERE key = $1 AND endpoint = $2`

	var rec IdempotencyRecord
	err := conn(ctx, r.pool).QueryRow(ctx, query, key, endpoint).
		Scan(&rec.Key, &rec.Endpoint, &rec.RequestHash, &rec.Status, &rec.ConfirmationNumber, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "idempotency key not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to get idempotency key", err)
	}
	return &rec, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, key uuid.UUID, endpoint, confirmationNumber string) error {
	const stmt = `
UPDATE idempotency_keys
SET status = $3, confirmation_number = $4
WHERE key = $1 AND endpoint = $2`

	_, err := conn(ctx, r.pool).Exec(ctx, stmt, key, endpoint, IdempotencyStatusCompleted, confirmationNumber)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to complete idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const stmt = `
DELETE FROM idempotency_keys
WHERE expires_at < $1`

	tag, err := conn(ctx, r.pool).Exec(ctx, stmt, now)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
