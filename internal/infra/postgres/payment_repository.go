package postgres

import (
	"context"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/payment"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentRepository appends write-once ledger rows. Records are never
// mutated after insert except for the reversal flag set during compensation.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Create(ctx context.Context, rec *payment.Record) error {
	const stmt = `
INSERT INTO payment_records (confirmation_number, card_holder_name, card_number, exp_date, cvv, reversal_required, created_at)
VALUES ($1, $2, $3, $4, $5, FALSE, $6)`

	_, err := conn(ctx, r.pool).Exec(ctx, stmt,
		rec.ConfirmationNumber,
		rec.CardHolderName,
		rec.CardNumber,
		rec.ExpDate,
		rec.CVV,
		rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "payment confirmation number already exists", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to create payment record", err)
	}
	return nil
}

// FlagReversal marks a captured payment for out-of-band reversal after a
// later saga step failed. It does not touch any other column.
func (r *PaymentRepository) FlagReversal(ctx context.Context, confirmationNumber string) error {
	const stmt = `
UPDATE payment_records
SET reversal_required = TRUE
WHERE confirmation_number = $1`

	tag, err := conn(ctx, r.pool).Exec(ctx, stmt, confirmationNumber)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to flag payment reversal", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "payment record not found", nil)
	}
	return nil
}
