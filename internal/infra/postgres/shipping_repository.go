package postgres

import (
	"context"
	"errors"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/shipping"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ShippingRepository struct {
	pool *pgxpool.Pool
}

func NewShippingRepository(pool *pgxpool.Pool) *ShippingRepository {
	return &ShippingRepository{pool: pool}
}

// Create persists the address and the shipping record in one transaction.
// The record is keyed by confirmation number; a duplicate insert from a
// redelivered event reports KindDuplicateKey so the caller can treat it as a
// no-op success.
func (r *ShippingRepository) Create(ctx context.Context, rec *shipping.Record) error {
	return withTx(ctx, r.pool, func(ctx context.Context) error {
		const insertAddress = `
INSERT INTO addresses (name, address_line1, address_line2, city, state, zip)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

		var addressID int64
		err := conn(ctx, r.pool).QueryRow(ctx, insertAddress,
			rec.Address.Name,
			rec.Address.AddressLine1,
			rec.Address.AddressLine2,
			rec.Address.City,
			rec.Address.State,
			rec.Address.Zip,
		).Scan(&addressID)
		if err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to create address", err)
		}

		const insertRecord = `
INSERT INTO shipping_records (confirmation_number, business_id, address_id, num_packets, weight_kg)
VALUES ($1, $2, $3, $4, $5)`

		_, err = conn(ctx, r.pool).Exec(ctx, insertRecord,
			rec.ConfirmationNumber,
			rec.BusinessID,
			addressID,
			rec.NumPackets,
			rec.WeightKg,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return infra.WrapRepoErr(infra.KindDuplicateKey, "shipping record already exists", err)
			}
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to create shipping record", err)
		}
		return nil
	})
}

func (r *ShippingRepository) FindByConfirmation(ctx context.Context, confirmationNumber string) (*shipping.Record, error) {
	const query = `
SELECT s.confirmation_number, s.business_id, s.num_packets, s.weight_kg,
       a.name, a.address_line1, a.address_line2, a.city, a.state, a.zip
FROM shipping_records s
JOIN addresses a ON a.id = s.address_id
WHERE s.confirmation_number = $1`

	var rec shipping.Record
	err := conn(ctx, r.pool).QueryRow(ctx, query, confirmationNumber).Scan(
		&rec.ConfirmationNumber,
		&rec.BusinessID,
		&rec.NumPackets,
		&rec.WeightKg,
		&rec.Address.Name,
		&rec.Address.AddressLine1,
		&rec.Address.AddressLine2,
		&rec.Address.City,
		&rec.Address.State,
		&rec.Address.Zip,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "shipping record not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find shipping record", err)
	}
	return &rec, nil
}
