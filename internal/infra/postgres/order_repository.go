package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/order"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRM is the persisted shape of an order read back for callers.
type OrderRM struct {
	ID                  uuid.UUID
	ConfirmationNumber  string
	CustomerName        string
	PaymentConfirmation string
	Items               []order.LineItem
	CreatedAt           time.Time
}

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// WithTx lets the caller span the order insert and the outbox enqueue with a
// single transaction boundary.
func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	const insertOrder = `
INSERT INTO orders (id, confirmation_number, customer_name, payment_confirmation, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := conn(ctx, r.pool).Exec(ctx, insertOrder,
		o.ID(),
		o.ConfirmationNumber(),
		o.CustomerName(),
		o.PaymentConfirmation(),
		o.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "confirmation number already exists", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to create order", err)
	}

	const insertLine = `
INSERT INTO order_line_items (order_id, item_id, name, quantity, price_cents)
VALUES ($1, $2, $3, $4, $5)`

	for _, it := range o.Items() {
		_, err := conn(ctx, r.pool).Exec(ctx, insertLine, o.ID(), it.ItemID, it.Name, it.Quantity, it.PriceCents)
		if err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to create order line item", err)
		}
	}
	return nil
}

func (r *OrderRepository) FindByConfirmation(ctx context.Context, confirmationNumber string) (*OrderRM, error) {
	const query = `
SELECT id, confirmation_number, customer_name, payment_confirmation, created_at
FROM orders
WHERE confirmation_number = $1`

	var rm OrderRM
	err := conn(ctx, r.pool).QueryRow(ctx, query, confirmationNumber).
		Scan(&rm.ID, &rm.ConfirmationNumber, &rm.CustomerName, &rm.PaymentConfirmation, &rm.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "order not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find order", err)
	}

	const lineQuery = `
SELECT item_id, name, quantity, price_cents
FROM order_line_items
WHERE order_id = $1
ORDER BY item_id`

	rows, err := conn(ctx, r.pool).Query(ctx, lineQuery, rm.ID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to load order line items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var li order.LineItem
		if err := rows.Scan(&li.ItemID, &li.Name, &li.Quantity, &li.PriceCents); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan order line item", err)
		}
		rm.Items = append(rm.Items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read order line items", err)
	}

	return &rm, nil
}
