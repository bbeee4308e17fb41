package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/inventory"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InventoryRepository owns the inventory_items table. It is the only writer
// of available_tickets; all multi-row lock acquisition happens in ascending
// item-id order.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) FindAll(ctx context.Context) ([]inventory.Item, error) {
	const query = `
SELECT id, name, price_cents, available_tickets
FROM inventory_items
ORDER BY id`

	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list inventory", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *InventoryRepository) FindByID(ctx context.Context, id int64) (*inventory.Item, error) {
	const query = `
SELECT id, name, price_cents, available_tickets
FROM inventory_items
WHERE id = $1`

	var it inventory.Item
	err := conn(ctx, r.pool).QueryRow(ctx, query, id).
		Scan(&it.ID, &it.Name, &it.PriceCents, &it.AvailableTickets)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, fmt.Sprintf("item %d not found", id), err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find item", err)
	}
	return &it, nil
}

func (r *InventoryRepository) SearchByName(ctx context.Context, name string) ([]inventory.Item, error) {
	const query = `
SELECT id, name, price_cents, available_tickets
FROM inventory_items
WHERE name ILIKE '%' || $1 || '%'
ORDER BY id`

	rows, err := conn(ctx, r.pool).Query(ctx, query, name)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to search inventory", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// errInsufficient aborts the reservation transaction without surfacing an
// error to the caller; the shortfall list rides alongside it.
var errInsufficient = errors.New("insufficient inventory")

// Reserve applies the batch all-or-nothing. One transaction locks every
// referenced row with SELECT ... FOR UPDATE in ascending id order, checks
// every line, and either decrements them all or rolls back with the complete
// shortfall list. No partial decrement is ever observable.
func (r *InventoryRepository) Reserve(ctx context.Context, batch inventory.Batch) (inventory.Result, error) {
	var result inventory.Result

	err := withTx(ctx, r.pool, func(ctx context.Context) error {
		locked, err := r.lockItems(ctx, batch.ItemIDs())
		if err != nil {
			return err
		}

		var shortfalls []inventory.Shortfall
		for _, line := range batch.Lines() {
			it := locked[line.ItemID]
			if line.Quantity > it.AvailableTickets {
				shortfalls = append(shortfalls, inventory.Shortfall{
					ItemID:    it.ID,
					Name:      it.Name,
					Requested: line.Quantity,
					Available: it.AvailableTickets,
				})
			}
		}
		if len(shortfalls) > 0 {
			result = inventory.Result{Committed: false, Shortfalls: shortfalls}
			return errInsufficient
		}

		const decrement = `
UPDATE inventory_items
SET available_tickets = available_tickets - $2
WHERE id = $1`

		for _, line := range batch.Lines() {
			if _, err := conn(ctx, r.pool).Exec(ctx, decrement, line.ItemID, line.Quantity); err != nil {
				return infra.WrapRepoErr(infra.KindDBFailure, "failed to decrement inventory", err)
			}
		}

		result = inventory.Result{Committed: true}
		return nil
	})
	if err != nil && !errors.Is(err, errInsufficient) {
		return inventory.Result{}, err
	}
	return result, nil
}

// Release is the compensating action for a committed reservation: it adds the
// same quantities back inside its own transaction. Rows are touched in
// ascending id order, same as Reserve.
func (r *InventoryRepository) Release(ctx context.Context, batch inventory.Batch) error {
	return withTx(ctx, r.pool, func(ctx context.Context) error {
		const increment = `
UPDATE inventory_items
SET available_tickets = available_tickets + $2
WHERE id = $1`

		for _, line := range batch.Lines() {
			tag, err := conn(ctx, r.pool).Exec(ctx, increment, line.ItemID, line.Quantity)
			if err != nil {
				return infra.WrapRepoErr(infra.KindDBFailure, "failed to release inventory", err)
			}
			if tag.RowsAffected() == 0 {
				return infra.WrapRepoErr(infra.KindNotFound, fmt.Sprintf("item %d not found", line.ItemID), nil)
			}
		}
		return nil
	})
}

// lockItems acquires exclusive row locks in ascending id order. The ORDER BY
// inside FOR UPDATE is the deadlock-avoidance invariant: concurrent batches
// sharing items always queue on the lowest shared id first.
func (r *InventoryRepository) lockItems(ctx context.Context, ids []int64) (map[int64]inventory.Item, error) {
	const query = `
SELECT id, name, price_cents, available_tickets
FROM inventory_items
WHERE id = ANY($1)
ORDER BY id
FOR UPDATE`

	rows, err := conn(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to lock inventory rows", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}

	locked := make(map[int64]inventory.Item, len(items))
	for _, it := range items {
		locked[it.ID] = it
	}
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, infra.WrapRepoErr(infra.KindNotFound, fmt.Sprintf("item %d not found", id), nil)
		}
	}
	return locked, nil
}

func scanItems(rows pgx.Rows) ([]inventory.Item, error) {
	var items []inventory.Item
	for rows.Next() {
		var it inventory.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.PriceCents, &it.AvailableTickets); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read items", err)
	}
	return items, nil
}
