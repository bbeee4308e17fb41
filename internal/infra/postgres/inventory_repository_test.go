//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/inventory"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The seed catalog ships five vacation packages; item 1 starts with 15
// tickets and item 2 with 8.

func mustBatch(t *testing.T, lines ...inventory.ReservationLine) inventory.Batch {
	t.Helper()
	batch, err := inventory.NewBatch(lines)
	require.NoError(t, err)
	return batch
}

func availableTickets(t *testing.T, pool *pgxpool.Pool, id int64) int32 {
	t.Helper()
	var available int32
	err := pool.QueryRow(context.Background(),
		`SELECT available_tickets FROM inventory_items WHERE id = $1`, id).Scan(&available)
	require.NoError(t, err)
	return available
}

func TestReserve(t *testing.T) {
	pool := setupTestPool(t)
	repo := postgres.NewInventoryRepository(pool)
	ctx := context.Background()

	t.Run("commits a satisfiable batch", func(t *testing.T) {
		result, err := repo.Reserve(ctx, mustBatch(t,
			inventory.ReservationLine{ItemID: 1, Quantity: 5},
		))
		require.NoError(t, err)
		assert.True(t, result.Committed)
		assert.Equal(t, int32(10), availableTickets(t, pool, 1))

		require.NoError(t, repo.Release(ctx, mustBatch(t,
			inventory.ReservationLine{ItemID: 1, Quantity: 5},
		)))
	})

	t.Run("all or nothing: one short line rolls back the whole batch", func(t *testing.T) {
		result, err := repo.Reserve(ctx, mustBatch(t,
			inventory.ReservationLine{ItemID: 1, Quantity: 2},
			inventory.ReservationLine{ItemID: 2, Quantity: 100},
		))
		require.NoError(t, err)

		assert.False(t, result.Committed)
		require.Len(t, result.Shortfalls, 1)
		assert.Equal(t, int64(2), result.Shortfalls[0].ItemID)
		assert.Equal(t, int32(100), result.Shortfalls[0].Requested)
		assert.Equal(t, int32(8), result.Shortfalls[0].Available)

		// The satisfiable line was not decremented either.
		assert.Equal(t, int32(15), availableTickets(t, pool, 1))
		assert.Equal(t, int32(8), availableTickets(t, pool, 2))
	})

	t.Run("every short line is reported, not just the first", func(t *testing.T) {
		result, err := repo.Reserve(ctx, mustBatch(t,
			inventory.ReservationLine{ItemID: 1, Quantity: 100},
			inventory.ReservationLine{ItemID: 2, Quantity: 100},
		))
		require.NoError(t, err)
		assert.False(t, result.Committed)
		assert.Len(t, result.Shortfalls, 2)
	})

	t.Run("unknown item id fails the batch", func(t *testing.T) {
		_, err := repo.Reserve(ctx, mustBatch(t,
			inventory.ReservationLine{ItemID: 1, Quantity: 1},
			inventory.ReservationLine{ItemID: 99, Quantity: 1},
		))
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		assert.Equal(t, int32(15), availableTickets(t, pool, 1))
	})
}

func TestConcurrentReserveNeverOversells(t *testing.T) {
	pool := setupTestPool(t)
	repo := postgres.NewInventoryRepository(pool)
	ctx := context.Background()

	const contenders = 40 // more requests than the 15 available tickets

	batch := mustBatch(t, inventory.ReservationLine{ItemID: 1, Quantity: 1})

	type outcome struct {
		committed bool
		err       error
	}

	var wg sync.WaitGroup
	outcomes := make(chan outcome, contenders)

	for range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := repo.Reserve(ctx, batch)
			outcomes <- outcome{committed: result.Committed, err: err}
		}()
	}
	wg.Wait()
	close(outcomes)

	var wins int
	for o := range outcomes {
		require.NoError(t, o.err)
		if o.committed {
			wins++
		}
	}

	assert.Equal(t, 15, wins, "exactly the available tickets may be reserved")
	assert.Equal(t, int32(0), availableTickets(t, pool, 1))
}

// Batches arriving with items in opposite order must not deadlock: lock
// acquisition is normalized to ascending id order before any row is touched.
func TestOppositeOrderBatchesDoNotDeadlock(t *testing.T) {
	pool := setupTestPool(t)
	repo := postgres.NewInventoryRepository(pool)
	ctx := context.Background()

	const rounds = 25

	run := func(batch inventory.Batch) error {
		for range rounds {
			result, err := repo.Reserve(ctx, batch)
			if err != nil {
				return err
			}
			if result.Committed {
				if err := repo.Release(ctx, batch); err != nil {
					return err
				}
			}
		}
		return nil
	}

	forward := mustBatch(t,
		inventory.ReservationLine{ItemID: 1, Quantity: 1},
		inventory.ReservationLine{ItemID: 2, Quantity: 1},
	)
	reversed := mustBatch(t,
		inventory.ReservationLine{ItemID: 2, Quantity: 1},
		inventory.ReservationLine{ItemID: 1, Quantity: 1},
	)

	errCh := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); errCh <- run(forward) }()
	go func() { defer wg.Done(); errCh <- run(reversed) }()
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	assert.Equal(t, int32(15), availableTickets(t, pool, 1))
	assert.Equal(t, int32(8), availableTickets(t, pool, 2))
}

func TestRelease(t *testing.T) {
	pool := setupTestPool(t)
	repo := postgres.NewInventoryRepository(pool)
	ctx := context.Background()

	result, err := repo.Reserve(ctx, mustBatch(t,
		inventory.ReservationLine{ItemID: 1, Quantity: 4},
	))
	require.NoError(t, err)
	require.True(t, result.Committed)

	require.NoError(t, repo.Release(ctx, mustBatch(t,
		inventory.ReservationLine{ItemID: 1, Quantity: 4},
	)))
	assert.Equal(t, int32(15), availableTickets(t, pool, 1))

	err = repo.Release(ctx, mustBatch(t,
		inventory.ReservationLine{ItemID: 99, Quantity: 1},
	))
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestReadPath(t *testing.T) {
	pool := setupTestPool(t)
	repo := postgres.NewInventoryRepository(pool)
	ctx := context.Background()

	t.Run("find all", func(t *testing.T) {
		items, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, items, 5)
		assert.Equal(t, "Colorado Ski Adventure", items[0].Name)
		assert.Equal(t, "Alaskan Cruise & Glacier Tour", items[4].Name)
	})

	t.Run("search by name substring", func(t *testing.T) {
		items, err := repo.SearchByName(ctx, "tropical")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(2), items[0].ID)
	})

	t.Run("find by unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 99)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
