//go:build unit

package inventory_test

import (
	"testing"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/inventory"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatch(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		batch, err := inventory.NewBatch([]inventory.ReservationLine{
			{ItemID: 2, Quantity: 1},
			{ItemID: 1, Quantity: 3},
		})
		require.NoError(t, err)

		assert.Equal(t, 2, batch.Len())
		assert.Equal(t, []int64{1, 2}, batch.ItemIDs(), "lines must be sorted ascending by item id")
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name  string
			lines []inventory.ReservationLine
			errIs error
		}{
			{
				name:  "empty batch",
				lines: nil,
				errIs: inventory.ErrEmptyBatch,
			},
			{
				name:  "zero quantity",
				lines: []inventory.ReservationLine{{ItemID: 1, Quantity: 0}},
				errIs: inventory.ErrNonPositiveQuantity,
			},
			{
				name:  "negative quantity",
				lines: []inventory.ReservationLine{{ItemID: 1, Quantity: -2}},
				errIs: inventory.ErrNonPositiveQuantity,
			},
			{
				name: "duplicate item ids",
				lines: []inventory.ReservationLine{
					{ItemID: 1, Quantity: 1},
					{ItemID: 1, Quantity: 2},
				},
				errIs: inventory.ErrDuplicateItem,
			},
			{
				name:  "single line",
				lines: []inventory.ReservationLine{{ItemID: 7, Quantity: 1}},
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := inventory.NewBatch(tc.lines)
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
					return
				}
				assert.NoError(t, err)
			})
		}
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		lines := []inventory.ReservationLine{
			{ItemID: 9, Quantity: 1},
			{ItemID: 3, Quantity: 1},
		}
		original := []inventory.ReservationLine{
			{ItemID: 9, Quantity: 1},
			{ItemID: 3, Quantity: 1},
		}

		_, err := inventory.NewBatch(lines)
		require.NoError(t, err)

		if diff := cmp.Diff(original, lines); diff != "" {
			t.Errorf("input lines mutated (-want +got):\n%s", diff)
		}
	})
}
