package inventory

import (
	"errors"
	"sort"
)

var (
	ErrEmptyBatch          = errors.New("reservation batch must not be empty")
	ErrNonPositiveQuantity = errors.New("reservation quantity must be positive")
	ErrDuplicateItem       = errors.New("reservation batch contains duplicate item ids")
)

// ReservationLine is a request to take Quantity units of a single item.
type ReservationLine struct {
	ItemID   int64
	Quantity int32
}

// Batch is a validated set of reservation lines. Lines are kept sorted by
// ascending item id; every code path that locks more than one inventory row
// must follow this order to stay deadlock free.
type Batch struct {
	lines []ReservationLine
}

// NewBatch validates and normalizes a set of lines. Duplicate item ids are an
// error rather than being silently merged, so a malformed client request is
// surfaced instead of reinterpreted.
func NewBatch(lines []ReservationLine) (Batch, error) {
	if len(lines) == 0 {
		return Batch{}, ErrEmptyBatch
	}

	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Batch{}, ErrNonPositiveQuantity
		}
		if _, dup := seen[l.ItemID]; dup {
			return Batch{}, ErrDuplicateItem
		}
		seen[l.ItemID] = struct{}{}
	}

	sorted := make([]ReservationLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ItemID < sorted[j].ItemID })

	return Batch{lines: sorted}, nil
}

// Lines returns the lines in ascending item-id order.
func (b Batch) Lines() []ReservationLine {
	return b.lines
}

func (b Batch) ItemIDs() []int64 {
	ids := make([]int64, len(b.lines))
	for i, l := range b.lines {
		ids[i] = l.ItemID
	}
	return ids
}

func (b Batch) Len() int {
	return len(b.lines)
}

// Result is the outcome of Reserve: either all lines were applied, or none
// were and Shortfalls enumerates every short line.
type Result struct {
	Committed  bool
	Shortfalls []Shortfall
}
