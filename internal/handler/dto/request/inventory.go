package request

import (
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/inventory"
)

type ReserveLine struct {
	ID       int64 `json:"id" binding:"required"`
	Quantity int32 `json:"quantity" binding:"required"`
}

// ReserveRequest covers both the reserve and release endpoints; the two share
// a payload shape and differ only in direction.
type ReserveRequest struct {
	Items []ReserveLine `json:"items" binding:"required"`
}

func (r ReserveRequest) ToLines() []inventory.ReservationLine {
	lines := make([]inventory.ReservationLine, len(r.Items))
	for i, it := range r.Items {
		lines[i] = inventory.ReservationLine{ItemID: it.ID, Quantity: it.Quantity}
	}
	return lines
}
